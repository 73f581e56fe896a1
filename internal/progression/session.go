package progression

import (
	"github.com/2beens/fittrack/pkg"
)

// Session is a single logged set of an exercise.
type Session struct {
	Exercise string   `json:"exercise"`
	Weight   float64  `json:"weight"`
	Reps     int      `json:"reps"`
	RPE      int      `json:"rpe,omitempty"` // 0 for rows logged before RPE was tracked
	Date     pkg.Date `json:"date"`
}

type SessionInput struct {
	Exercise string  `json:"exercise"`
	Weight   float64 `json:"weight"`
	Reps     int     `json:"reps"`
	RPE      int     `json:"rpe"`
	// Date is optional, YYYY-MM-DD, defaults to today
	Date string `json:"date,omitempty"`
}

type SessionResult struct {
	Session
	NextWeight float64 `json:"nextWeight"`
	// AvgRepsLastWeek is nil when there is no data for the last 7 days
	AvgRepsLastWeek *float64 `json:"avgRepsLastWeek"`
}

type HistoryParams struct {
	Exercise string
	From     *pkg.Date
	To       *pkg.Date
}
