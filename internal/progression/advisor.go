package progression

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=repo_mocks_test.go -package=progression_test

// SessionsRepo is the append-only history of logged sets.
type SessionsRepo interface {
	Add(ctx context.Context, session Session) error
	// ListByExercise returns all well formed sessions with exactly the given exercise name.
	ListByExercise(ctx context.Context, exercise string) ([]Session, error)
}

const (
	MinRPE = 1
	MaxRPE = 10
)

// Recommend returns the weight for the next session of a lift.
// First matching rule wins, RPE rules are checked before the reps-only ones.
func Recommend(weight float64, reps, rpe int) float64 {
	switch {
	case rpe <= 7 && reps == 10:
		return pkg.Round2(weight + 5.0)
	case rpe == 8 && reps == 10:
		return pkg.Round2(weight + 2.5)
	case rpe == 9:
		return pkg.Round2(weight)
	case rpe == 10:
		return pkg.Round2(weight - 2.5)
	case reps >= 10:
		return pkg.Round2(weight + 2.5)
	case reps >= 8:
		return pkg.Round2(weight)
	default:
		return pkg.Round2(weight - 2.5)
	}
}

type Advisor struct {
	repo SessionsRepo
	now  func() time.Time
}

func NewAdvisor(repo SessionsRepo, now func() time.Time) *Advisor {
	if now == nil {
		now = time.Now
	}
	return &Advisor{
		repo: repo,
		now:  now,
	}
}

func ValidateSessionInput(in SessionInput) error {
	vErr := pkg.NewValidationError()
	if strings.TrimSpace(in.Exercise) == "" {
		vErr.Add("exercise", "must not be empty")
	}
	if in.Weight <= 0 {
		vErr.Add("weight", "must be > 0")
	}
	if in.Reps < 1 {
		vErr.Add("reps", "must be >= 1")
	}
	if in.RPE < MinRPE || in.RPE > MaxRPE {
		vErr.Add("rpe", fmt.Sprintf("must be between %d and %d", MinRPE, MaxRPE))
	}
	if in.Date != "" {
		if _, err := pkg.ParseDate(in.Date); err != nil {
			vErr.Add("date", "must be YYYY-MM-DD")
		}
	}
	return vErr.OrNil()
}

// LogSession stores the set and returns the next recommended weight,
// together with the average reps of the exercise over the last week.
func (a *Advisor) LogSession(ctx context.Context, in SessionInput) (_ *SessionResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "advisor.progression.logSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := ValidateSessionInput(in); err != nil {
		return nil, err
	}

	date := pkg.DateOf(a.now())
	if in.Date != "" {
		// already validated
		date, _ = pkg.ParseDate(in.Date)
	}

	session := Session{
		Exercise: strings.TrimSpace(in.Exercise),
		Weight:   in.Weight,
		Reps:     in.Reps,
		RPE:      in.RPE,
		Date:     date,
	}
	span.SetAttributes(attribute.String("exercise", session.Exercise))

	if err := a.repo.Add(ctx, session); err != nil {
		return nil, fmt.Errorf("add session: %w", err)
	}

	result := &SessionResult{
		Session:    session,
		NextWeight: Recommend(session.Weight, session.Reps, session.RPE),
	}

	avg, ok, err := a.AverageRepsLastWeek(ctx, session.Exercise)
	if err != nil {
		// the set is stored already, the average is only informative
		log.Errorf("average reps for [%s]: %s", session.Exercise, err)
	} else if ok {
		result.AvgRepsLastWeek = &avg
	}

	return result, nil
}

// AverageRepsLastWeek returns the mean reps of the exercise over the sessions
// dated within the last 7 days (today included). ok is false when there are none.
func (a *Advisor) AverageRepsLastWeek(ctx context.Context, exercise string) (_ float64, _ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "advisor.progression.avgRepsLastWeek")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", exercise))

	sessions, err := a.repo.ListByExercise(ctx, exercise)
	if err != nil {
		return 0, false, err
	}

	weekAgo := pkg.DateOf(a.now()).AddDays(-7)
	total, count := 0, 0
	for _, s := range sessions {
		if s.Exercise != exercise || s.Date.Before(weekAgo) {
			continue
		}
		total += s.Reps
		count++
	}

	if count == 0 {
		return 0, false, nil
	}

	return pkg.Round2(float64(total) / float64(count)), true, nil
}

// History returns the sessions of an exercise, optionally limited to [From, To] (inclusive).
func (a *Advisor) History(ctx context.Context, params HistoryParams) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "advisor.progression.history")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sessions, err := a.repo.ListByExercise(ctx, params.Exercise)
	if err != nil {
		return nil, err
	}

	filtered := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if params.From != nil && s.Date.Before(*params.From) {
			continue
		}
		if params.To != nil && s.Date.After(*params.To) {
			continue
		}
		filtered = append(filtered, s)
	}

	return filtered, nil
}
