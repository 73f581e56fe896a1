package progression

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type AverageRepsResponse struct {
	Exercise string `json:"exercise"`
	// nil when there is no data for the last 7 days
	AvgRepsLastWeek *float64 `json:"avgRepsLastWeek"`
}

type RecommendResponse struct {
	Weight     float64 `json:"weight"`
	Reps       int     `json:"reps"`
	RPE        int     `json:"rpe"`
	NextWeight float64 `json:"nextWeight"`
}

type Handler struct {
	advisor *Advisor
	metrics *metrics.Manager
}

func NewHandler(advisor *Advisor, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		advisor: advisor,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/session", handler.HandleLogSession).Methods("POST", "OPTIONS").Name("log-session")
	r.HandleFunc("/session/{exercise}/avg", handler.HandleAverageReps).Methods("GET", "OPTIONS").Name("session-avg-reps")
	r.HandleFunc("/session/{exercise}/history", handler.HandleHistory).Methods("GET", "OPTIONS").Name("session-history")
	r.HandleFunc("/recommend", handler.HandleRecommend).Methods("GET", "OPTIONS").Name("recommend")
}

func (handler *Handler) HandleLogSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.logSession")
	defer span.End()

	if !strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid content type", nil)
		return
	}

	var in SessionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Tracef("log session, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid json body", nil)
		return
	}

	result, err := handler.advisor.LogSession(ctx, in)
	if err != nil {
		var vErr *pkg.ValidationError
		if errors.As(err, &vErr) {
			pkg.WriteJSONError(w, http.StatusBadRequest, "validation failed", vErr.Fields)
			return
		}
		log.Errorf("failed to log session [%s]: %s", in.Exercise, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "failed to log session", nil)
		return
	}

	if handler.metrics != nil {
		handler.metrics.CounterSessions.Inc()
	}

	log.Debugf("session logged: %s %.2f x %d @%d -> next %.2f", result.Exercise, result.Weight, result.Reps, result.RPE, result.NextWeight)
	pkg.WriteJSON(w, http.StatusCreated, result)
}

func (handler *Handler) HandleAverageReps(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.avgReps")
	defer span.End()

	exercise := mux.Vars(r)["exercise"]
	if exercise == "" {
		pkg.WriteJSONError(w, http.StatusBadRequest, "exercise empty", map[string]string{"exercise": "must not be empty"})
		return
	}

	avg, ok, err := handler.advisor.AverageRepsLastWeek(ctx, exercise)
	if err != nil {
		log.Errorf("failed to get average reps for [%s]: %s", exercise, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "failed to get average reps", nil)
		return
	}

	resp := AverageRepsResponse{Exercise: exercise}
	if ok {
		resp.AvgRepsLastWeek = &avg
	}
	pkg.WriteJSON(w, http.StatusOK, resp)
}

func (handler *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.history")
	defer span.End()

	params := HistoryParams{
		Exercise: mux.Vars(r)["exercise"],
	}

	vErr := pkg.NewValidationError()
	for _, p := range []struct {
		name   string
		target **pkg.Date
	}{
		{"from", &params.From},
		{"to", &params.To},
	} {
		raw := r.URL.Query().Get(p.name)
		if raw == "" {
			continue
		}
		d, err := pkg.ParseDate(raw)
		if err != nil {
			vErr.Add(p.name, "must be YYYY-MM-DD")
			continue
		}
		*p.target = &d
	}
	if err := vErr.OrNil(); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, "validation failed", vErr.Fields)
		return
	}

	sessions, err := handler.advisor.History(ctx, params)
	if err != nil {
		log.Errorf("failed to get history for [%s]: %s", params.Exercise, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "failed to get history", nil)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, sessions)
}

func (handler *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	vErr := pkg.NewValidationError()
	weight, err := strconv.ParseFloat(query.Get("weight"), 64)
	if err != nil || weight <= 0 {
		vErr.Add("weight", "must be a number > 0")
	}
	reps, err := strconv.Atoi(query.Get("reps"))
	if err != nil || reps < 1 {
		vErr.Add("reps", "must be an integer >= 1")
	}
	rpe, err := strconv.Atoi(query.Get("rpe"))
	if err != nil || rpe < MinRPE || rpe > MaxRPE {
		vErr.Add("rpe", "must be an integer between 1 and 10")
	}
	if err := vErr.OrNil(); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, "validation failed", vErr.Fields)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, RecommendResponse{
		Weight:     weight,
		Reps:       reps,
		RPE:        rpe,
		NextWeight: Recommend(weight, reps, rpe),
	})
}
