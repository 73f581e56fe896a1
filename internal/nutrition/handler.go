package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/fittrack/internal/openfoodfacts"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// FoodDatabase is the external product database (OpenFoodFacts).
type FoodDatabase interface {
	ProductLookup
	Search(ctx context.Context, query string, limit int) []openfoodfacts.Product
}

type RemoveMealResponse struct {
	ID      string `json:"id"`
	Removed bool   `json:"removed"`
}

type Handler struct {
	ledger  *Ledger
	foodDB  FoodDatabase
	metrics *metrics.Manager
}

func NewHandler(ledger *Ledger, foodDB FoodDatabase, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		ledger:  ledger,
		foodDB:  foodDB,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/foods", handler.HandleSearchFoods).Methods("GET", "OPTIONS").Name("search-foods")
	r.HandleFunc("/foods", handler.HandleUpsertFood).Methods("POST", "OPTIONS").Name("upsert-food")
	r.HandleFunc("/meals", handler.HandleAddMeal).Methods("POST", "OPTIONS").Name("add-meal")
	r.HandleFunc("/meals/{id}", handler.HandleRemoveMeal).Methods("DELETE", "OPTIONS").Name("remove-meal")
	r.HandleFunc("/summary", handler.HandleDaySummary).Methods("GET", "OPTIONS").Name("day-summary")

	lookupRouter := r.PathPrefix("/lookup").Subrouter()
	lookupRouter.HandleFunc("/barcode/{code}", handler.HandleLookupBarcode).Methods("GET", "OPTIONS").Name("lookup-barcode")
	lookupRouter.HandleFunc("/barcode/{code}/import", handler.HandleImportProduct).Methods("POST", "OPTIONS").Name("import-product")
	lookupRouter.HandleFunc("/search", handler.HandleLookupSearch).Methods("GET", "OPTIONS").Name("lookup-search")
}

func (handler *Handler) HandleSearchFoods(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.searchFoods")
	defer span.End()

	limit, ok := limitParam(w, r, DefaultSearchLimit)
	if !ok {
		return
	}

	foods, err := handler.ledger.SearchFoods(ctx, r.URL.Query().Get("q"), limit)
	if err != nil {
		log.Errorf("search foods: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "failed to search foods", nil)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, foods)
}

func (handler *Handler) HandleUpsertFood(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.upsertFood")
	defer span.End()

	var in FoodInput
	if !decodeJSONBody(w, r, &in) {
		return
	}

	result, err := handler.ledger.UpsertFood(ctx, in)
	if err != nil {
		handler.writeLedgerError(w, "upsert food", err)
		return
	}

	if handler.metrics != nil {
		handler.metrics.CounterFoodUpserts.WithLabelValues(strconv.FormatBool(result.Updated)).Inc()
	}

	status := http.StatusCreated
	if result.Updated {
		status = http.StatusOK
	}
	pkg.WriteJSON(w, status, result)
}

func (handler *Handler) HandleAddMeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.addMeal")
	defer span.End()

	var in MealInput
	if !decodeJSONBody(w, r, &in) {
		return
	}

	entry, err := handler.ledger.AddMeal(ctx, in)
	if err != nil {
		handler.writeLedgerError(w, "add meal", err)
		return
	}

	if handler.metrics != nil {
		handler.metrics.CounterMeals.WithLabelValues("add").Inc()
	}

	pkg.WriteJSON(w, http.StatusCreated, entry)
}

func (handler *Handler) HandleRemoveMeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.removeMeal")
	defer span.End()

	id := mux.Vars(r)["id"]
	removed, err := handler.ledger.RemoveMeal(ctx, id)
	if err != nil {
		handler.writeLedgerError(w, "remove meal", err)
		return
	}
	if !removed {
		handler.writeLedgerError(w, "remove meal", ErrMealNotFound)
		return
	}

	if handler.metrics != nil {
		handler.metrics.CounterMeals.WithLabelValues("remove").Inc()
	}

	pkg.WriteJSON(w, http.StatusOK, RemoveMealResponse{ID: id, Removed: true})
}

func (handler *Handler) HandleDaySummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.daySummary")
	defer span.End()

	date := handler.ledger.Today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := pkg.ParseDate(raw)
		if err != nil {
			pkg.WriteJSONError(w, http.StatusBadRequest, "validation failed", map[string]string{"date": "must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	summary, err := handler.ledger.DaySummary(ctx, date)
	if err != nil {
		handler.writeLedgerError(w, "day summary", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, summary)
}

func (handler *Handler) HandleLookupBarcode(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.lookupBarcode")
	defer span.End()

	code := mux.Vars(r)["code"]
	product, found := handler.foodDB.LookupBarcode(ctx, code)
	handler.countLookup("barcode", found)
	if !found {
		pkg.WriteJSONError(w, http.StatusNotFound, ErrProductNotFound.Error(), nil)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, product)
}

func (handler *Handler) HandleLookupSearch(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.lookupSearch")
	defer span.End()

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		pkg.WriteJSONError(w, http.StatusBadRequest, "validation failed", map[string]string{"q": "must not be empty"})
		return
	}
	limit, ok := limitParam(w, r, openfoodfacts.DefaultSearchLimit)
	if !ok {
		return
	}

	products := handler.foodDB.Search(ctx, query, limit)
	handler.countLookup("search", len(products) > 0)

	pkg.WriteJSON(w, http.StatusOK, products)
}

func (handler *Handler) HandleImportProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.importProduct")
	defer span.End()

	code := mux.Vars(r)["code"]
	result, err := handler.ledger.ImportProduct(ctx, code)
	handler.countLookup("import", !errors.Is(err, ErrProductNotFound))
	if err != nil {
		handler.writeLedgerError(w, "import product", err)
		return
	}

	if handler.metrics != nil {
		handler.metrics.CounterFoodUpserts.WithLabelValues(strconv.FormatBool(result.Updated)).Inc()
	}

	pkg.WriteJSON(w, http.StatusOK, result)
}

func (handler *Handler) countLookup(kind string, found bool) {
	if handler.metrics == nil {
		return
	}
	handler.metrics.CounterLookups.WithLabelValues(kind, strconv.FormatBool(found)).Inc()
}

func (handler *Handler) writeLedgerError(w http.ResponseWriter, op string, err error) {
	var vErr *pkg.ValidationError
	switch {
	case errors.As(err, &vErr):
		pkg.WriteJSONError(w, http.StatusBadRequest, "validation failed", vErr.Fields)
	case errors.Is(err, ErrFoodNotFound), errors.Is(err, ErrMealNotFound), errors.Is(err, ErrProductNotFound):
		pkg.WriteJSONError(w, http.StatusNotFound, err.Error(), nil)
	default:
		log.Errorf("%s: %s", op, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "failed to "+op, nil)
	}
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, target any) bool {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid content type", nil)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		log.Tracef("unmarshal json body: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid json body", nil)
		return false
	}
	return true
}

func limitParam(w http.ResponseWriter, r *http.Request, defaultLimit int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		pkg.WriteJSONError(w, http.StatusBadRequest, "validation failed", map[string]string{"limit": "must be an integer >= 1"})
		return 0, false
	}
	return limit, true
}
