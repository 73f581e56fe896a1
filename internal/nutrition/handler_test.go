package nutrition_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/fittrack/internal/nutrition"
	"github.com/2beens/fittrack/internal/openfoodfacts"
	"github.com/2beens/fittrack/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeFoodDB implements nutrition.FoodDatabase for tests.
type fakeFoodDB struct {
	products map[string]openfoodfacts.Product
	search   []openfoodfacts.Product
}

func (f *fakeFoodDB) LookupBarcode(_ context.Context, barcode string) (*openfoodfacts.Product, bool) {
	p, ok := f.products[barcode]
	if !ok {
		return nil, false
	}
	return &p, true
}

func (f *fakeFoodDB) Search(_ context.Context, _ string, limit int) []openfoodfacts.Product {
	if len(f.search) > limit {
		return f.search[:limit]
	}
	return f.search
}

type envelope[T any] struct {
	OK     bool              `json:"ok"`
	Data   T                 `json:"data"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

type handlerSetup struct {
	router  *mux.Router
	mocks   ledgerMocks
	metrics *metrics.Manager
}

func newHandlerSetup(t *testing.T) handlerSetup {
	t.Helper()
	ctrl := gomock.NewController(t)
	mocks := ledgerMocks{
		foods: NewMockFoodsRepo(ctrl),
		meals: NewMockMealsRepo(ctrl),
	}
	foodDB := &fakeFoodDB{
		products: map[string]openfoodfacts.Product{
			"3017620422003": {Name: "Nutella", Brand: "Ferrero", Barcode: "3017620422003", Kcal100: 539, Protein100: 6.3, Carb100: 57.5, Fat100: 30.9},
		},
		search: []openfoodfacts.Product{
			{Name: "Skyr", Kcal100: 63, Protein100: 11, Carb100: 4, Fat100: 0.2},
			{Name: "Skyr vanilla", Kcal100: 80, Protein100: 10, Carb100: 9, Fat100: 0.2},
		},
	}

	ledger := nutrition.NewLedger(mocks.foods, mocks.meals, foodDB, fixedNow)
	metricsManager := metrics.NewTestManager()
	r := mux.NewRouter()
	nutrition.NewHandler(ledger, foodDB, metricsManager).SetupRoutes(r)

	return handlerSetup{
		router:  r,
		mocks:   mocks,
		metrics: metricsManager,
	}
}

func (s handlerSetup) do(t *testing.T, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_HandleAddMeal(t *testing.T) {
	s := newHandlerSetup(t)

	s.mocks.foods.EXPECT().List(gomock.Any()).Return(testCatalog, nil)
	s.mocks.meals.EXPECT().Add(gomock.Any(), gomock.Any()).Return(nil)

	rec := s.do(t, "POST", "/meals", nutrition.MealInput{Food: "Banana", QuantityG: 200})
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decodeEnvelope[nutrition.MealEntry](t, rec)
	assert.True(t, env.OK)
	assert.NotEmpty(t, env.Data.ID)
	assert.Equal(t, 178.0, env.Data.Kcal)
	assert.Equal(t, "2024-05-10", env.Data.Date.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.CounterMeals.WithLabelValues("add")))
}

func TestHandler_HandleAddMeal_Errors(t *testing.T) {
	s := newHandlerSetup(t)

	rec := s.do(t, "POST", "/meals", nutrition.MealInput{Food: "Banana", QuantityG: 0})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope[any](t, rec)
	assert.False(t, env.OK)
	assert.Contains(t, env.Fields, "quantityG")

	s.mocks.foods.EXPECT().List(gomock.Any()).Return(testCatalog, nil)
	rec = s.do(t, "POST", "/meals", nutrition.MealInput{Food: "Pizza", QuantityG: 100})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, nutrition.ErrFoodNotFound.Error(), decodeEnvelope[any](t, rec).Error)

	s.mocks.foods.EXPECT().List(gomock.Any()).Return(nil, errors.New("catalog unreadable"))
	rec = s.do(t, "POST", "/meals", nutrition.MealInput{Food: "Banana", QuantityG: 100})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "failed to add meal", decodeEnvelope[any](t, rec).Error)

	req, err := http.NewRequest("POST", "/meals", bytes.NewReader([]byte(`{"food":`)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_HandleRemoveMeal(t *testing.T) {
	s := newHandlerSetup(t)

	s.mocks.meals.EXPECT().Remove(gomock.Any(), "meal-1").Return(true, nil)
	s.mocks.meals.EXPECT().Remove(gomock.Any(), "meal-2").Return(false, nil)

	rec := s.do(t, "DELETE", "/meals/meal-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope[nutrition.RemoveMealResponse](t, rec)
	assert.True(t, env.Data.Removed)
	assert.Equal(t, "meal-1", env.Data.ID)

	rec = s.do(t, "DELETE", "/meals/meal-2", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, nutrition.ErrMealNotFound.Error(), decodeEnvelope[any](t, rec).Error)
}

func TestHandler_HandleDaySummary(t *testing.T) {
	s := newHandlerSetup(t)

	today := mustDate(t, "2024-05-10")
	s.mocks.meals.EXPECT().
		ListByDate(gomock.Any(), today).
		Return([]nutrition.MealEntry{
			{ID: "a", Date: today, Food: "Banana", QuantityG: 200, Kcal: 178, Protein: 2.2, Carb: 46, Fat: 0.6},
		}, nil)
	s.mocks.meals.EXPECT().ListByDate(gomock.Any(), mustDate(t, "2024-01-01")).Return(nil, nil)

	rec := s.do(t, "GET", "/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope[nutrition.DaySummary](t, rec)
	assert.Equal(t, 178.0, env.Data.Kcal)
	assert.Len(t, env.Data.Meals, 1)

	rec = s.do(t, "GET", "/summary?date=2024-01-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeEnvelope[nutrition.DaySummary](t, rec)
	assert.Zero(t, env.Data.Kcal)
	assert.Empty(t, env.Data.Meals)

	rec = s.do(t, "GET", "/summary?date=01.01.2024", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeEnvelope[any](t, rec).Fields, "date")
}

func TestHandler_HandleFoods(t *testing.T) {
	s := newHandlerSetup(t)

	s.mocks.foods.EXPECT().List(gomock.Any()).Return(testCatalog, nil)
	rec := s.do(t, "GET", "/foods?q=rice&limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope[[]nutrition.Food](t, rec)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "Cooked white rice", env.Data[0].Name)

	rec = s.do(t, "GET", "/foods?limit=zero", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	s.mocks.foods.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(false, nil)
	rec = s.do(t, "POST", "/foods", nutrition.FoodInput{Name: "Kefir", Kcal100: 41, Protein100: 3.4, Carb100: 4.5, Fat100: 1})
	require.Equal(t, http.StatusCreated, rec.Code)
	upsertEnv := decodeEnvelope[nutrition.UpsertResult](t, rec)
	assert.False(t, upsertEnv.Data.Updated)
	assert.Equal(t, "Kefir", upsertEnv.Data.Name)

	s.mocks.foods.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(true, nil)
	rec = s.do(t, "POST", "/foods", nutrition.FoodInput{Name: "kefir", Kcal100: 42, Protein100: 3.4, Carb100: 4.5, Fat100: 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeEnvelope[nutrition.UpsertResult](t, rec).Data.Updated)

	rec = s.do(t, "POST", "/foods", nutrition.FoodInput{Name: "k", Kcal100: 0})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decodeEnvelope[any](t, rec).Fields
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "kcal100")

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.CounterFoodUpserts.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.CounterFoodUpserts.WithLabelValues("false")))
}

func TestHandler_Lookup(t *testing.T) {
	s := newHandlerSetup(t)

	rec := s.do(t, "GET", "/lookup/barcode/3017620422003", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope[openfoodfacts.Product](t, rec)
	assert.Equal(t, "Nutella", env.Data.Name)

	rec = s.do(t, "GET", "/lookup/barcode/000", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, "GET", "/lookup/search?q=skyr&limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	searchEnv := decodeEnvelope[[]openfoodfacts.Product](t, rec)
	require.Len(t, searchEnv.Data, 1)
	assert.Equal(t, "Skyr", searchEnv.Data[0].Name)

	rec = s.do(t, "GET", "/lookup/search", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	s.mocks.foods.EXPECT().
		Upsert(gomock.Any(), nutrition.Food{Name: "Nutella", Kcal100: 539, Protein100: 6.3, Carb100: 57.5, Fat100: 30.9}).
		Return(false, nil)
	rec = s.do(t, "POST", "/lookup/barcode/3017620422003/import", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Nutella", decodeEnvelope[nutrition.UpsertResult](t, rec).Data.Name)

	rec = s.do(t, "POST", "/lookup/barcode/000/import", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.CounterLookups.WithLabelValues("barcode", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.CounterLookups.WithLabelValues("barcode", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.CounterLookups.WithLabelValues("search", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.CounterLookups.WithLabelValues("import", "false")))
}
