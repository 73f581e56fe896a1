package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/fittrack/internal/nutrition"
	"github.com/2beens/fittrack/internal/progression"
	"github.com/2beens/fittrack/pkg"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	log "github.com/sirupsen/logrus"
)

// ToolFunc runs a single tool call. Failures are reported in the result
// (IsError), never as a Go error.
type ToolFunc func(ctx context.Context, req *protocol.CallToolRequest) *protocol.CallToolResult

type mealLedger interface {
	AddMeal(ctx context.Context, in nutrition.MealInput) (*nutrition.MealEntry, error)
	DaySummary(ctx context.Context, date pkg.Date) (*nutrition.DaySummary, error)
	SearchFoods(ctx context.Context, query string, limit int) ([]nutrition.Food, error)
	Today() pkg.Date
}

// Handler parses tool input, calls the ledger, formats the MCP result.
type Handler struct {
	ledger mealLedger
}

func NewHandler(ledger mealLedger) *Handler {
	return &Handler{
		ledger: ledger,
	}
}

// RecommendWeightInput is the input for recommend_weight.
type RecommendWeightInput struct {
	Weight float64 `json:"weight" description:"Weight lifted in the last set (kg)"`
	Reps   int     `json:"reps" description:"Reps done in the last set"`
	RPE    int     `json:"rpe" description:"Rate of perceived exertion, 1-10"`
}

func (h *Handler) RecommendWeightTool() ToolFunc {
	return func(_ context.Context, req *protocol.CallToolRequest) *protocol.CallToolResult {
		var in RecommendWeightInput
		if err := extractParams(req, &in); err != nil {
			return errorResult("Invalid arguments: " + err.Error())
		}

		vErr := pkg.NewValidationError()
		if in.Weight <= 0 {
			vErr.Add("weight", "must be > 0")
		}
		if in.Reps < 1 {
			vErr.Add("reps", "must be >= 1")
		}
		if in.RPE < progression.MinRPE || in.RPE > progression.MaxRPE {
			vErr.Add("rpe", "must be between 1 and 10")
		}
		if err := vErr.OrNil(); err != nil {
			return errorResult("Invalid input: " + err.Error())
		}

		return jsonResult(progression.RecommendResponse{
			Weight:     in.Weight,
			Reps:       in.Reps,
			RPE:        in.RPE,
			NextWeight: progression.Recommend(in.Weight, in.Reps, in.RPE),
		})
	}
}

// LogMealInput is the input for log_meal. When all four per 100g macros are
// given, the food does not have to be in the catalog.
type LogMealInput struct {
	Food       string   `json:"food" description:"Food name, as in the catalog"`
	QuantityG  float64  `json:"quantity_g" description:"Eaten quantity in grams"`
	Date       string   `json:"date,omitempty" description:"Day of the meal (YYYY-MM-DD), defaults to today"`
	Kcal100    *float64 `json:"kcal_100,omitempty" description:"Custom kcal per 100g"`
	Protein100 *float64 `json:"protein_100,omitempty" description:"Custom protein per 100g"`
	Carb100    *float64 `json:"carb_100,omitempty" description:"Custom carbs per 100g"`
	Fat100     *float64 `json:"fat_100,omitempty" description:"Custom fat per 100g"`
}

func (h *Handler) LogMealTool() ToolFunc {
	return func(ctx context.Context, req *protocol.CallToolRequest) *protocol.CallToolResult {
		var in LogMealInput
		if err := extractParams(req, &in); err != nil {
			return errorResult("Invalid arguments: " + err.Error())
		}

		entry, err := h.ledger.AddMeal(ctx, nutrition.MealInput{
			Food:       in.Food,
			QuantityG:  in.QuantityG,
			Date:       in.Date,
			Kcal100:    in.Kcal100,
			Protein100: in.Protein100,
			Carb100:    in.Carb100,
			Fat100:     in.Fat100,
		})
		if err != nil {
			return ledgerErrorResult("Error logging meal", err)
		}

		return jsonResult(entry)
	}
}

// DaySummaryInput is the input for day_summary.
type DaySummaryInput struct {
	Date string `json:"date,omitempty" description:"Day (YYYY-MM-DD), defaults to today"`
}

func (h *Handler) DaySummaryTool() ToolFunc {
	return func(ctx context.Context, req *protocol.CallToolRequest) *protocol.CallToolResult {
		var in DaySummaryInput
		if err := extractParams(req, &in); err != nil {
			return errorResult("Invalid arguments: " + err.Error())
		}

		date := h.ledger.Today()
		if in.Date != "" {
			parsed, err := pkg.ParseDate(in.Date)
			if err != nil {
				return errorResult("Invalid date: use YYYY-MM-DD")
			}
			date = parsed
		}

		summary, err := h.ledger.DaySummary(ctx, date)
		if err != nil {
			return ledgerErrorResult("Error building day summary", err)
		}

		return jsonResult(summary)
	}
}

// SearchFoodsInput is the input for search_foods.
type SearchFoodsInput struct {
	Query string `json:"query,omitempty" description:"Part of the food name, empty lists the catalog"`
	Limit int    `json:"limit,omitempty" description:"Maximum number of foods to return (default 20)"`
}

func (h *Handler) SearchFoodsTool() ToolFunc {
	return func(ctx context.Context, req *protocol.CallToolRequest) *protocol.CallToolResult {
		var in SearchFoodsInput
		if err := extractParams(req, &in); err != nil {
			return errorResult("Invalid arguments: " + err.Error())
		}

		foods, err := h.ledger.SearchFoods(ctx, in.Query, in.Limit)
		if err != nil {
			return ledgerErrorResult("Error searching foods", err)
		}

		return jsonResult(foods)
	}
}

// extractParams maps the loosely typed tool arguments onto an input struct.
func extractParams(req *protocol.CallToolRequest, target any) error {
	if len(req.Arguments) == 0 {
		return nil
	}

	raw, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("marshal arguments: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("unmarshal arguments: %w", err)
	}

	return nil
}

func ledgerErrorResult(prefix string, err error) *protocol.CallToolResult {
	var vErr *pkg.ValidationError
	switch {
	case errors.As(err, &vErr):
		return errorResult("Invalid input: " + vErr.Error())
	case errors.Is(err, nutrition.ErrFoodNotFound):
		return errorResult("Food not found in the catalog")
	default:
		log.Errorf("mcp: %s: %s", prefix, err)
		return errorResult(prefix + ": " + err.Error())
	}
}

func jsonResult(data any) *protocol.CallToolResult {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(raw),
			},
		},
	}
}

func errorResult(text string) *protocol.CallToolResult {
	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: text,
			},
		},
		IsError: true,
	}
}
