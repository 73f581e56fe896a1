package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	run         ToolFunc
}

// Server dispatches tool calls received over plain HTTP at /mcp/tools.
type Server struct {
	tools map[string]Tool
}

// NewServer builds the tool set: recommend_weight, log_meal, day_summary, search_foods.
func NewServer(ledger mealLedger) *Server {
	h := NewHandler(ledger)
	s := &Server{
		tools: make(map[string]Tool),
	}

	s.addTool(Tool{
		Name:        "recommend_weight",
		Description: "Recommends the weight for the next set of a lift. Args: weight (kg), reps, rpe (1-10) of the last set.",
		run:         h.RecommendWeightTool(),
	})
	s.addTool(Tool{
		Name:        "log_meal",
		Description: "Logs a meal. Args: food (catalog name), quantity_g; optional: date (YYYY-MM-DD), kcal_100, protein_100, carb_100, fat_100 for a food that is not in the catalog.",
		run:         h.LogMealTool(),
	})
	s.addTool(Tool{
		Name:        "day_summary",
		Description: "Returns the kcal and macro totals of a day with the list of its meals. Optional arg: date (YYYY-MM-DD), defaults to today.",
		run:         h.DaySummaryTool(),
	})
	s.addTool(Tool{
		Name:        "search_foods",
		Description: "Searches the food catalog by name (case-insensitive substring). Optional args: query, limit (default 20).",
		run:         h.SearchFoodsTool(),
	})

	return s
}

func (s *Server) addTool(tool Tool) {
	s.tools[tool.Name] = tool
}

// Tools lists the available tools, ordered by name.
func (s *Server) Tools() []Tool {
	tools := make([]Tool, 0, len(s.tools))
	for _, t := range s.tools {
		tools = append(tools, t)
	}
	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name < tools[j].Name
	})
	return tools
}

// CallTool runs the named tool. ok is false for an unknown tool.
func (s *Server) CallTool(ctx context.Context, req *protocol.CallToolRequest) (_ *protocol.CallToolResult, ok bool) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "mcp.callTool")
	defer span.End()
	span.SetAttributes(attribute.String("tool", req.Name))

	tool, ok := s.tools[req.Name]
	if !ok {
		return nil, false
	}

	result := tool.run(ctx, req)
	span.SetAttributes(attribute.Bool("tool.is_error", result.IsError))
	return result, true
}

func (s *Server) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/mcp/tools", s.HandleListTools).Methods("GET", "OPTIONS").Name("mcp-list-tools")
	r.HandleFunc("/mcp/tools", s.HandleCallTool).Methods("POST", "OPTIONS").Name("mcp-call-tool")
}

func (s *Server) HandleListTools(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, http.StatusOK, s.Tools())
}

func (s *Server) HandleCallTool(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, pkg.ContentType.JSON) {
		pkg.WriteJSONError(w, http.StatusUnsupportedMediaType, "content type must be application/json", nil)
		return
	}

	var req protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid json body", nil)
		return
	}
	if req.Name == "" {
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid tool call", map[string]string{"name": "must not be empty"})
		return
	}

	result, ok := s.CallTool(r.Context(), &req)
	if !ok {
		log.Debugf("mcp: unknown tool requested: %s", req.Name)
		pkg.WriteJSONError(w, http.StatusNotFound, "unknown tool: "+req.Name, nil)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, result)
}
