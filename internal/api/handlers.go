package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/defi-portfolio-agents/internal/portfolio"
	"github.com/trogers1052/defi-portfolio-agents/internal/service"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	portfolio *service.PortfolioService
}

// NewHandler creates a new Handler
func NewHandler(portfolio *service.PortfolioService) *Handler {
	return &Handler{portfolio: portfolio}
}

type addPositionRequest struct {
	ID           string           `json:"id"`
	Asset        string           `json:"asset"`
	Amount       *decimal.Decimal `json:"amount"`
	EntryPrice   *decimal.Decimal `json:"entry_price"`
	CurrentPrice *decimal.Decimal `json:"current_price"`
}

type updatePriceRequest struct {
	CurrentPrice *decimal.Decimal `json:"current_price"`
}

type portfolioValueResponse struct {
	AgentID string          `json:"agent_id"`
	Value   decimal.Decimal `json:"value"`
}

// GetAgents handles GET /agents
func (h *Handler) GetAgents(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.portfolio.Agents())
}

// GetPositions handles GET /agents/{agentID}/positions
func (h *Handler) GetPositions(w http.ResponseWriter, r *http.Request) {
	agentID := mux.Vars(r)["agentID"]
	respondJSON(w, http.StatusOK, h.portfolio.Positions(agentID))
}

// AddPosition handles POST /agents/{agentID}/positions
func (h *Handler) AddPosition(w http.ResponseWriter, r *http.Request) {
	agentID := mux.Vars(r)["agentID"]

	var req addPositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Asset = strings.TrimSpace(req.Asset)
	if req.Asset == "" {
		http.Error(w, "asset is required", http.StatusBadRequest)
		return
	}
	if req.Amount == nil || req.EntryPrice == nil || req.CurrentPrice == nil {
		http.Error(w, "amount, entry_price and current_price are required", http.StatusBadRequest)
		return
	}
	if req.Amount.IsNegative() {
		http.Error(w, "amount must not be negative", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	position := portfolio.NewPosition(req.ID, req.Asset, *req.Amount, *req.EntryPrice, *req.CurrentPrice)
	h.portfolio.AddPosition(r.Context(), agentID, position)

	respondJSON(w, http.StatusCreated, position)
}

// RemovePosition handles DELETE /agents/{agentID}/positions/{positionID}
func (h *Handler) RemovePosition(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if h.portfolio.RemovePosition(r.Context(), vars["agentID"], vars["positionID"]) == 0 {
		http.Error(w, "position not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdatePrice handles PUT /agents/{agentID}/positions/{positionID}/price
func (h *Handler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req updatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.CurrentPrice == nil {
		http.Error(w, "current_price is required", http.StatusBadRequest)
		return
	}

	updated, ok := h.portfolio.UpdatePrice(r.Context(), vars["agentID"], vars["positionID"], *req.CurrentPrice)
	if !ok {
		http.Error(w, "position not found", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// GetPortfolioValue handles GET /agents/{agentID}/value
func (h *Handler) GetPortfolioValue(w http.ResponseWriter, r *http.Request) {
	agentID := mux.Vars(r)["agentID"]
	respondJSON(w, http.StatusOK, portfolioValueResponse{
		AgentID: agentID,
		Value:   h.portfolio.PortfolioValue(agentID),
	})
}

// GetReport handles GET /agents/{agentID}/report
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	agentID := mux.Vars(r)["agentID"]

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.portfolio.Report(agentID)))
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
