package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes. events serves GET /ws when non-nil.
func SetupRoutes(handler *Handler, events http.HandlerFunc) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	if events != nil {
		r.HandleFunc("/ws", events).Methods("GET")
	}

	// Portfolio routes. Registered on the root router so that a method
	// mismatch answers 405; mux subrouters answer 404 instead.
	const prefix = "/api/v1"
	r.HandleFunc(prefix+"/agents", handler.GetAgents).Methods("GET")
	r.HandleFunc(prefix+"/agents/{agentID}/positions", handler.GetPositions).Methods("GET")
	r.HandleFunc(prefix+"/agents/{agentID}/positions", handler.AddPosition).Methods("POST")
	r.HandleFunc(prefix+"/agents/{agentID}/positions/{positionID}", handler.RemovePosition).Methods("DELETE")
	r.HandleFunc(prefix+"/agents/{agentID}/positions/{positionID}/price", handler.UpdatePrice).Methods("PUT")
	r.HandleFunc(prefix+"/agents/{agentID}/value", handler.GetPortfolioValue).Methods("GET")
	r.HandleFunc(prefix+"/agents/{agentID}/report", handler.GetReport).Methods("GET")

	return r
}
