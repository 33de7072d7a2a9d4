package handlers

import (
	"net/http"

	"github.com/costcraft/recipecost-be/internal/auth"
	"github.com/costcraft/recipecost-be/internal/costing"
	"github.com/costcraft/recipecost-be/internal/logger"
	"github.com/costcraft/recipecost-be/internal/storage"
)

// DashboardHandler serves summary metrics over the authenticated user's
// recipe set.
type DashboardHandler struct {
	store storage.Store
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(store storage.Store) *DashboardHandler {
	return &DashboardHandler{store: store}
}

// Register attaches the dashboard route to the mux behind the auth guard.
func (h *DashboardHandler) Register(mux *http.ServeMux, tm *auth.TokenManager) {
	mux.Handle("GET /api/dashboard-metrics", auth.Require(tm, h.handleMetrics))
}

func (h *DashboardHandler) handleMetrics(w http.ResponseWriter, r *http.Request, userID int64) {
	recipes, err := h.store.ListRecipes(r.Context(), userID)
	if err != nil {
		logger.Log.Errorw("dashboard: list recipes failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to compute metrics")
		return
	}
	respondJSON(w, http.StatusOK, costing.Summarize(recipes))
}
