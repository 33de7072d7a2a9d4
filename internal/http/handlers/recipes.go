package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/costcraft/recipecost-be/internal/auth"
	"github.com/costcraft/recipecost-be/internal/costing"
	"github.com/costcraft/recipecost-be/internal/logger"
	"github.com/costcraft/recipecost-be/internal/models"
	"github.com/costcraft/recipecost-be/internal/models/dto"
	"github.com/costcraft/recipecost-be/internal/storage"
)

// RecipeHandler owns the recipe CRUD endpoints. Every operation is scoped
// to the authenticated user.
type RecipeHandler struct {
	store storage.Store
}

// NewRecipeHandler constructs the handler.
func NewRecipeHandler(store storage.Store) *RecipeHandler {
	return &RecipeHandler{store: store}
}

// Register attaches recipe routes to the mux behind the auth guard.
func (h *RecipeHandler) Register(mux *http.ServeMux, tm *auth.TokenManager) {
	mux.Handle("POST /api/recipes", auth.Require(tm, h.handleCreate))
	mux.Handle("GET /api/recipes", auth.Require(tm, h.handleList))
	mux.Handle("DELETE /api/recipes/{id}", auth.Require(tm, h.handleDelete))
}

func (h *RecipeHandler) handleCreate(w http.ResponseWriter, r *http.Request, userID int64) {
	var req dto.CreateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.ProductName) == "" {
		respondError(w, http.StatusBadRequest, "productName is required")
		return
	}
	if req.TotalQuantity < 0 {
		respondError(w, http.StatusBadRequest, "totalQuantity must not be negative")
		return
	}

	created, err := h.store.CreateRecipe(r.Context(), models.Recipe{
		ProductName:   strings.TrimSpace(req.ProductName),
		Ingredients:   req.Ingredients,
		FixedCosts:    req.FixedCosts,
		TotalQuantity: req.TotalQuantity,
		ProfitMargin:  req.ProfitMargin,
		UserID:        userID,
	})
	if err != nil {
		logger.Log.Errorw("create recipe failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create recipe")
		return
	}
	respondJSON(w, http.StatusCreated, toRecipeResponse(created))
}

func (h *RecipeHandler) handleList(w http.ResponseWriter, r *http.Request, userID int64) {
	recipes, err := h.store.ListRecipes(r.Context(), userID)
	if err != nil {
		logger.Log.Errorw("list recipes failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list recipes")
		return
	}
	out := make([]dto.RecipeResponse, 0, len(recipes))
	for _, rec := range recipes {
		out = append(out, toRecipeResponse(rec))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *RecipeHandler) handleDelete(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "recipe not found")
		return
	}
	if err := h.store.DeleteRecipe(r.Context(), userID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "recipe not found")
			return
		}
		logger.Log.Errorw("delete recipe failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete recipe")
		return
	}
	respondMessage(w, http.StatusOK, "recipe deleted successfully")
}

// toRecipeResponse pairs a stored recipe with its derived figures, rounded
// for presentation. Line items are serialized as empty arrays, never null,
// so corrupt legacy rows render the same shape as any other recipe.
func toRecipeResponse(rec models.Recipe) dto.RecipeResponse {
	if rec.Ingredients == nil {
		rec.Ingredients = []models.LineItem{}
	}
	if rec.FixedCosts == nil {
		rec.FixedCosts = []models.LineItem{}
	}
	return dto.RecipeResponse{
		Recipe:     rec,
		Calculated: costing.Calculate(rec).Rounded(),
	}
}
