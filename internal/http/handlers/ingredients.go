package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/costcraft/recipecost-be/internal/auth"
	"github.com/costcraft/recipecost-be/internal/logger"
	"github.com/costcraft/recipecost-be/internal/models"
	"github.com/costcraft/recipecost-be/internal/models/dto"
	"github.com/costcraft/recipecost-be/internal/storage"
)

// IngredientHandler owns the ingredient CRUD endpoints. Every operation is
// scoped to the authenticated user.
type IngredientHandler struct {
	store storage.Store
}

// NewIngredientHandler constructs the handler.
func NewIngredientHandler(store storage.Store) *IngredientHandler {
	return &IngredientHandler{store: store}
}

// Register attaches ingredient routes to the mux behind the auth guard.
func (h *IngredientHandler) Register(mux *http.ServeMux, tm *auth.TokenManager) {
	mux.Handle("POST /api/ingredients", auth.Require(tm, h.handleCreate))
	mux.Handle("GET /api/ingredients", auth.Require(tm, h.handleList))
	mux.Handle("DELETE /api/ingredients/{id}", auth.Require(tm, h.handleDelete))
}

func (h *IngredientHandler) handleCreate(w http.ResponseWriter, r *http.Request, userID int64) {
	var req dto.CreateIngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := h.store.CreateIngredient(r.Context(), models.Ingredient{
		Name:   name,
		Cost:   req.Cost,
		Unit:   req.Unit,
		UserID: userID,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respondError(w, http.StatusConflict, "ingredient with this name already exists")
			return
		}
		logger.Log.Errorw("create ingredient failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create ingredient")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *IngredientHandler) handleList(w http.ResponseWriter, r *http.Request, userID int64) {
	ingredients, err := h.store.ListIngredients(r.Context(), userID)
	if err != nil {
		logger.Log.Errorw("list ingredients failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list ingredients")
		return
	}
	respondJSON(w, http.StatusOK, ingredients)
}

func (h *IngredientHandler) handleDelete(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "ingredient not found")
		return
	}
	if err := h.store.DeleteIngredient(r.Context(), userID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "ingredient not found")
			return
		}
		logger.Log.Errorw("delete ingredient failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete ingredient")
		return
	}
	respondMessage(w, http.StatusOK, "ingredient deleted successfully")
}
