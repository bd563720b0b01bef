package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/PranavReddyy/stallsatfest-sub000/internal/domain"
	"github.com/PranavReddyy/stallsatfest-sub000/internal/service"
	"github.com/go-chi/chi/v5"
)

type MenuHandler struct {
	menu    *service.MenuService
	timeout time.Duration
}

func NewMenuHandler(menu *service.MenuService, timeout time.Duration) *MenuHandler {
	return &MenuHandler{
		menu:    menu,
		timeout: timeout,
	}
}

type StallMenuResponseDTO struct {
	StallID string            `json:"stallId"`
	Items   []domain.MenuItem `json:"items"`
}

type VisibilityRequestDTO struct {
	IsActive *bool `json:"isActive"`
}

func (h *MenuHandler) ListStalls(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	stalls, err := h.menu.ListStalls(ctx)
	if err != nil {
		log.Printf("list stalls failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list stalls")
		return
	}

	respondJSON(w, http.StatusOK, stalls)
}

func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	stallID := chi.URLParam(r, "id")
	includeAvailability := r.URL.Query().Get("include_availability") == "true"

	items, err := h.menu.GetStallMenu(ctx, stallID, includeAvailability)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "stall not found")
			return
		}
		log.Printf("get menu failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load menu")
		return
	}
	if items == nil {
		items = []domain.MenuItem{}
	}

	respondJSON(w, http.StatusOK, StallMenuResponseDTO{
		StallID: stallID,
		Items:   items,
	})
}

func (h *MenuHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	stallID := chi.URLParam(r, "id")

	var req VisibilityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsActive == nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "isActive is required")
		return
	}

	stall, err := h.menu.SetStallVisibility(ctx, stallID, *req.IsActive)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "stall not found")
			return
		}
		log.Printf("set visibility failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update visibility")
		return
	}

	respondJSON(w, http.StatusOK, stall)
}
