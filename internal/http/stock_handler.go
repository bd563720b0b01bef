package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/PranavReddyy/stallsatfest-sub000/internal/service"
	"github.com/go-playground/validator/v10"
)

type StockHandler struct {
	stock    *service.StockService
	validate *validator.Validate
	timeout  time.Duration
}

func NewStockHandler(stock *service.StockService, timeout time.Duration) *StockHandler {
	return &StockHandler{
		stock:    stock,
		validate: validator.New(),
		timeout:  timeout,
	}
}

type StockUpdateRequestDTO struct {
	StallID      string `json:"stallId" validate:"required"`
	Type         string `json:"type" validate:"required,oneof=item extra option"`
	ItemID       string `json:"itemId" validate:"required"`
	ExtraID      string `json:"extraId"`
	CustomID     string `json:"customId"`
	OptionID     string `json:"optionId"`
	Availability *bool  `json:"availability" validate:"required"`
}

type StockUpdateResponseDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *StockHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req StockUpdateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondStockError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondStockError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.stock.UpdateAvailability(ctx, service.StockTarget{
		Type:         req.Type,
		StallID:      req.StallID,
		ItemID:       req.ItemID,
		ExtraID:      req.ExtraID,
		CustomID:     req.CustomID,
		OptionID:     req.OptionID,
		Availability: *req.Availability,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			respondStockError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotFound):
			respondStockError(w, http.StatusNotFound, err.Error())
		default:
			log.Printf("stock update failed: %v", err)
			respondStockError(w, http.StatusInternalServerError, "stock update failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, StockUpdateResponseDTO{
		Success: true,
		Message: "availability updated",
	})
}

func respondStockError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, StockUpdateResponseDTO{
		Success: false,
		Message: message,
	})
}
