package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/PranavReddyy/stallsatfest-sub000/internal/gateway"
	"github.com/PranavReddyy/stallsatfest-sub000/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultRequestTimeout = 10 * time.Second

func NewRouter(stock *service.StockService, menu *service.MenuService, hub *gateway.Hub) http.Handler {
	sh := NewStockHandler(stock, defaultRequestTimeout)
	mh := NewMenuHandler(menu, defaultRequestTimeout)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/stock-update", sh.Update)
	r.Get("/stalls", mh.ListStalls)
	r.Get("/stalls/{id}/menu", mh.GetMenu)
	r.Patch("/stalls/{id}/visibility", mh.SetVisibility)
	r.Get("/ws", hub.ServeWS)

	return otelhttp.NewHandler(r, "availability-api")
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
