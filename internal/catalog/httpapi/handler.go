package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dwikikusuma/credpos/internal/catalog/app"
	"github.com/dwikikusuma/credpos/internal/catalog/domain"
	"github.com/dwikikusuma/credpos/internal/storage"
	"github.com/dwikikusuma/credpos/pkg/httpx"
	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Handler struct {
	svc *app.Service
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.ListProducts)
	r.Post("/", h.CreateProduct)
	r.Get("/{id}", h.GetProduct)
	r.Patch("/{id}", h.UpdateProduct)
	r.Delete("/{id}", h.DeleteProduct)
}

type ProductResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Stock      int    `json:"stock"`
	StockLevel string `json:"stock_level"`
	CreatedAt  int64  `json:"created_at_unix"`
	UpdatedAt  int64  `json:"updated_at_unix"`
}

type CreateProductRequest struct {
	Name  string `json:"name"`
	Price *int64 `json:"price"`
	Stock *int   `json:"stock"`
}

type UpdateProductRequest struct {
	Name  *string `json:"name"`
	Price *int64  `json:"price"`
	Stock *int    `json:"stock"`
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}

	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toResponse(p))
	}
	httpx.RespondJSON(w, http.StatusOK, map[string]any{"products": out})
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}
	if req.Price == nil || req.Stock == nil {
		httpx.RespondError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "price and stock are required")
		return
	}

	p, err := h.svc.CreateProduct(r.Context(), req.Name, *req.Price, *req.Stock)
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.RespondJSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}

	p, err := h.svc.UpdateProduct(r.Context(), chi.URLParam(r, "id"), domain.Patch{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.RespondJSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price,
		Stock:      p.Stock,
		StockLevel: string(p.StockLevel()),
		CreatedAt:  unix(p.CreatedAt),
		UpdatedAt:  unix(p.UpdatedAt),
	}
}

func unix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func mapErr(err error) error {
	if errors.Is(err, app.ErrInvalidInput) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if errors.Is(err, app.ErrNotFound) {
		return status.Error(codes.NotFound, "product not found")
	}
	if errors.Is(err, storage.ErrConflict) {
		return status.Error(codes.Aborted, "catalog changed concurrently, retry")
	}
	slog.Error("catalog request failed", slog.Any("err", err))
	return status.Error(codes.Internal, "internal error")
}
