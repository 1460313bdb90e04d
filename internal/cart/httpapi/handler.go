package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dwikikusuma/credpos/internal/cart/app"
	"github.com/dwikikusuma/credpos/internal/cart/domain"
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

// Routes expects the session middleware to run first.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.GetCart)
	r.Delete("/", h.ClearCart)
	r.Post("/items", h.AddItem)
	r.Put("/items/{product_id}", h.SetQuantity)
	r.Delete("/items/{product_id}", h.RemoveItem)
}

type LineResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Stock     int    `json:"stock"`
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

type CartResponse struct {
	Items []LineResponse `json:"items"`
	Count int            `json:"count"`
	Total int64          `json:"total"`
}

type AddItemRequest struct {
	ProductID string `json:"product_id"`
}

type AddItemResponse struct {
	CartResponse
	Added bool `json:"added"`
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}

	cart, err := h.svc.GetCart(r.Context(), accountID)
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.RespondJSON(w, http.StatusOK, toResponse(cart))
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}

	cart, added, err := h.svc.AddItemToCart(r.Context(), accountID, req.ProductID)
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.RespondJSON(w, http.StatusOK, AddItemResponse{CartResponse: toResponse(cart), Added: added})
}

func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}

	var req SetQuantityRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}
	if req.Quantity == nil {
		httpx.RespondError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "quantity is required")
		return
	}

	cart, err := h.svc.SetItemQuantity(r.Context(), accountID, chi.URLParam(r, "product_id"), *req.Quantity)
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.RespondJSON(w, http.StatusOK, toResponse(cart))
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}

	cart, err := h.svc.RemoveItemFromCart(r.Context(), accountID, chi.URLParam(r, "product_id"))
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.RespondJSON(w, http.StatusOK, toResponse(cart))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}

	if err := h.svc.ClearCart(r.Context(), accountID); err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toResponse(c *domain.Cart) CartResponse {
	lines := c.Lines()
	items := make([]LineResponse, 0, len(lines))
	for _, l := range lines {
		items = append(items, LineResponse{
			ProductID: l.Item.ProductID,
			Name:      l.Item.Name,
			Price:     l.Item.Price,
			Stock:     l.Item.Stock,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal(),
		})
	}
	return CartResponse{
		Items: items,
		Count: c.Count(),
		Total: c.Total(),
	}
}

func mapErr(err error) error {
	if errors.Is(err, app.ErrInvalidInput) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if errors.Is(err, app.ErrProductNotFound) {
		return status.Error(codes.NotFound, "product not found")
	}
	slog.Error("cart request failed", slog.Any("err", err))
	return status.Error(codes.Internal, "internal error")
}
