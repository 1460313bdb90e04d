package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dwikikusuma/credpos/internal/checkout/app"
	saleshttp "github.com/dwikikusuma/credpos/internal/sales/httpapi"
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
	r.Post("/", h.Checkout)
}

type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type ShortageResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

type InsufficientStockResponse struct {
	httpx.ErrorResponse
	Shortages []ShortageResponse `json:"shortages"`
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}

	txn, err := h.svc.CheckoutCart(r.Context(), accountID, req.PaymentMethod)
	if err != nil {
		var short *app.InsufficientStockError
		if errors.As(err, &short) {
			respondShortage(w, short)
			return
		}
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, saleshttp.ToResponse(txn))
}

func respondShortage(w http.ResponseWriter, e *app.InsufficientStockError) {
	out := make([]ShortageResponse, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		out = append(out, ShortageResponse{
			ProductID: s.ProductID,
			Name:      s.Name,
			Requested: s.Requested,
			Available: s.Available,
		})
	}
	httpx.RespondJSON(w, http.StatusConflict, InsufficientStockResponse{
		ErrorResponse: httpx.ErrorResponse{Error: e.Error(), Code: "FAILED_PRECONDITION"},
		Shortages:     out,
	})
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrInvalidPaymentMethod):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, app.ErrEmptyCart):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, app.ErrInsufficientStock):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, storage.ErrConflict):
		return status.Error(codes.Aborted, "catalog changed during checkout, retry")
	}
	slog.Error("checkout request failed", slog.Any("err", err))
	return status.Error(codes.Internal, "internal error")
}
