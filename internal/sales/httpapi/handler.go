package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dwikikusuma/credpos/internal/sales/app"
	"github.com/dwikikusuma/credpos/internal/sales/domain"
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

func (h *Handler) TransactionRoutes(r chi.Router) {
	r.Get("/", h.ListTransactions)
	r.Get("/{id}", h.GetTransaction)
}

func (h *Handler) ReportRoutes(r chi.Router) {
	r.Get("/settlement", h.Settlement)
	r.Get("/dashboard", h.Dashboard)
}

type ItemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

type TransactionResponse struct {
	ID            string         `json:"id"`
	CreatedAt     int64          `json:"created_at_unix"`
	TotalAmount   int64          `json:"total_amount"`
	PaymentMethod string         `json:"payment_method"`
	Items         []ItemResponse `json:"items"`
}

type MethodTotalResponse struct {
	PaymentMethod string `json:"payment_method"`
	Count         int    `json:"count"`
	Total         int64  `json:"total"`
}

type SettlementResponse struct {
	Window  string                `json:"window"`
	Methods []MethodTotalResponse `json:"methods"`
	Count   int                   `json:"count"`
	Total   int64                 `json:"total"`
}

type DashboardResponse struct {
	TodayCount  int                   `json:"today_count"`
	TodayTotal  int64                 `json:"today_total"`
	AverageSale int64                 `json:"average_sale"`
	Recent      []TransactionResponse `json:"recent"`
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	window, ok := parseWindow(w, r, domain.WindowAll)
	if !ok {
		return
	}

	txns, err := h.svc.History(r.Context(), accountID, window)
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.RespondJSON(w, http.StatusOK, map[string]any{
		"window":       string(window),
		"transactions": toResponses(txns),
	})
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}

	t, err := h.svc.GetTransaction(r.Context(), accountID, chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.RespondJSON(w, http.StatusOK, ToResponse(t))
}

func (h *Handler) Settlement(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}
	window, ok := parseWindow(w, r, domain.WindowToday)
	if !ok {
		return
	}

	s, err := h.svc.Settlement(r.Context(), accountID, window)
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}

	methods := make([]MethodTotalResponse, 0, len(s.Methods))
	for _, m := range s.Methods {
		methods = append(methods, MethodTotalResponse{
			PaymentMethod: string(m.Method),
			Count:         m.Count,
			Total:         m.Total,
		})
	}
	httpx.RespondJSON(w, http.StatusOK, SettlementResponse{
		Window:  string(window),
		Methods: methods,
		Count:   s.Count,
		Total:   s.Total,
	})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.RequireAccount(w, r)
	if !ok {
		return
	}

	d, err := h.svc.Dashboard(r.Context(), accountID)
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.RespondJSON(w, http.StatusOK, DashboardResponse{
		TodayCount:  d.Today.Count,
		TodayTotal:  d.Today.Total,
		AverageSale: d.Today.Average,
		Recent:      toResponses(d.Recent),
	})
}

// ToResponse is shared with the checkout handler so a committed sale renders
// the same way as one read back from history.
func ToResponse(t domain.Transaction) TransactionResponse {
	items := make([]ItemResponse, 0, len(t.Items))
	for _, it := range t.Items {
		items = append(items, ItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal,
		})
	}
	return TransactionResponse{
		ID:            t.ID,
		CreatedAt:     t.CreatedAt.Unix(),
		TotalAmount:   t.TotalAmount,
		PaymentMethod: string(t.PaymentMethod),
		Items:         items,
	}
}

func toResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, ToResponse(t))
	}
	return out
}

// parseWindow reads the window query parameter, falling back to def when it
// is absent. History defaults to all sales, settlement to the current day.
func parseWindow(w http.ResponseWriter, r *http.Request, def domain.Window) (domain.Window, bool) {
	raw := r.URL.Query().Get("window")
	if raw == "" {
		return def, true
	}
	window, err := domain.ParseWindow(raw)
	if err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return "", false
	}
	return window, true
}

func mapErr(err error) error {
	if errors.Is(err, app.ErrInvalidInput) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if errors.Is(err, app.ErrNotFound) {
		return status.Error(codes.NotFound, "transaction not found")
	}
	slog.Error("sales request failed", slog.Any("err", err))
	return status.Error(codes.Internal, "internal error")
}
