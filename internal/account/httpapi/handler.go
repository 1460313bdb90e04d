package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dwikikusuma/credpos/internal/account/app"
	"github.com/dwikikusuma/credpos/internal/account/domain"
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
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/demo", h.DemoLogin)
	r.Post("/logout", h.Logout)
	r.Get("/session", h.Session)
}

// RequireSession resolves the current session once per request and puts the
// account id on the request context. Requests without one get a 401.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.svc.Current(r.Context())
		if err != nil {
			httpx.WriteError(w, mapErr(err))
			return
		}
		next.ServeHTTP(w, r.WithContext(httpx.WithAccountID(r.Context(), sess.Account.ID)))
	})
}

type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessName string `json:"business_name"`
	OwnerName    string `json:"owner_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AccountResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	BusinessName string `json:"business_name"`
	OwnerName    string `json:"owner_name"`
	CreatedAt    int64  `json:"created_at_unix"`
}

type SessionResponse struct {
	Account   AccountResponse `json:"account"`
	StartedAt int64           `json:"started_at_unix"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}

	sess, err := h.svc.Register(r.Context(), app.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		BusinessName: req.BusinessName,
		OwnerName:    req.OwnerName,
	})
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, toResponse(sess))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}

	sess, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.RespondJSON(w, http.StatusOK, toResponse(sess))
}

func (h *Handler) DemoLogin(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.DemoLogin(r.Context())
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.RespondJSON(w, http.StatusOK, toResponse(sess))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context()); err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Current(r.Context())
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.RespondJSON(w, http.StatusOK, toResponse(sess))
}

func toResponse(s domain.Session) SessionResponse {
	return SessionResponse{
		Account: AccountResponse{
			ID:           s.Account.ID,
			Email:        s.Account.Email,
			BusinessName: s.Account.BusinessName,
			OwnerName:    s.Account.OwnerName,
			CreatedAt:    s.Account.CreatedAt.Unix(),
		},
		StartedAt: s.StartedAt.Unix(),
	}
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, app.ErrEmailTaken):
		return status.Error(codes.AlreadyExists, "email already registered")
	case errors.Is(err, app.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, "invalid email or password")
	case errors.Is(err, app.ErrNoSession):
		return status.Error(codes.Unauthenticated, "no active session")
	}
	slog.Error("account request failed", slog.Any("err", err))
	return status.Error(codes.Internal, "internal error")
}
