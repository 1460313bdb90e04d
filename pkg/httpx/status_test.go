package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestStatusFromGRPC(t *testing.T) {
	t.Run("InvalidArgument -> 400", func(t *testing.T) {
		err := status.Error(codes.InvalidArgument, "bad")
		gotStatus, gotCode, msg := StatusFromGRPC(err)
		if gotStatus != http.StatusBadRequest || gotCode != "INVALID_ARGUMENT" || msg != "bad" {
			t.Fatalf("got (%d,%s,%s)", gotStatus, gotCode, msg)
		}
	})

	t.Run("NotFound -> 404", func(t *testing.T) {
		err := status.Error(codes.NotFound, "missing")
		gotStatus, gotCode, _ := StatusFromGRPC(err)
		if gotStatus != http.StatusNotFound || gotCode != "NOT_FOUND" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("FailedPrecondition -> 409", func(t *testing.T) {
		err := status.Error(codes.FailedPrecondition, "insufficient stock")
		gotStatus, gotCode, _ := StatusFromGRPC(err)
		if gotStatus != http.StatusConflict || gotCode != "FAILED_PRECONDITION" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("Unauthenticated -> 401", func(t *testing.T) {
		err := status.Error(codes.Unauthenticated, "no session")
		gotStatus, gotCode, _ := StatusFromGRPC(err)
		if gotStatus != http.StatusUnauthorized || gotCode != "UNAUTHENTICATED" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("Unavailable -> 503", func(t *testing.T) {
		err := status.Error(codes.Unavailable, "down")
		gotStatus, gotCode, _ := StatusFromGRPC(err)
		if gotStatus != http.StatusServiceUnavailable || gotCode != "UNAVAILABLE" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("DeadlineExceeded -> 503", func(t *testing.T) {
		err := status.Error(codes.DeadlineExceeded, "timeout")
		gotStatus, gotCode, _ := StatusFromGRPC(err)
		if gotStatus != http.StatusServiceUnavailable || gotCode != "UNAVAILABLE" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("Internal hides message", func(t *testing.T) {
		err := status.Error(codes.Internal, "db password is hunter2")
		gotStatus, gotCode, msg := StatusFromGRPC(err)
		assert.Equal(t, http.StatusInternalServerError, gotStatus)
		assert.Equal(t, "INTERNAL", gotCode)
		assert.Equal(t, "internal error", msg)
	})

	t.Run("non-grpc error -> 500", func(t *testing.T) {
		err := errors.New("boom")
		gotStatus, gotCode, _ := StatusFromGRPC(err)
		if gotStatus != http.StatusInternalServerError || gotCode != "INTERNAL" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("wrapped status is still recognised", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", status.Error(codes.NotFound, "missing"))
		gotStatus, _, _ := StatusFromGRPC(err)
		assert.Equal(t, http.StatusNotFound, gotStatus)
	})
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, status.Error(codes.AlreadyExists, "email already registered"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"email already registered","code":"ALREADY_EXISTS"}`, rec.Body.String())
}
