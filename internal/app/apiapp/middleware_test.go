package apiapp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	accesssvc "github.com/Denner-Esteves/painel-approve/internal/services/access"
)

func TestOperatorMiddlewareSetsOperatorContext(t *testing.T) {
	mw := OperatorMiddleware()

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("X-Operator-Id", "op-42")
	req.Header.Set("X-Operator-Name", "Denner")
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operator, ok := accesssvc.OperatorFromContext(r.Context())
		if !ok {
			t.Fatalf("operator missing in context")
		}
		if operator.ID != "op-42" || operator.Name != "Denner" {
			t.Fatalf("operator mismatch: %+v", operator)
		}
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestOperatorMiddlewarePassesAnonymousRequestsThrough(t *testing.T) {
	mw := OperatorMiddleware()

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := accesssvc.OperatorFromContext(r.Context()); ok {
			t.Fatalf("unexpected operator in context")
		}
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}
