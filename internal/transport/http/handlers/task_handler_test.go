package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	accesssvc "github.com/Denner-Esteves/painel-approve/internal/services/access"
)

func taskRouter(env *reviewEnv) *chi.Mux {
	handler := NewTaskHandler(env.review, env.access)

	router := chi.NewRouter()
	router.Post("/tasks", handler.Create)
	router.Get("/tasks", handler.List)
	router.Get("/tasks/{taskID}", handler.Get)
	router.Delete("/tasks/{taskID}", handler.Delete)
	router.Post("/tasks/{taskID}/versions", handler.AddVersion)
	router.Put("/tasks/{taskID}/status", handler.SetStatus)
	return router
}

func operatorRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, body)
	return req.WithContext(accesssvc.WithOperator(context.Background(), accesssvc.Operator{
		ID:   "op-1",
		Name: "Denner",
	}))
}

func TestTaskCreateEndpoint(t *testing.T) {
	env := newReviewEnv(t)
	router := taskRouter(env)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, operatorRequest(t, http.MethodPost, "/tasks", map[string]any{
		"client_name": "Padaria Central",
		"title":       "Campanha",
		"kind":        "post",
		"password":    "segredo",
		"media_urls":  []string{"https://cdn/a.jpg"},
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d body %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Task struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
		} `json:"task"`
		Items []struct {
			Decision string `json:"decision"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Task.Status != "AWAITING_APPROVAL" {
		t.Fatalf("status = %q", payload.Task.Status)
	}
	if len(payload.Items) != 1 || payload.Items[0].Decision != "pending" {
		t.Fatalf("items: %+v", payload.Items)
	}
}

func TestTaskCreateValidation(t *testing.T) {
	env := newReviewEnv(t)
	router := taskRouter(env)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, operatorRequest(t, http.MethodPost, "/tasks", map[string]any{
		"client_name": "Padaria Central",
		"password":    "segredo",
	}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing title: got %d", rec.Code)
	}
}

func TestTaskAddVersionEndpoint(t *testing.T) {
	env := newReviewEnv(t)
	router := taskRouter(env)
	task, _ := env.seedTask(t, []string{"a"}, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, operatorRequest(t, http.MethodPost, "/tasks/"+itoa(task.ID)+"/versions", map[string]any{
		"urls": []string{"https://cdn/v2.jpg"},
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("add version: got %d body %s", rec.Code, rec.Body.String())
	}

	empty := httptest.NewRecorder()
	router.ServeHTTP(empty, operatorRequest(t, http.MethodPost, "/tasks/"+itoa(task.ID)+"/versions", map[string]any{
		"urls": []string{},
	}))
	if empty.Code != http.StatusBadRequest {
		t.Fatalf("empty urls: got %d", empty.Code)
	}
}

func TestTaskSetStatusEndpoint(t *testing.T) {
	env := newReviewEnv(t)
	router := taskRouter(env)
	task, _ := env.seedTask(t, []string{"a"}, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, operatorRequest(t, http.MethodPut, "/tasks/"+itoa(task.ID)+"/status", map[string]any{
		"status": "APPROVED",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("set status: got %d body %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Task struct {
			Status       string `json:"status"`
			ApproverName string `json:"approver_name"`
		} `json:"task"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Task.Status != "APPROVED" {
		t.Fatalf("status = %q", payload.Task.Status)
	}
	if payload.Task.ApproverName != "Denner" {
		t.Fatalf("manual override must stamp the operator, got %q", payload.Task.ApproverName)
	}

	bad := httptest.NewRecorder()
	router.ServeHTTP(bad, operatorRequest(t, http.MethodPut, "/tasks/"+itoa(task.ID)+"/status", map[string]any{
		"status": "WEIRD",
	}))
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("unknown status: got %d", bad.Code)
	}
}

func TestTaskDeleteEndpoint(t *testing.T) {
	env := newReviewEnv(t)
	router := taskRouter(env)
	task, _ := env.seedTask(t, []string{"a"}, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, operatorRequest(t, http.MethodDelete, "/tasks/"+itoa(task.ID), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: got %d", rec.Code)
	}

	again := httptest.NewRecorder()
	router.ServeHTTP(again, operatorRequest(t, http.MethodDelete, "/tasks/"+itoa(task.ID), nil))
	if again.Code != http.StatusNotFound {
		t.Fatalf("second delete: got %d", again.Code)
	}
}
