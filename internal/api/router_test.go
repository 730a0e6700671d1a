package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/donelist/task-system/internal/core/service"
	"github.com/donelist/task-system/internal/infrastructure/db/memory"
)

// The router is built once: the prometheus middleware registers collectors
// with the default registry, which tolerates only a single registration per
// process.
var (
	routerOnce sync.Once
	testRouter *echo.Echo
)

func router() *echo.Echo {
	routerOnce.Do(func() {
		svc := service.NewTaskService(memory.NewStore(), nil, zerolog.Nop())
		testRouter = NewRouter(Deps{
			Tasks:       svc,
			BackendName: "memory",
			BackendPing: func(context.Context) error { return nil },
			Logger:      zerolog.Nop(),
		})
	})
	return testRouter
}

func doJSON(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	router().ServeHTTP(rec, req)
	return rec
}

type taskPayload struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

func createTask(t *testing.T, text string) taskPayload {
	t.Helper()
	rec := doJSON(t, http.MethodPost, "/api/tasks", fmt.Sprintf(`{"text":%q}`, text))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var task taskPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return task
}

func TestAPI_CreateTask(t *testing.T) {
	task := createTask(t, "buy milk")

	if task.ID <= 0 {
		t.Errorf("expected a positive id, got %d", task.ID)
	}
	if task.Text != "buy milk" {
		t.Errorf("unexpected text: %q", task.Text)
	}
	if task.Completed {
		t.Error("completed must default to false")
	}
	if task.CreatedAt == "" {
		t.Error("createdAt must be set")
	}
}

func TestAPI_CreateTask_BadRequests(t *testing.T) {
	cases := map[string]string{
		"malformed json": `not-json`,
		"empty text":     `{"text":""}`,
		"missing text":   `{}`,
		"oversize text":  fmt.Sprintf(`{"text":%q}`, strings.Repeat("x", 101)),
	}
	for name, body := range cases {
		rec := doJSON(t, http.MethodPost, "/api/tasks", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "error") {
			t.Errorf("%s: expected an error envelope, got %s", name, rec.Body.String())
		}
	}
}

func TestAPI_GetTask(t *testing.T) {
	task := createTask(t, "read the paper")

	rec := doJSON(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got taskPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got != task {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, task)
	}
}

func TestAPI_GetTask_BadID(t *testing.T) {
	rec := doJSON(t, http.MethodGet, "/api/tasks/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAPI_GetTask_NotFound(t *testing.T) {
	rec := doJSON(t, http.MethodGet, "/api/tasks/999999", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAPI_ListTasks(t *testing.T) {
	createTask(t, "appear in the list")

	rec := doJSON(t, http.MethodGet, "/api/tasks", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var tasks []taskPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(tasks) == 0 {
		t.Error("expected at least one task")
	}
}

func TestAPI_UpdateTask(t *testing.T) {
	task := createTask(t, "water the plants")

	rec := doJSON(t, http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), `{"completed":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got taskPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !got.Completed {
		t.Error("completed must be true")
	}
	if got.Text != task.Text {
		t.Errorf("text must be unchanged, got %q", got.Text)
	}
	if got.CreatedAt != task.CreatedAt {
		t.Error("createdAt must be unchanged")
	}
}

func TestAPI_UpdateTask_Errors(t *testing.T) {
	task := createTask(t, "stable task")

	if rec := doJSON(t, http.MethodPatch, "/api/tasks/abc", `{"completed":true}`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: expected 400, got %d", rec.Code)
	}
	if rec := doJSON(t, http.MethodPatch, "/api/tasks/999999", `{"completed":true}`); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: expected 404, got %d", rec.Code)
	}
	if rec := doJSON(t, http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), `{"text":""}`); rec.Code != http.StatusBadRequest {
		t.Errorf("empty text: expected 400, got %d", rec.Code)
	}
}

func TestAPI_DeleteTask(t *testing.T) {
	task := createTask(t, "short-lived")
	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	if rec := doJSON(t, http.MethodDelete, path, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec := doJSON(t, http.MethodGet, path, ""); rec.Code != http.StatusNotFound {
		t.Errorf("deleted task must be gone, got %d", rec.Code)
	}
	// Delete is idempotent at the store; the API reports the miss.
	if rec := doJSON(t, http.MethodDelete, path, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", rec.Code)
	}
	if rec := doJSON(t, http.MethodDelete, "/api/tasks/abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: expected 400, got %d", rec.Code)
	}
}

func TestAPI_ClearCompleted(t *testing.T) {
	task := createTask(t, "to be swept")
	if rec := doJSON(t, http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), `{"completed":true}`); rec.Code != http.StatusOK {
		t.Fatalf("setup failed: %d", rec.Code)
	}

	if rec := doJSON(t, http.MethodDelete, "/api/tasks/completed/clear", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec := doJSON(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), ""); rec.Code != http.StatusNotFound {
		t.Errorf("swept task must be gone, got %d", rec.Code)
	}
	// 204 whether or not anything was deleted.
	if rec := doJSON(t, http.MethodDelete, "/api/tasks/completed/clear", ""); rec.Code != http.StatusNoContent {
		t.Errorf("no-op sweep: expected 204, got %d", rec.Code)
	}
}

func TestAPI_Health(t *testing.T) {
	if rec := doJSON(t, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Errorf("liveness: expected 200, got %d", rec.Code)
	}
	if rec := doJSON(t, http.MethodGet, "/health/ready", ""); rec.Code != http.StatusOK {
		t.Errorf("readiness: expected 200, got %d", rec.Code)
	}
}

func TestAPI_Metrics(t *testing.T) {
	if rec := doJSON(t, http.MethodGet, "/metrics", ""); rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
