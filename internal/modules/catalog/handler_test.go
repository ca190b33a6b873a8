package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/tmwale/pos-backend/internal/db"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	// Unique in-memory database per test; a single connection keeps the
	// lone SQLite writer serialized.
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	conn.SetMaxOpenConns(1)
	if err := db.Migrate(context.Background(), conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()
	conn := setupTestDB(t)
	svc := NewService(NewPostgresRepository(conn), zap.NewNop())
	router := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCategoryCreateAndList(t *testing.T) {
	router := setupRouter(t)

	for _, name := range []string{"Snacks", "Drinks", "Bakery"} {
		w := doJSON(t, router, http.MethodPost, "/api/categories", `{"name":"`+name+`"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("create %s: expected 201 got %d: %s", name, w.Code, w.Body.String())
		}
	}

	w := doJSON(t, router, http.MethodGet, "/api/categories", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200 got %d", w.Code)
	}
	var payload struct {
		Success    bool        `json:"success"`
		Categories []*Category `json:"categories"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.Success || len(payload.Categories) != 3 {
		t.Fatalf("expected 3 categories got %+v", payload)
	}
	// Ordered by name.
	for i, want := range []string{"Bakery", "Drinks", "Snacks"} {
		if payload.Categories[i].Name != want {
			t.Fatalf("position %d: expected %s got %s", i, want, payload.Categories[i].Name)
		}
	}
}

func TestCategoryDuplicateName(t *testing.T) {
	router := setupRouter(t)

	if w := doJSON(t, router, http.MethodPost, "/api/categories", `{"name":"Snacks"}`); w.Code != http.StatusCreated {
		t.Fatalf("first create: expected 201 got %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodPost, "/api/categories", `{"name":"Snacks"}`); w.Code != http.StatusConflict {
		t.Fatalf("duplicate create: expected 409 got %d", w.Code)
	}
}

func TestCategoryNameRequired(t *testing.T) {
	router := setupRouter(t)
	if w := doJSON(t, router, http.MethodPost, "/api/categories", `{"name":"  "}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestCategoryDelete(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/categories", `{"name":"Snacks"}`)
	var created struct {
		Category Category `json:"category"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}

	if w := doJSON(t, router, http.MethodDelete, "/api/categories/"+created.Category.ID.String(), ""); w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200 got %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodDelete, "/api/categories/"+created.Category.ID.String(), ""); w.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404 got %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodDelete, "/api/categories/not-a-uuid", ""); w.Code != http.StatusNotFound {
		t.Fatalf("bogus id: expected 404 got %d", w.Code)
	}
}
