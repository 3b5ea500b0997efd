// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for browser service routing.

package browser

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRouterWiring(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newTestServer(&mockDataset{ds: testDataset()}, &mockCounter{}, newMockSessions())
	router := NewRouter(s, DefaultConfig())

	t.Run("page", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
			t.Errorf("Content-Type = %q, want html", ct)
		}
		if !strings.Contains(w.Body.String(), "Aluminum Alloy Browser") {
			t.Error("page body missing title")
		}
	})

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if w.Code != http.StatusOK {
			t.Errorf("status = %d", w.Code)
		}
	})

	t.Run("columns", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/alloys/columns", nil))
		if w.Code != http.StatusOK {
			t.Errorf("status = %d", w.Code)
		}
	})

	t.Run("query", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/alloys/query", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, body = %s", w.Code, w.Body.String())
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}
