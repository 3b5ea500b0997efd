// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the browser service HTTP handlers.

package browser

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/alusearch/pkg/alloy"
	"github.com/AleutianAI/alusearch/pkg/session"
	"github.com/AleutianAI/alusearch/services/browser/datatypes"
)

// --- Mocks ---

type mockDataset struct {
	ds  *alloy.Dataset
	err error
}

func (m *mockDataset) Get() (*alloy.Dataset, alloy.Bounds, error) {
	if m.err != nil {
		return &alloy.Dataset{}, alloy.Bounds{}, m.err
	}
	return m.ds, alloy.ComputeBounds(m.ds), nil
}

type mockCounter struct {
	count      int
	increments int
	failWrites bool
}

func (m *mockCounter) Read() int { return m.count }

func (m *mockCounter) Increment() (int, error) {
	m.increments++
	if m.failWrites {
		return m.count + 1, errors.New("disk full")
	}
	m.count++
	return m.count, nil
}

type mockSessions struct {
	states  map[string]session.State
	getErr  error
	putErr  error
	lastPut session.State
}

func newMockSessions() *mockSessions {
	return &mockSessions{states: map[string]session.State{}}
}

func (m *mockSessions) Get(id string) (session.State, bool, error) {
	if m.getErr != nil {
		return session.State{}, false, m.getErr
	}
	st, ok := m.states[id]
	return st, ok, nil
}

func (m *mockSessions) Put(state session.State) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.lastPut = state
	m.states[state.ID] = state
	return nil
}

// --- Helpers ---

func testDataset() *alloy.Dataset {
	return &alloy.Dataset{Records: []alloy.Record{
		{Alloy: "A5052", Temper: "H32", Description: "Marine grade",
			TensileStrengthMPa: 230, YieldStrengthMPa: 195, ElongationPercent: 12,
			HardnessBrinell: 60, CorrosionResistance: "A",
			ThermalConductivityWMK: 138, ElectricalConductivityIACS: 35,
			DensityGCm3: 2.68},
		{Alloy: "A6061", Temper: "T6", Description: "Structural",
			TensileStrengthMPa: 310, YieldStrengthMPa: 276, ElongationPercent: 12,
			HardnessBrinell: 95, CorrosionResistance: "B",
			ThermalConductivityWMK: 167, ElectricalConductivityIACS: 43,
			DensityGCm3: 2.70},
		{Alloy: "A7075", Temper: "T6", Description: "Aerospace",
			TensileStrengthMPa: 572, YieldStrengthMPa: 503, ElongationPercent: 11,
			HardnessBrinell: 150, CorrosionResistance: "C",
			ThermalConductivityWMK: 130, ElectricalConductivityIACS: 33,
			DensityGCm3: 2.81},
	}}
}

func newTestServer(ds *mockDataset, counter *mockCounter, sessions *mockSessions) *Server {
	return &Server{
		Dataset:      ds,
		Counter:      counter,
		Sessions:     sessions,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		CookieMaxAge: 86400,
	}
}

func doQuery(t *testing.T, s *Server, body string, cookie string) (*httptest.ResponseRecorder, datatypes.QueryResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/alloys/query",
		bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		c.Request.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
	}

	s.handleQuery(c)

	var resp datatypes.QueryResponse
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
	}
	return w, resp
}

// --- Tests ---

func TestHandleQueryEmptyBody(t *testing.T) {
	s := newTestServer(&mockDataset{ds: testDataset()}, &mockCounter{}, newMockSessions())

	w, resp := doQuery(t, s, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(resp.Rows) != 3 {
		t.Errorf("rows = %d, want 3 (unfiltered)", len(resp.Rows))
	}
	if resp.Selected == nil || resp.Selected.Alloy != "A5052" || resp.Selected.Temper != "H32" {
		t.Errorf("Selected = %+v, want default A5052/H32", resp.Selected)
	}
	if resp.XAxis.Column != string(alloy.DefaultXAxis) || resp.YAxis.Column != string(alloy.DefaultYAxis) {
		t.Errorf("axes = %s/%s, want defaults", resp.XAxis.Column, resp.YAxis.Column)
	}
	if len(resp.Scatter) != 3 {
		t.Errorf("scatter points = %d, want 3", len(resp.Scatter))
	}
}

func TestHandleQueryFilters(t *testing.T) {
	s := newTestServer(&mockDataset{ds: testDataset()}, &mockCounter{}, newMockSessions())

	body := `{"tensile_strength_mpa":{"min":300,"max":600}}`
	w, resp := doQuery(t, s, body, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(resp.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(resp.Rows))
	}
	// Default alloy is filtered out, so selection falls back to the first
	// remaining option.
	if resp.Selected == nil || resp.Selected.Alloy != "A6061" {
		t.Errorf("Selected = %+v, want fallback A6061", resp.Selected)
	}
}

func TestHandleQueryExplicitSelection(t *testing.T) {
	s := newTestServer(&mockDataset{ds: testDataset()}, &mockCounter{}, newMockSessions())

	w, resp := doQuery(t, s, `{"alloy":"A7075","temper":"T6"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if resp.Selected == nil || resp.Selected.Alloy != "A7075" {
		t.Errorf("Selected = %+v, want A7075", resp.Selected)
	}
	if len(resp.Tempers) != 1 || resp.Tempers[0] != "T6" {
		t.Errorf("Tempers = %v, want tempers scoped to A7075", resp.Tempers)
	}

	sel := 0
	for _, p := range resp.Scatter {
		if p.Selected {
			sel++
			if p.Alloy != "A7075" {
				t.Errorf("highlighted point = %s, want A7075", p.Alloy)
			}
		}
	}
	if sel != 1 {
		t.Errorf("highlighted points = %d, want exactly 1", sel)
	}
}

func TestHandleQueryEmptySelection(t *testing.T) {
	s := newTestServer(&mockDataset{ds: testDataset()}, &mockCounter{}, newMockSessions())

	w, resp := doQuery(t, s, `{"tensile_strength_mpa":{"min":900,"max":1000}}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !resp.EmptySelection {
		t.Error("EmptySelection = false, want true")
	}
	if resp.Selected != nil {
		t.Errorf("Selected = %+v, want nil", resp.Selected)
	}
	if len(resp.Alloys) != 0 {
		t.Errorf("Alloys = %v, want empty", resp.Alloys)
	}
}

func TestHandleQueryInvalidBody(t *testing.T) {
	s := newTestServer(&mockDataset{ds: testDataset()}, &mockCounter{}, newMockSessions())

	w, _ := doQuery(t, s, `{"tensile_strength_mpa":{"min":500,"max":100}}`, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for inverted range", w.Code)
	}

	w, _ = doQuery(t, s, `{not json`, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for malformed JSON", w.Code)
	}

	w, _ = doQuery(t, s, `{"alloy":"a50 52"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for malformed designation", w.Code)
	}
}

func TestHandleQueryNormalizesDesignation(t *testing.T) {
	s := newTestServer(&mockDataset{ds: testDataset()}, &mockCounter{}, newMockSessions())

	w, resp := doQuery(t, s, `{"alloy":"a7075","temper":"t6"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if resp.Selected == nil || resp.Selected.Alloy != "A7075" {
		t.Errorf("Selected = %+v, want lowercased input resolved to A7075", resp.Selected)
	}
}

func TestHandleQueryDatasetUnavailable(t *testing.T) {
	s := newTestServer(&mockDataset{err: alloy.ErrDatasetNotFound},
		&mockCounter{}, newMockSessions())

	w, _ := doQuery(t, s, "", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestVisitorCountNewSession(t *testing.T) {
	counter := &mockCounter{count: 41}
	sessions := newMockSessions()
	s := newTestServer(&mockDataset{ds: testDataset()}, counter, sessions)

	w, resp := doQuery(t, s, "", "")
	if resp.VisitorCount != 42 {
		t.Errorf("VisitorCount = %d, want 42", resp.VisitorCount)
	}
	if resp.CounterStale {
		t.Error("CounterStale = true, want false")
	}
	if counter.increments != 1 {
		t.Errorf("increments = %d, want 1", counter.increments)
	}
	if !sessions.lastPut.Counted {
		t.Error("stored session not marked counted")
	}

	found := false
	for _, sc := range w.Result().Cookies() {
		if sc.Name == SessionCookie && sc.Value == sessions.lastPut.ID {
			found = true
		}
	}
	if !found {
		t.Error("session cookie not set on response")
	}
}

func TestVisitorCountExistingSession(t *testing.T) {
	counter := &mockCounter{count: 100}
	sessions := newMockSessions()
	sessions.states["abc"] = session.State{ID: "abc", Counted: true}
	s := newTestServer(&mockDataset{ds: testDataset()}, counter, sessions)

	_, resp := doQuery(t, s, "", "abc")
	if resp.VisitorCount != 100 {
		t.Errorf("VisitorCount = %d, want 100 (no increment)", resp.VisitorCount)
	}
	if counter.increments != 0 {
		t.Errorf("increments = %d, want 0", counter.increments)
	}
}

func TestVisitorCountWriteFailure(t *testing.T) {
	counter := &mockCounter{count: 10, failWrites: true}
	s := newTestServer(&mockDataset{ds: testDataset()}, counter, newMockSessions())

	w, resp := doQuery(t, s, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, counter failure must not fail the request", w.Code)
	}
	if !resp.CounterStale {
		t.Error("CounterStale = false, want true on write failure")
	}
}

func TestVisitorCountSessionLookupFailure(t *testing.T) {
	counter := &mockCounter{count: 7}
	sessions := newMockSessions()
	sessions.getErr = errors.New("store closed")
	s := newTestServer(&mockDataset{ds: testDataset()}, counter, sessions)

	_, resp := doQuery(t, s, "", "abc")
	if resp.VisitorCount != 7 {
		t.Errorf("VisitorCount = %d, want read-only 7", resp.VisitorCount)
	}
	if !resp.CounterStale {
		t.Error("CounterStale = false, want true when session lookup fails")
	}
	if counter.increments != 0 {
		t.Errorf("increments = %d, want 0", counter.increments)
	}
}

func TestHandleColumns(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newTestServer(&mockDataset{ds: testDataset()}, &mockCounter{}, newMockSessions())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/alloys/columns", nil)
	s.handleColumns(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp datatypes.ColumnsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Columns) == 0 {
		t.Error("no columns returned")
	}
	if resp.DefaultXAxis != string(alloy.DefaultXAxis) {
		t.Errorf("DefaultXAxis = %s", resp.DefaultXAxis)
	}
}

func TestHandleHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("healthy", func(t *testing.T) {
		s := newTestServer(&mockDataset{ds: testDataset()}, &mockCounter{}, newMockSessions())
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/healthz", nil)
		s.handleHealth(c)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"rows":3`) {
			t.Errorf("body = %s, want row count", w.Body.String())
		}
	})

	t.Run("degraded", func(t *testing.T) {
		s := newTestServer(&mockDataset{err: alloy.ErrDatasetNotFound}, &mockCounter{}, newMockSessions())
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/healthz", nil)
		s.handleHealth(c)
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", w.Code)
		}
	})
}
