// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package browser implements the aluminum alloy browser service: a single
// shared dataset behind a small JSON API plus an embedded web page.
//
// The query endpoint is stateless with respect to filters: each request
// carries the complete filter and selection state and receives the full
// derived view (filtered rows, selector options, resolved record, scatter
// points). Only visit counting involves server-side state, keyed by a
// session cookie.
package browser

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/alusearch/pkg/alloy"
	"github.com/AleutianAI/alusearch/pkg/session"
	"github.com/AleutianAI/alusearch/pkg/validation"
	"github.com/AleutianAI/alusearch/services/browser/datatypes"
)

// SessionCookie is the name of the visitor session cookie.
const SessionCookie = "alusearch_session"

// CounterStore abstracts the visit counter for testing.
type CounterStore interface {
	Read() int
	Increment() (int, error)
}

// SessionStore abstracts session persistence for testing.
type SessionStore interface {
	Get(id string) (session.State, bool, error)
	Put(state session.State) error
}

// DatasetSource abstracts the dataset cache for testing.
type DatasetSource interface {
	Get() (*alloy.Dataset, alloy.Bounds, error)
}

// Server holds the browser service dependencies.
type Server struct {
	Dataset  DatasetSource
	Counter  CounterStore
	Sessions SessionStore
	Logger   *slog.Logger

	// CookieMaxAge is the session cookie lifetime in seconds. Kept in sync
	// with the session store TTL by the caller.
	CookieMaxAge int
}

// handleHealth reports liveness plus whether the dataset is loadable.
func (s *Server) handleHealth(c *gin.Context) {
	ds, _, err := s.Dataset.Get()
	status := "ok"
	code := http.StatusOK
	if err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":  status,
		"service": "alusearch-browser",
		"rows":    ds.Len(),
	})
}

// handleColumns lists the numeric columns available as scatter axes.
func (s *Server) handleColumns(c *gin.Context) {
	c.JSON(http.StatusOK, datatypes.ColumnsResponse{
		Columns:      alloy.ScatterColumns,
		DefaultXAxis: string(alloy.DefaultXAxis),
		DefaultYAxis: string(alloy.DefaultYAxis),
	})
}

// handleQuery serves POST /v1/alloys/query: the single endpoint behind every
// page interaction.
//
// # Description
//
// Binds the filter/selection request (an empty body is a valid request
// meaning "no filters, default selection"), applies the filter predicates,
// resolves the selection with widget-style fallback, builds the scatter
// payload, and attaches the visitor count.
//
// # Error Handling
//
// A dataset that cannot be loaded is a 503: the service is up but has
// nothing to serve. Counter write failures never fail the request; the
// response flags the count as stale instead.
func (s *Server) handleQuery(c *gin.Context) {
	var req datatypes.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: err.Error()})
		return
	}

	// Normalize user-typed designations before they reach lookups or get
	// echoed back in the response.
	if req.Alloy != "" {
		safe, err := validation.SanitizeDesignation(req.Alloy)
		if err != nil {
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: "invalid alloy designation"})
			return
		}
		req.Alloy = safe
	}
	if req.Temper != "" {
		safe, err := validation.SanitizeDesignation(req.Temper)
		if err != nil {
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: "invalid temper designation"})
			return
		}
		req.Temper = safe
	}

	ds, bounds, err := s.Dataset.Get()
	if err != nil {
		s.Logger.Error("dataset unavailable", "error", err)
		c.JSON(http.StatusServiceUnavailable, datatypes.ErrorResponse{Error: "dataset unavailable"})
		return
	}

	fs := req.FilterState(ds)
	filtered := fs.Apply(ds)

	resp := datatypes.QueryResponse{
		Rows:   filtered.Records,
		Bounds: bounds.Display(),
	}

	resp.Alloys = alloy.Alloys(filtered)
	if len(resp.Alloys) == 0 {
		resp.EmptySelection = true
	} else {
		chosenAlloy := chooseOption(resp.Alloys, req.Alloy, alloy.DefaultAlloy)
		resp.Tempers = alloy.Tempers(filtered, chosenAlloy)
		chosenTemper := chooseOption(resp.Tempers, req.Temper, alloy.DefaultTemper)

		rec, err := alloy.Resolve(filtered, chosenAlloy, chosenTemper)
		if err != nil {
			// Unreachable when chosen values come from the option
			// lists, but a missing selection is still a valid state.
			resp.EmptySelection = true
		} else {
			resp.Selected = rec
		}
	}

	xCol, yCol := scatterAxes(req.XAxis, req.YAxis)
	resp.XAxis = axisInfo(xCol)
	resp.YAxis = axisInfo(yCol)
	resp.Scatter = scatterPoints(filtered, xCol, yCol, resp.Selected)

	resp.VisitorCount, resp.CounterStale = s.visitorCount(c)

	c.JSON(http.StatusOK, resp)
}

// chooseOption mirrors select-widget behavior: keep the requested value when
// it is still a valid option, otherwise fall back to the preferred default,
// otherwise the first option. options must be non-empty.
func chooseOption(options []string, requested, preferred string) string {
	for _, o := range options {
		if o == requested {
			return o
		}
	}
	for _, o := range options {
		if o == preferred {
			return o
		}
	}
	return options[0]
}

// scatterAxes resolves the requested axis columns, defaulting each
// independently.
func scatterAxes(x, y string) (alloy.Column, alloy.Column) {
	xCol := alloy.DefaultXAxis
	if x != "" && alloy.ValidColumn(alloy.Column(x)) {
		xCol = alloy.Column(x)
	}
	yCol := alloy.DefaultYAxis
	if y != "" && alloy.ValidColumn(alloy.Column(y)) {
		yCol = alloy.Column(y)
	}
	return xCol, yCol
}

func axisInfo(col alloy.Column) datatypes.AxisInfo {
	for _, ci := range alloy.ScatterColumns {
		if ci.Key == col {
			return datatypes.AxisInfo{Column: string(col), Label: ci.Label}
		}
	}
	return datatypes.AxisInfo{Column: string(col), Label: string(col)}
}

// scatterPoints projects the filtered rows onto the chosen axes. The
// selected record's point is flagged so the page can highlight it.
func scatterPoints(ds *alloy.Dataset, xCol, yCol alloy.Column, selected *alloy.Record) []datatypes.ScatterPoint {
	points := make([]datatypes.ScatterPoint, 0, ds.Len())
	for i := range ds.Records {
		if len(points) >= datatypes.MaxScatterPoints {
			break
		}
		r := &ds.Records[i]
		x, okX := r.Numeric(xCol)
		y, okY := r.Numeric(yCol)
		if !okX || !okY {
			continue
		}
		points = append(points, datatypes.ScatterPoint{
			Alloy:  r.Alloy,
			Temper: r.Temper,
			X:      x,
			Y:      y,
			Selected: selected != nil &&
				r.Alloy == selected.Alloy && r.Temper == selected.Temper,
		})
	}
	return points
}

// visitorCount returns the total visit count for the response, incrementing
// it once per session.
//
// A request without a valid session cookie gets a fresh session that counts
// one visit; subsequent requests in the same session only read. Counter and
// session failures degrade to a possibly stale count rather than failing
// the page.
func (s *Server) visitorCount(c *gin.Context) (count int, stale bool) {
	id, err := c.Cookie(SessionCookie)
	if err == nil && id != "" {
		state, found, err := s.Sessions.Get(id)
		if err != nil {
			s.Logger.Warn("session lookup failed", "error", err)
			return s.Counter.Read(), true
		}
		if found && state.Counted {
			return s.Counter.Read(), false
		}
	}

	// New visitor: issue a session and count the visit.
	state := session.State{
		ID:        session.NewID(),
		Counted:   true,
		CreatedAt: time.Now().UTC(),
	}

	count, incErr := s.Counter.Increment()
	if incErr != nil {
		s.Logger.Warn("visit counter write failed", "error", incErr)
		stale = true
	}

	if err := s.Sessions.Put(state); err != nil {
		// Without a stored session the next request counts again. Log
		// and move on; over-counting matches the counter's best-effort
		// contract.
		s.Logger.Warn("session save failed", "error", err)
	}
	c.SetCookie(SessionCookie, state.ID, s.CookieMaxAge, "/", "", false, true)
	return count, stale
}
