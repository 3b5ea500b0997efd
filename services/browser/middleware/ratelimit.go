// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides HTTP middleware for the browser service.
//
// # Rate Limiting
//
// The browser service is a single shared instance without authentication,
// so the rate limiter is global rather than per-client: a token bucket
// covering all query traffic. Static assets and health checks bypass it by
// not being registered behind the middleware.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit returns middleware enforcing a global request rate.
//
// # Description
//
// Wraps a golang.org/x/time/rate token bucket. rps is the sustained
// requests-per-second allowance and burst the bucket depth. Requests that
// find the bucket empty are rejected immediately with 429 rather than
// queued, keeping worst-case latency flat under load.
//
// # Inputs
//
//   - rps: Sustained requests per second. Values <= 0 disable limiting.
//   - burst: Maximum burst size. Clamped to at least 1 when limiting is on.
//
// # Outputs
//
//   - gin.HandlerFunc: The middleware.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
