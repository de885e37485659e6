// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start and completion with a request id (X-Request-ID is
reused when the caller sends one), and records request count and latency
per route pattern in the metrics package.

# CORS Middleware

	handler := middleware.CORS(cfg.CORSOrigins)(mux)

A "*" entry reflects any origin. Requests without an Origin header get
Access-Control-Allow-Origin: *.

# Authentication

RequireAuth guards write endpoints when enabled:

	guard := middleware.RequireAuth(cfg.JWTSecret, cfg.RequireAuth)
	mux.HandleFunc("POST /api/v1/orders/", middleware.WithLogging(guard(h.CreateOrder)))

The authenticated user id is available through middleware.UserID(ctx).

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

DecodeAndValidate parses a body and runs its validate tags, returning a
message that names the first failing field by its JSON name:

	var req models.CreateEventRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
*/
package middleware
