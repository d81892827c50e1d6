// Copyright (c) 2026 MIZDB. All rights reserved.

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Actionb/MIZDB-sub002/internal/platform/apperr"
	"github.com/Actionb/MIZDB-sub002/internal/platform/constants"
	"github.com/Actionb/MIZDB-sub002/internal/platform/respond"
)

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// Driver names the storage backend reported by the probes.
	Driver string

	// CheckDatabase pings the PostgreSQL pool or the SQLite file.
	CheckDatabase func(ctx context.Context) error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldStatus:  "ok",
		constants.FieldApp:     constants.AppName,
		constants.FieldVersion: constants.AppVersion,
	})
}

// readiness handles GET /ready (Readiness probe).
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	if handler.dependencies.CheckDatabase != nil {
		if err := handler.dependencies.CheckDatabase(request.Context()); err != nil {
			handler.logger.Error("readiness_check_failed",
				slog.String("dependency", handler.dependencies.Driver),
				slog.Any("error", err),
			)
			appError := apperr.ServiceUnavailable("Storage backend " + handler.dependencies.Driver + " is unavailable")
			appError.Cause = err
			respond.Error(writer, request, appError)
			return
		}
	}

	respond.OK(writer, map[string]string{
		constants.FieldStatus: "ready",
		constants.FieldDriver: handler.dependencies.Driver,
	})
}
