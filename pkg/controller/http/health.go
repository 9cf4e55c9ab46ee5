package http

import (
	"log/slog"
	"net/http"

	"github.com/m-mizutani/npm-release/pkg/domain/interfaces"
	"github.com/m-mizutani/npm-release/pkg/domain/model"
	"github.com/m-mizutani/npm-release/pkg/domain/types"
)

// healthHandler reports liveness and the lifecycle state of the current run
func healthHandler(lifecycleUC interfaces.LifecycleUseCase, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := &model.HealthStatus{
			Status:  "healthy",
			Service: "npm-release",
			Version: types.Version,
			State:   lifecycleUC.State().String(),
		}
		writeJSON(w, logger, status, http.StatusOK)
	}
}
