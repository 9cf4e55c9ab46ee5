package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	controller "github.com/m-mizutani/npm-release/pkg/controller/http"
	"github.com/m-mizutani/npm-release/pkg/domain/model"
)

func TestHealthEndpoint(t *testing.T) {
	uc := &mockLifecycle{state: model.StateVerified}

	server, err := controller.NewServer(
		context.Background(),
		uc,
		controller.WithAddr("localhost:0"),
		controller.WithLogger(discardLogger()),
	)
	gt.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	server.Handler.ServeHTTP(w, req)
	gt.Value(t, w.Code).Equal(http.StatusOK)

	var status model.HealthStatus
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	gt.Value(t, status.Status).Equal("healthy")
	gt.Value(t, status.Service).Equal("npm-release")
	gt.Value(t, status.State).Equal("verified")
	gt.True(t, status.Version != "")
}
