package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/npm-release/pkg/domain/interfaces"
	"github.com/m-mizutani/npm-release/pkg/domain/model"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body, optionally
// prefixed with "sha256="
const SignatureHeader = "X-Plugin-Signature-256"

// PluginHandler dispatches lifecycle steps to one Lifecycle. Steps are serialized
// because the lifecycle state belongs to a single release run.
type PluginHandler struct {
	mu          sync.Mutex
	lifecycleUC interfaces.LifecycleUseCase
	cfg         *config
}

// NewPluginHandler creates a new plugin handler
func NewPluginHandler(lifecycleUC interfaces.LifecycleUseCase, cfg *config) *PluginHandler {
	return &PluginHandler{
		lifecycleUC: lifecycleUC,
		cfg:         cfg,
	}
}

// Handle runs the step named in the URL
func (h *PluginHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.cfg.logger

	step := model.LifecycleStep(chi.URLParam(r, "step"))
	if !step.IsValid() {
		writeError(w, logger, goerr.New("unknown lifecycle step", goerr.V("step", step)), http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read request body", "error", err)
		writeError(w, logger, goerr.Wrap(err, "failed to read body"), http.StatusBadRequest)
		return
	}

	if h.cfg.secret != "" && !h.verifySignature(body, r.Header.Get(SignatureHeader)) {
		logger.Warn("Invalid plugin request signature", "step", step)
		writeError(w, logger, goerr.New("invalid signature"), http.StatusUnauthorized)
		return
	}

	var req model.PluginRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, logger, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}
	if req.Context.Cwd == "" {
		writeError(w, logger, goerr.New("context.cwd is required"), http.StatusBadRequest)
		return
	}

	rc := &model.RunContext{
		Cwd:         req.Context.Cwd,
		Env:         req.Context.Env,
		Stdout:      h.cfg.stdout,
		Stderr:      h.cfg.stderr,
		Logger:      logger.With("step", string(step)),
		NextRelease: req.Context.NextRelease,
	}
	if rc.Env == nil {
		rc.Env = map[string]string{}
	}
	raw := req.PluginConfig
	if raw == nil {
		raw = model.RawConfig{}
	}

	h.mu.Lock()
	result, err := h.run(ctx, step, raw, rc)
	h.mu.Unlock()

	if err != nil {
		logger.Error("Lifecycle step failed", "step", step, "error", err)
		writeJSON(w, logger, toPluginError(err), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, logger, &model.PluginResponse{Step: step, Result: result}, http.StatusOK)
}

func (h *PluginHandler) run(ctx context.Context, step model.LifecycleStep, raw model.RawConfig, rc *model.RunContext) (any, error) {
	var summary *model.ReleaseSummary
	var err error

	switch step {
	case model.StepVerifyConditions:
		return false, h.lifecycleUC.VerifyConditions(ctx, raw, rc)
	case model.StepPrepare:
		return false, h.lifecycleUC.Prepare(ctx, raw, rc)
	case model.StepPublish:
		summary, err = h.lifecycleUC.Publish(ctx, raw, rc)
	case model.StepAddChannel:
		summary, err = h.lifecycleUC.AddChannel(ctx, raw, rc)
	}

	if err != nil {
		return nil, err
	}
	if summary == nil {
		return false, nil
	}
	return summary, nil
}

func toPluginError(err error) *model.PluginError {
	resp := &model.PluginError{
		Error: err.Error(),
		Code:  model.ErrorCode(err),
	}
	if goErr := goerr.Unwrap(err); goErr != nil {
		resp.Values = goErr.Values()
	}
	return resp
}

// verifySignature verifies the request signature
func (h *PluginHandler) verifySignature(payload []byte, signature string) bool {
	if signature == "" {
		return false
	}

	signature = strings.TrimPrefix(signature, "sha256=")

	mac := hmac.New(sha256.New, []byte(h.cfg.secret))
	mac.Write(payload)
	expectedMAC := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expectedMAC))
}
