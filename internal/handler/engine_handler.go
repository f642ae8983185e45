package handler

import (
	"context"
	"net/http"
)

// PassRunner runs one batch pass of the outreach engine
type PassRunner interface {
	RunPass(ctx context.Context) (int, error)
}

// EngineHandler exposes the engine trigger over HTTP
type EngineHandler struct {
	engine PassRunner
}

// NewEngineHandler creates a new engine handler
func NewEngineHandler(engine PassRunner) *EngineHandler {
	return &EngineHandler{engine: engine}
}

// RunPass handles POST /engine/run - executes one batch pass and reports
// how many enrollments were attempted
func (h *EngineHandler) RunPass(w http.ResponseWriter, r *http.Request) {
	processed, err := h.engine.RunPass(r.Context())
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, map[string]int{"processed": processed})
}
