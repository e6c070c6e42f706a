package controllers

import (
	"net/http"

	"github.com/rzbill/tixid/internal/runtime"
)

// GeneralController serves the health endpoint.
type GeneralController struct {
	rt *runtime.Runtime
}

// NewGeneralController creates a new general controller.
func NewGeneralController(rt *runtime.Runtime) *GeneralController {
	return &GeneralController{rt: rt}
}

// RegisterRoutes registers /v1/healthz with the given mux.
func (c *GeneralController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/healthz", c.handleHealth)
}

// handleHealth returns 200 with {"status":"ok"} when healthy and 503 otherwise.
func (c *GeneralController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.rt.CheckHealth(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, "not_serving")
		return
	}
	id := c.rt.Generator().Identity()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"workerId":     id.WorkerID,
		"datacenterId": id.DatacenterID,
		"ledger":       c.rt.Ledger() != nil,
	})
}
