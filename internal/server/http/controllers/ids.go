package controllers

import (
	"net/http"

	idsvc "github.com/rzbill/tixid/internal/services/ids"
	"github.com/rzbill/tixid/pkg/snowflake"
)

// IDsController handles allocation and decoding.
type IDsController struct {
	svc *idsvc.Service
}

// NewIDsController creates a new IDs controller.
func NewIDsController(svc *idsvc.Service) *IDsController {
	return &IDsController{svc: svc}
}

// RegisterRoutes registers allocation and decode routes with the given mux.
//
// This method sets up:
// - POST /v1/ids
// - POST /v1/tickets/number
// - POST /v1/orders/number
// - GET  /v1/ids/decode?value=
func (c *IDsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/ids", c.issue(snowflake.KindID))
	mux.HandleFunc("/v1/tickets/number", c.issue(snowflake.KindTicket))
	mux.HandleFunc("/v1/orders/number", c.issue(snowflake.KindOrder))
	mux.HandleFunc("/v1/ids/decode", c.handleDecode)
}

func (c *IDsController) issue(kind snowflake.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodPost) {
			return
		}
		iss, err := c.svc.Issue(r.Context(), kind)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, newIssuedView(iss))
	}
}

// handleDecode decomposes a bare ID or a TKT/ORD number.
func (c *IDsController) handleDecode(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	value := r.URL.Query().Get("value")
	if value == "" {
		writeError(w, http.StatusBadRequest, codeInvalidArgument, "value is required")
		return
	}
	d, err := c.svc.Decode(value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newDecodedView(d))
}
