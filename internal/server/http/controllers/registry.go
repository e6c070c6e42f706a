package controllers

import (
	"net/http"

	"github.com/rzbill/tixid/internal/runtime"
	idsvc "github.com/rzbill/tixid/internal/services/ids"
)

// ControllerRegistry manages all HTTP controllers.
type ControllerRegistry struct {
	general   *GeneralController
	ids       *IDsController
	issuances *IssuancesController
}

// NewControllerRegistry initializes all controllers with the runtime and ID service.
func NewControllerRegistry(rt *runtime.Runtime, svc *idsvc.Service) *ControllerRegistry {
	return &ControllerRegistry{
		general:   NewGeneralController(rt),
		ids:       NewIDsController(svc),
		issuances: NewIssuancesController(svc),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.ids.RegisterRoutes(mux)
	r.issuances.RegisterRoutes(mux)
}
