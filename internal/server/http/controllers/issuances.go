package controllers

import (
	"net/http"

	"github.com/rzbill/tixid/internal/ledger"
	idsvc "github.com/rzbill/tixid/internal/services/ids"
	"github.com/rzbill/tixid/pkg/snowflake"
)

// IssuancesController exposes the issuance ledger.
type IssuancesController struct {
	svc *idsvc.Service
}

// NewIssuancesController creates a new issuances controller.
func NewIssuancesController(svc *idsvc.Service) *IssuancesController {
	return &IssuancesController{svc: svc}
}

// RegisterRoutes registers ledger routes with the given mux.
func (c *IssuancesController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/issuances", c.handleList)
	mux.HandleFunc("/v1/issuances/lookup", c.handleLookup)
}

// handleList pages through issuances.
//
// Query: kind (id|ticket|order, default id), start (id or number), limit,
// reverse, filter (CEL).
func (c *IssuancesController) handleList(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	kind := snowflake.KindID
	if k := q.Get("kind"); k != "" {
		var err error
		if kind, err = snowflake.ParseKind(k); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidArgument, err.Error())
			return
		}
	}
	opts := ledger.ListOptions{
		Limit:   parseLimit(q.Get("limit")),
		Reverse: parseBool(q.Get("reverse")),
		Filter:  q.Get("filter"),
	}
	if s := q.Get("start"); s != "" {
		_, id, err := snowflake.ParseNumber(s)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		opts.Start = id
	}

	page, err := c.svc.List(r.Context(), kind, opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := listView{Items: make([]entryView, 0, len(page.Items))}
	for _, e := range page.Items {
		out.Items = append(out.Items, newEntryView(e))
	}
	if page.Next != 0 {
		out.Next = page.Next.String()
	}
	writeJSON(w, http.StatusOK, out)
}

// handleLookup returns the ledger entry for ?value=.
func (c *IssuancesController) handleLookup(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	value := r.URL.Query().Get("value")
	if value == "" {
		writeError(w, http.StatusBadRequest, codeInvalidArgument, "value is required")
		return
	}
	e, err := c.svc.Lookup(r.Context(), value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newEntryView(e))
}
