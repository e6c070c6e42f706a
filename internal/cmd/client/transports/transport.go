package transports

import "context"

// IDTransport allocates IDs on a remote tixid server.
type IDTransport interface {
	NextID(ctx context.Context) (uint64, error)
	TicketNumber(ctx context.Context) (string, error)
	OrderNumber(ctx context.Context) (string, error)
}

// LedgerTransport queries the issuance ledger of a remote tixid server.
type LedgerTransport interface {
	ListIssuances(ctx context.Context, req ListRequest) (Page, error)
	LookupIssuance(ctx context.Context, value string) (Issuance, error)
}

// ListRequest mirrors the /v1/issuances query.
type ListRequest struct {
	Kind    string
	Start   string
	Limit   int
	Reverse bool
	Filter  string
}

// Issuance is one ledger entry as served by the HTTP API.
type Issuance struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Number       string `json:"number"`
	TimestampMs  int64  `json:"timestampMs"`
	Time         string `json:"time"`
	DatacenterID uint64 `json:"datacenterId"`
	WorkerID     uint64 `json:"workerId"`
	Sequence     uint64 `json:"sequence"`
	IssuedAtMs   int64  `json:"issuedAtMs"`
	RequestID    string `json:"requestId,omitempty"`
}

// Page is one page of issuances; Next is empty at the end.
type Page struct {
	Items []Issuance `json:"items"`
	Next  string     `json:"next,omitempty"`
}
