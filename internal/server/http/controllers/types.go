package controllers

import (
	"time"

	"github.com/rzbill/tixid/internal/ledger"
	idsvc "github.com/rzbill/tixid/internal/services/ids"
	"github.com/rzbill/tixid/pkg/snowflake"
)

// Response envelope and views for HTTP controllers. IDs are rendered as
// decimal strings because they exceed the exact integer range of JSON
// numbers in most clients.

// apiResponse is the envelope every endpoint except /metrics answers with.
type apiResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
	ErrorCode string `json:"errorCode,omitempty"`
}

// Error codes carried in apiResponse.ErrorCode.
const (
	codeClockRegression = "CLOCK_REGRESSION"
	codeClockOutOfRange = "CLOCK_OUT_OF_RANGE"
	codeInvalidNumber   = "INVALID_NUMBER"
	codeInvalidArgument = "INVALID_ARGUMENT"
	codeInvalidFilter   = "INVALID_FILTER"
	codeNotFound        = "NOT_FOUND"
	codeDuplicate       = "DUPLICATE_ISSUANCE"
	codeLedgerDisabled  = "LEDGER_DISABLED"
	codeMethod          = "METHOD_NOT_ALLOWED"
	codeUnavailable     = "NOT_SERVING"
	codeInternal        = "INTERNAL"
)

// partsView is the decomposed form of an ID.
type partsView struct {
	TimestampMs  int64  `json:"timestampMs"`
	Time         string `json:"time"`
	DatacenterID uint64 `json:"datacenterId"`
	WorkerID     uint64 `json:"workerId"`
	Sequence     uint64 `json:"sequence"`
}

func newPartsView(p snowflake.Parts) partsView {
	return partsView{
		TimestampMs:  p.TimestampMs,
		Time:         p.Time().Format(time.RFC3339Nano),
		DatacenterID: p.DatacenterID,
		WorkerID:     p.WorkerID,
		Sequence:     p.Sequence,
	}
}

// issuedView answers the allocation endpoints and decode.
type issuedView struct {
	ID     string         `json:"id"`
	Kind   snowflake.Kind `json:"kind"`
	Number string         `json:"number"`
	partsView
}

func newIssuedView(iss idsvc.Issued) issuedView {
	return issuedView{ID: iss.ID.String(), Kind: iss.Kind, Number: iss.Number, partsView: newPartsView(iss.Parts)}
}

func newDecodedView(d idsvc.Decoded) issuedView {
	return issuedView{ID: d.ID.String(), Kind: d.Kind, Number: d.Number, partsView: newPartsView(d.Parts)}
}

// entryView is one ledger entry.
type entryView struct {
	issuedView
	IssuedAtMs int64  `json:"issuedAtMs"`
	RequestID  string `json:"requestId,omitempty"`
}

func newEntryView(e ledger.Entry) entryView {
	return entryView{
		issuedView: issuedView{ID: e.ID.String(), Kind: e.Kind, Number: e.Number(), partsView: newPartsView(e.Parts())},
		IssuedAtMs: e.IssuedAtMs,
		RequestID:  e.RequestID,
	}
}

// listView is one page of ledger entries.
type listView struct {
	Items []entryView `json:"items"`
	Next  string      `json:"next,omitempty"`
}
