// Package idsvc is the ID facade consumed by the gRPC and HTTP transports.
// It wraps the node generator with a bounded retry on clock regressions,
// records every handed-out ID in the ledger when one is configured, and
// updates metrics.
//
// Example:
//
//	svc := idsvc.New(rt)
//	iss, _ := svc.TicketNumber(ctx)
//	fmt.Println(iss.Number) // TKT...
//	dec, _ := svc.Decode(iss.Number)
package idsvc
