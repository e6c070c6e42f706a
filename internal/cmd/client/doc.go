// Package client provides the `tixid` command-line client.
//
// The CLI allocates IDs over gRPC and queries the issuance ledger over
// HTTP. It is meant for operators and for poking at a local server.
//
// # Address configuration
//
// The HTTP base URL is supplied by the embedding application through a
// BaseURLFunc; the standalone binary reads TIXID_HTTP and defaults to
// http://127.0.0.1:8080. The gRPC address is read from TIXID_GRPC
// (default 127.0.0.1:50051).
//
// Usage
//
//	tixid id next
//	tixid id ticket --count 5
//	tixid id order -o json
//
//	# decoding is local; no server needed
//	tixid id decode TKT7326182044623011840
//
//	tixid issuances list --kind ticket --limit 10 --reverse
//	tixid issuances list --kind order --filter 'worker == 3 && now_ms - ts_ms < 60000'
//	tixid issuances lookup ORD7326182044623011841
package client
