// Package ledger keeps an optional, append-only record of issued IDs in Pebble.
//
// The ledger is observational. The generator never reads it, so IDs stay
// unique after a restart only if the clock has advanced past the last issued
// millisecond. The ledger makes a violation of that assumption visible: a
// second Record for the same ID fails with ErrDuplicate.
//
// Keyspace (byte-wise, lexicographically sortable):
//
//	iss/{kind}/{id_be8}   issuance record
//	num/{id_be8}          kind index, used as the uniqueness guard
//
// IDs sort by timestamp, so both prefixes are in issuance order.
package ledger
