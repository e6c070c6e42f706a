// Package snowflake provides a 64-bit, time-ordered identifier allocator used
// to mint ticket numbers, order numbers and entity IDs without a central
// coordinator.
//
// # Format
//
// An ID packs four fields most-significant first:
//
//	| 1 bit unused | 41 bits ms since Epoch | 5 bits datacenter | 5 bits worker | 12 bits sequence |
//
// The timestamp field is measured from Epoch (2021-01-01T00:00:00Z) and
// covers 2^41 ms, so IDs remain positive int64 values until Horizon()
// (roughly 69 years after Epoch, September 2090).
//
// # Guarantees
//
// A Generator serializes every allocation behind a single mutex:
//   - IDs from one Generator are strictly increasing.
//   - IDs from different Generators never collide as long as their
//     (datacenter, worker) pairs differ. Assigning those pairs is a
//     deployment concern; the Generator does not verify it.
//   - When 4096 IDs have been issued within one millisecond the Generator
//     spins on the clock until the next millisecond. It does not sleep.
//   - When the clock reports a time earlier than the last issued timestamp
//     NextID fails with a *ClockRegressionError and leaves its state alone.
//     Retrying is up to the caller.
//
// Usage
//
//	g, err := snowflake.New(1, 1)
//	if err != nil { /* *ConfigurationError */ }
//	id, err := g.NextID()
//	tkt, err := g.TicketNumber() // "TKT" + decimal id
//	parts := snowflake.Decompose(id)
package snowflake
