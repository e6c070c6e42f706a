package snowflake

import (
	"strconv"
	"time"
)

// Epoch is the reference instant of the timestamp field (2021-01-01T00:00:00Z) in Unix ms.
const Epoch int64 = 1609459200000

// Bit layout.
const (
	SequenceBits     = 12
	WorkerIDBits     = 5
	DatacenterIDBits = 5
	TimestampBits    = 41

	WorkerIDShift     = SequenceBits
	DatacenterIDShift = SequenceBits + WorkerIDBits
	TimestampShift    = SequenceBits + WorkerIDBits + DatacenterIDBits

	MaxSequence     = 1<<SequenceBits - 1
	MaxWorkerID     = 1<<WorkerIDBits - 1
	MaxDatacenterID = 1<<DatacenterIDBits - 1
	MaxTimestamp    = 1<<TimestampBits - 1
)

// ID is a packed 64-bit identifier. The top bit is always zero.
type ID uint64

// String returns the decimal representation.
func (id ID) String() string { return strconv.FormatUint(uint64(id), 10) }

// Int64 returns the id as a signed value; it is always non-negative within the horizon.
func (id ID) Int64() int64 { return int64(id) }

// Parts are the fields packed into an ID.
type Parts struct {
	TimestampMs  int64  `json:"timestampMs"`
	DatacenterID uint64 `json:"datacenterId"`
	WorkerID     uint64 `json:"workerId"`
	Sequence     uint64 `json:"sequence"`
}

// Time returns the issue time of the ID in UTC.
func (p Parts) Time() time.Time { return time.UnixMilli(p.TimestampMs).UTC() }

// Compose packs the fields into an ID. Fields wider than their slot are masked.
func Compose(timestampMs int64, datacenterID, workerID, sequence uint64) ID {
	ts := uint64(timestampMs-Epoch) & MaxTimestamp
	return ID(ts<<TimestampShift |
		(datacenterID&MaxDatacenterID)<<DatacenterIDShift |
		(workerID&MaxWorkerID)<<WorkerIDShift |
		sequence&MaxSequence)
}

// Decompose extracts the fields packed into id. It is the exact inverse of Compose.
func Decompose(id ID) Parts {
	v := uint64(id)
	return Parts{
		TimestampMs:  int64(v>>TimestampShift&MaxTimestamp) + Epoch,
		DatacenterID: v >> DatacenterIDShift & MaxDatacenterID,
		WorkerID:     v >> WorkerIDShift & MaxWorkerID,
		Sequence:     v & MaxSequence,
	}
}

// Horizon is the first instant whose timestamp no longer fits the 41-bit field.
func Horizon() time.Time { return time.UnixMilli(Epoch + MaxTimestamp + 1).UTC() }
