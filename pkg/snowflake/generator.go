package snowflake

import (
	"sync"

	logpkg "github.com/rzbill/tixid/pkg/log"
)

// AllocatorState is the mutable state of a Generator.
type AllocatorState struct {
	LastTimestampMs int64
	// Sequence holds 12 significant bits.
	Sequence uint16
}

// Identity is the (datacenter, worker) pair embedded in every ID.
type Identity struct {
	DatacenterID uint64
	WorkerID     uint64
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the clock source.
func WithClock(c Clock) Option {
	return func(g *Generator) {
		if c != nil {
			g.clock = c
		}
	}
}

// WithLogger sets the logger used for the construction record.
func WithLogger(l logpkg.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// Generator allocates IDs for one (datacenter, worker) identity.
type Generator struct {
	identity Identity
	clock    Clock
	logger   logpkg.Logger

	mu    sync.Mutex
	state AllocatorState
}

// New validates the identity and returns a Generator.
func New(workerID, datacenterID int64, opts ...Option) (*Generator, error) {
	if err := validateIdentity(workerID, datacenterID); err != nil {
		return nil, err
	}
	g := &Generator{
		identity: Identity{DatacenterID: uint64(datacenterID), WorkerID: uint64(workerID)},
		clock:    SystemClock{},
		state:    AllocatorState{LastTimestampMs: -1},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = logpkg.NewLogger(logpkg.WithOutput(&logpkg.NullOutput{}))
	}
	g.logger.Info("snowflake generator initialized",
		logpkg.Int64("worker_id", workerID),
		logpkg.Int64("datacenter_id", datacenterID),
	)
	return g, nil
}

func validateIdentity(workerID, datacenterID int64) error {
	if workerID < 0 || workerID > MaxWorkerID {
		return &ConfigurationError{Field: "worker id", Value: workerID, Max: MaxWorkerID}
	}
	if datacenterID < 0 || datacenterID > MaxDatacenterID {
		return &ConfigurationError{Field: "datacenter id", Value: datacenterID, Max: MaxDatacenterID}
	}
	return nil
}

// Identity returns the identity embedded in every ID of this generator.
func (g *Generator) Identity() Identity { return g.identity }

// State returns a copy of the allocator state.
func (g *Generator) State() AllocatorState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// NextID allocates the next ID. It fails with *ClockOutOfRangeError when the
// clock reads outside [Epoch, Horizon) and with *ClockRegressionError when it
// reads earlier than the last issued timestamp; neither touches the state.
// When the sequence for the current millisecond is exhausted it spins until
// the clock advances.
func (g *Generator) NextID() (ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.NowMs()
	if !inRange(now) {
		return 0, &ClockOutOfRangeError{NowMs: now}
	}
	last := g.state.LastTimestampMs
	if now < last {
		return 0, &ClockRegressionError{LastMs: last, NowMs: now}
	}

	seq := uint64(0)
	if now == last {
		seq = (uint64(g.state.Sequence) + 1) & MaxSequence
		if seq == 0 {
			now = g.tilNextMillis(last)
			if !inRange(now) {
				return 0, &ClockOutOfRangeError{NowMs: now}
			}
		}
	}

	g.state.LastTimestampMs = now
	g.state.Sequence = uint16(seq)
	return Compose(now, g.identity.DatacenterID, g.identity.WorkerID, seq), nil
}

func inRange(ms int64) bool {
	return ms >= Epoch && ms-Epoch <= MaxTimestamp
}

// tilNextMillis re-reads the clock until it passes last. Must hold g.mu.
func (g *Generator) tilNextMillis(last int64) int64 {
	now := g.clock.NowMs()
	for now <= last {
		now = g.clock.NowMs()
	}
	return now
}

// TicketNumber allocates an ID and formats it as a ticket number.
func (g *Generator) TicketNumber() (string, error) {
	id, err := g.NextID()
	if err != nil {
		return "", err
	}
	return FormatTicketNumber(id), nil
}

// OrderNumber allocates an ID and formats it as an order number.
func (g *Generator) OrderNumber() (string, error) {
	id, err := g.NextID()
	if err != nil {
		return "", err
	}
	return FormatOrderNumber(id), nil
}
