package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	pebblestore "github.com/rzbill/tixid/internal/storage/pebble"
	logpkg "github.com/rzbill/tixid/pkg/log"
	"github.com/rzbill/tixid/pkg/snowflake"
)

var (
	// ErrDuplicate is returned by Record when the ID was already recorded.
	ErrDuplicate = errors.New("ledger: id already issued")
	// ErrNotFound is returned by Lookup for unknown IDs.
	ErrNotFound = errors.New("ledger: id not found")
	// ErrInvalidFilter wraps CEL compile errors from List.
	ErrInvalidFilter = errors.New("ledger: invalid filter")
)

// Kinds lists every kind the ledger indexes.
var Kinds = []snowflake.Kind{snowflake.KindID, snowflake.KindTicket, snowflake.KindOrder}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the ledger logger.
func WithLogger(l logpkg.Logger) Option {
	return func(lg *Ledger) {
		if l != nil {
			lg.logger = l
		}
	}
}

// WithNow overrides the wall clock that stamps IssuedAtMs when a record
// leaves it zero, computes retention cutoffs and feeds now_ms to filters.
func WithNow(now func() int64) Option {
	return func(lg *Ledger) {
		if now != nil {
			lg.now = now
		}
	}
}

// Ledger records issued IDs in Pebble.
type Ledger struct {
	db     *pebblestore.DB
	logger logpkg.Logger
	now    func() int64
}

// New returns a Ledger over db.
func New(db *pebblestore.DB, opts ...Option) (*Ledger, error) {
	if db == nil {
		return nil, errors.New("ledger: nil db")
	}
	l := &Ledger{
		db:     db,
		logger: logpkg.NewLogger(logpkg.WithOutput(&logpkg.NullOutput{})),
		now:    func() int64 { return time.Now().UnixMilli() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Record stores e. It fails with ErrDuplicate when e.ID is already present
// under any kind.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	if _, err := snowflake.ParseKind(string(e.Kind)); err != nil {
		return fmt.Errorf("ledger: %w", err)
	}
	if e.IssuedAtMs == 0 {
		e.IssuedAtMs = l.now()
	}
	val, err := encodeEntry(e)
	if err != nil {
		return fmt.Errorf("ledger: encode: %w", err)
	}
	numKey := KeyNumber(e.ID)
	err = l.db.SetIfAbsent(ctx, numKey,
		[2][]byte{numKey, []byte(e.Kind)},
		[2][]byte{KeyIssuance(e.Kind, e.ID), val},
	)
	if errors.Is(err, pebblestore.ErrExists) {
		l.logger.Error("duplicate issuance",
			logpkg.Uint64("id", uint64(e.ID)),
			logpkg.Str("kind", string(e.Kind)),
		)
		return fmt.Errorf("%w: %d", ErrDuplicate, e.ID)
	}
	return err
}

// Lookup returns the entry recorded for id.
func (l *Ledger) Lookup(ctx context.Context, id snowflake.ID) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	kind, err := l.db.Get(KeyNumber(id))
	if errors.Is(err, pebblestore.ErrNotFound) {
		return Entry{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return Entry{}, err
	}
	val, err := l.db.Get(KeyIssuance(snowflake.Kind(kind), id))
	if errors.Is(err, pebblestore.ErrNotFound) {
		return Entry{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return Entry{}, err
	}
	return decodeEntry(val)
}
