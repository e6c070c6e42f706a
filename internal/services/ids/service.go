package idsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rzbill/tixid/internal/ledger"
	"github.com/rzbill/tixid/internal/runtime"
	logpkg "github.com/rzbill/tixid/pkg/log"
	"github.com/rzbill/tixid/pkg/snowflake"
)

// ErrLedgerDisabled is returned by Lookup and List when the node runs without a ledger.
var ErrLedgerDisabled = errors.New("issuance ledger disabled")

// Issued is one handed-out ID.
type Issued struct {
	ID     snowflake.ID
	Kind   snowflake.Kind
	Number string
	Parts  snowflake.Parts
}

// Decoded is the result of Decode.
type Decoded struct {
	Kind   snowflake.Kind
	ID     snowflake.ID
	Number string
	Parts  snowflake.Parts
	Time   time.Time
}

// RetryPolicy bounds how the service waits out a clock regression.
type RetryPolicy struct {
	// MaxAttempts is the total number of allocation attempts.
	MaxAttempts int
	// MaxWait is the largest regression worth waiting for.
	MaxWait time.Duration
}

// Service allocates IDs on behalf of transports.
type Service struct {
	rt     *runtime.Runtime
	logger logpkg.Logger
	policy RetryPolicy
	sleep  func(ctx context.Context, d time.Duration) error
}

// New returns a Service using the runtime logger.
func New(rt *runtime.Runtime) *Service {
	return NewWithLogger(rt, nil)
}

// NewWithLogger returns a Service using the provided logger.
func NewWithLogger(rt *runtime.Runtime, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = rt.Logger()
	}
	rc := rt.Config().Retry
	pol := RetryPolicy{MaxAttempts: rc.MaxAttempts, MaxWait: rc.MaxWait()}
	if pol.MaxAttempts < 1 {
		pol.MaxAttempts = 1
	}
	return &Service{
		rt:     rt,
		logger: logger.WithComponent("ids"),
		policy: pol,
		sleep:  sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Policy returns the active retry policy.
func (s *Service) Policy() RetryPolicy { return s.policy }

// NextID allocates a bare ID.
func (s *Service) NextID(ctx context.Context) (Issued, error) {
	return s.Issue(ctx, snowflake.KindID)
}

// TicketNumber allocates an ID and formats it as a ticket number.
func (s *Service) TicketNumber(ctx context.Context) (Issued, error) {
	return s.Issue(ctx, snowflake.KindTicket)
}

// OrderNumber allocates an ID and formats it as an order number.
func (s *Service) OrderNumber(ctx context.Context) (Issued, error) {
	return s.Issue(ctx, snowflake.KindOrder)
}

// Issue allocates an ID of kind. A clock regression no larger than the
// policy's MaxWait is waited out and retried; anything else is returned as a
// *snowflake.ClockRegressionError.
func (s *Service) Issue(ctx context.Context, kind snowflake.Kind) (Issued, error) {
	start := time.Now()
	m := s.rt.Metrics()
	id, err := s.allocate(ctx)
	if err != nil {
		return Issued{}, err
	}

	if lg := s.rt.Ledger(); lg != nil {
		err := lg.Record(ctx, ledger.Entry{
			ID:        id,
			Kind:      kind,
			RequestID: logpkg.RequestIDFromContext(ctx),
		})
		if errors.Is(err, ledger.ErrDuplicate) {
			m.Duplicate()
			return Issued{}, err
		}
		if err != nil {
			s.logger.WithContext(ctx).Error("ledger record failed",
				logpkg.Uint64("id", uint64(id)),
				logpkg.Err(err),
			)
			return Issued{}, fmt.Errorf("record issuance: %w", err)
		}
	}

	elapsed := time.Since(start)
	m.Issued(string(kind))
	m.ObserveAllocation(elapsed)
	iss := Issued{ID: id, Kind: kind, Number: snowflake.Format(kind, id), Parts: snowflake.Decompose(id)}
	s.logger.WithContext(ctx).Debug("ids.issue",
		logpkg.Str("kind", string(kind)),
		logpkg.Str("number", iss.Number),
		logpkg.Dur("dur_ms", elapsed),
	)
	return iss, nil
}

func (s *Service) allocate(ctx context.Context) (snowflake.ID, error) {
	gen := s.rt.Generator()
	m := s.rt.Metrics()
	for attempt := 1; ; attempt++ {
		id, err := gen.NextID()
		if err == nil {
			return id, nil
		}
		var rerr *snowflake.ClockRegressionError
		if !errors.As(err, &rerr) {
			return 0, err
		}
		m.ClockRegression()
		wait := time.Duration(rerr.Regression()) * time.Millisecond
		if attempt >= s.policy.MaxAttempts || wait > s.policy.MaxWait {
			s.logger.WithContext(ctx).Error("clock moved backwards",
				logpkg.Int64("regression_ms", rerr.Regression()),
				logpkg.Int("attempt", attempt),
			)
			return 0, err
		}
		s.logger.WithContext(ctx).Warn("clock moved backwards, waiting",
			logpkg.Int64("regression_ms", rerr.Regression()),
			logpkg.Int("attempt", attempt),
		)
		m.Retry()
		if err := s.sleep(ctx, wait); err != nil {
			return 0, err
		}
	}
}

// Decode parses a bare ID, ticket number or order number and decomposes it.
func (s *Service) Decode(value string) (Decoded, error) {
	kind, id, err := snowflake.ParseNumber(value)
	if err != nil {
		return Decoded{}, err
	}
	p := snowflake.Decompose(id)
	return Decoded{Kind: kind, ID: id, Number: snowflake.Format(kind, id), Parts: p, Time: p.Time()}, nil
}

// Lookup returns the ledger entry for a bare ID, ticket number or order number.
func (s *Service) Lookup(ctx context.Context, value string) (ledger.Entry, error) {
	lg := s.rt.Ledger()
	if lg == nil {
		return ledger.Entry{}, ErrLedgerDisabled
	}
	_, id, err := snowflake.ParseNumber(value)
	if err != nil {
		return ledger.Entry{}, err
	}
	return lg.Lookup(ctx, id)
}

// List pages through recorded issuances of kind.
func (s *Service) List(ctx context.Context, kind snowflake.Kind, opts ledger.ListOptions) (ledger.Page, error) {
	lg := s.rt.Ledger()
	if lg == nil {
		return ledger.Page{}, ErrLedgerDisabled
	}
	return lg.List(ctx, kind, opts)
}
