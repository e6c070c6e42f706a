package snowflake

import (
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock returns now() for each read; tests mutate it between calls.
type stepClock struct {
	mu  sync.Mutex
	fn  func(n int) int64
	cnt int
}

func (c *stepClock) NowMs() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cnt++
	return c.fn(c.cnt)
}

func fixedClock(ms int64) *int64 { return &ms }

func newTestGenerator(t *testing.T, c Clock) *Generator {
	t.Helper()
	g, err := New(3, 7, WithClock(c))
	require.NoError(t, err)
	return g
}

func TestNewRangeValidation(t *testing.T) {
	tests := []struct {
		name       string
		worker, dc int64
		wantErr    bool
	}{
		{"worker 32", 32, 1, true},
		{"worker -1", -1, 1, true},
		{"datacenter 32", 1, 32, true},
		{"datacenter -1", 1, -1, true},
		{"both zero", 0, 0, false},
		{"both max", 31, 31, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.worker, tt.dc)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, g)
				assert.True(t, errors.Is(err, ErrConfiguration))
				var cerr *ConfigurationError
				require.True(t, errors.As(err, &cerr))
				return
			}
			require.NoError(t, err)
			require.NotNil(t, g)
		})
	}

	for v := int64(0); v <= 31; v++ {
		_, err := New(v, 1)
		require.NoError(t, err, "worker %d", v)
		_, err = New(1, v)
		require.NoError(t, err, "datacenter %d", v)
	}
}

func TestNextIDUniqueAndMonotonic(t *testing.T) {
	g, err := New(1, 1)
	require.NoError(t, err)

	const n = 20000
	seen := make(map[ID]struct{}, n)
	var prev ID
	for i := 0; i < n; i++ {
		id, err := g.NextID()
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %d at %d", id, i)
		seen[id] = struct{}{}
		if i > 0 {
			require.Greater(t, id, prev)
		}
		prev = id
	}
}

func TestNextIDConcurrentUnique(t *testing.T) {
	g, err := New(5, 9)
	require.NoError(t, err)

	const workers, per = 8, 5000
	var mu sync.Mutex
	seen := make(map[ID]struct{}, workers*per)
	var dups atomic.Int32
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]ID, 0, per)
			var last ID
			for i := 0; i < per; i++ {
				id, err := g.NextID()
				if err != nil {
					t.Errorf("next: %v", err)
					return
				}
				if id <= last {
					t.Errorf("per-goroutine order violated: %d <= %d", id, last)
				}
				last = id
				local = append(local, id)
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range local {
				if _, ok := seen[id]; ok {
					dups.Add(1)
				}
				seen[id] = struct{}{}
			}
		}()
	}
	wg.Wait()
	require.Zero(t, dups.Load())
	require.Len(t, seen, workers*per)
}

func TestDecomposeRoundTrip(t *testing.T) {
	now := fixedClock(Epoch + 123456789)
	g := newTestGenerator(t, ClockFunc(func() int64 { return *now }))

	for i := 0; i < 5; i++ {
		id, err := g.NextID()
		require.NoError(t, err)
		p := Decompose(id)
		assert.Equal(t, *now, p.TimestampMs)
		assert.Equal(t, uint64(7), p.DatacenterID)
		assert.Equal(t, uint64(3), p.WorkerID)
		assert.Equal(t, uint64(i), p.Sequence)
		assert.Equal(t, id, Compose(p.TimestampMs, p.DatacenterID, p.WorkerID, p.Sequence))
		assert.Equal(t, AllocatorState{LastTimestampMs: *now, Sequence: uint16(i)}, g.State())
	}
}

func TestComposeLayout(t *testing.T) {
	tests := []struct {
		name           string
		ts             int64
		dc, worker, sq uint64
		want           ID
	}{
		{"zero at epoch", Epoch, 0, 0, 0, 0},
		{"sequence only", Epoch, 0, 0, 4095, 4095},
		{"worker bit", Epoch, 0, 1, 0, 1 << 12},
		{"datacenter bit", Epoch, 1, 0, 0, 1 << 17},
		{"one ms", Epoch + 1, 0, 0, 0, 1 << 22},
		{"all fields", Epoch + 2, 31, 31, 1, 2<<22 | 31<<17 | 31<<12 | 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compose(tt.ts, tt.dc, tt.worker, tt.sq)
			assert.Equal(t, tt.want, got)
			p := Decompose(got)
			assert.Equal(t, Parts{TimestampMs: tt.ts, DatacenterID: tt.dc, WorkerID: tt.worker, Sequence: tt.sq}, p)
		})
	}
}

func TestComposeHorizonStaysPositive(t *testing.T) {
	id := Compose(Epoch+MaxTimestamp, MaxDatacenterID, MaxWorkerID, MaxSequence)
	assert.Greater(t, id.Int64(), int64(0))
	assert.Equal(t, Epoch+MaxTimestamp+1, Horizon().UnixMilli())
	assert.Equal(t, 2090, Horizon().Year())
}

func TestSequenceRollover(t *testing.T) {
	const base = Epoch + 5000
	// 4096 reads at base, then the 4097th call reads base twice more
	// (once as its first read, once in the spin) before the clock advances.
	clk := &stepClock{fn: func(n int) int64 {
		if n <= 4096+2 {
			return base
		}
		return base + 1
	}}
	g := newTestGenerator(t, clk)

	for i := 0; i < 4096; i++ {
		id, err := g.NextID()
		require.NoError(t, err)
		p := Decompose(id)
		require.Equal(t, int64(base), p.TimestampMs)
		require.Equal(t, uint64(i), p.Sequence)
	}

	id, err := g.NextID()
	require.NoError(t, err)
	p := Decompose(id)
	assert.Equal(t, int64(base+1), p.TimestampMs)
	assert.Equal(t, uint64(0), p.Sequence)
	assert.Equal(t, AllocatorState{LastTimestampMs: base + 1, Sequence: 0}, g.State())
	assert.GreaterOrEqual(t, clk.cnt, 4096+3)
}

func TestClockRegressionLeavesStateUnchanged(t *testing.T) {
	now := fixedClock(Epoch + 2000)
	g := newTestGenerator(t, ClockFunc(func() int64 { return *now }))

	_, err := g.NextID()
	require.NoError(t, err)
	_, err = g.NextID()
	require.NoError(t, err)
	before := g.State()
	require.Equal(t, AllocatorState{LastTimestampMs: Epoch + 2000, Sequence: 1}, before)

	*now = Epoch + 1990
	id, err := g.NextID()
	require.Error(t, err)
	assert.Zero(t, id)
	assert.True(t, errors.Is(err, ErrClockRegression))
	var rerr *ClockRegressionError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, int64(10), rerr.Regression())
	assert.Contains(t, err.Error(), "10 milliseconds")
	assert.Equal(t, before, g.State())

	*now = Epoch + 2000
	id, err = g.NextID()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), Decompose(id).Sequence)
}

func TestClockOutOfRangeRejected(t *testing.T) {
	tests := []struct {
		name string
		ms   int64
	}{
		{"before epoch", Epoch - 1},
		{"unix zero", 0},
		{"at horizon", Epoch + MaxTimestamp + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := fixedClock(tt.ms)
			g := newTestGenerator(t, ClockFunc(func() int64 { return *now }))

			id, err := g.NextID()
			assert.Zero(t, id)
			assert.ErrorIs(t, err, ErrClockOutOfRange)
			var oerr *ClockOutOfRangeError
			require.ErrorAs(t, err, &oerr)
			assert.Equal(t, tt.ms, oerr.NowMs)
			assert.Equal(t, AllocatorState{LastTimestampMs: -1}, g.State())
		})
	}
}

func TestClockBackInRangeStaysMonotonic(t *testing.T) {
	now := fixedClock(Epoch - 1)
	g := newTestGenerator(t, ClockFunc(func() int64 { return *now }))

	_, err := g.NextID()
	require.ErrorIs(t, err, ErrClockOutOfRange)

	*now = Epoch + 1
	a, err := g.NextID()
	require.NoError(t, err)
	*now = Epoch + 2
	b, err := g.NextID()
	require.NoError(t, err)
	assert.Greater(t, b, a)
	assert.Equal(t, int64(Epoch+1), Decompose(a).TimestampMs)
}

func TestLastMillisecondBeforeHorizon(t *testing.T) {
	now := fixedClock(Epoch + MaxTimestamp)
	g := newTestGenerator(t, ClockFunc(func() int64 { return *now }))

	id, err := g.NextID()
	require.NoError(t, err)
	assert.Equal(t, int64(Epoch+MaxTimestamp), Decompose(id).TimestampMs)
	assert.Greater(t, id.Int64(), int64(0))
}

func TestNumberFormatting(t *testing.T) {
	now := fixedClock(Epoch + 42)
	g := newTestGenerator(t, ClockFunc(func() int64 { return *now }))

	tkt, err := g.TicketNumber()
	require.NoError(t, err)
	ord, err := g.OrderNumber()
	require.NoError(t, err)

	tktID := Compose(*now, 7, 3, 0)
	ordID := Compose(*now, 7, 3, 1)
	assert.Equal(t, "TKT"+strconv.FormatUint(uint64(tktID), 10), tkt)
	assert.Equal(t, "ORD"+strconv.FormatUint(uint64(ordID), 10), ord)

	assert.Equal(t, "TKT"+tktID.String(), FormatTicketNumber(tktID))
	assert.Equal(t, "ORD"+ordID.String(), FormatOrderNumber(ordID))
}

func TestNumberFormattingPropagatesRegression(t *testing.T) {
	now := fixedClock(Epoch + 100)
	g := newTestGenerator(t, ClockFunc(func() int64 { return *now }))
	_, err := g.NextID()
	require.NoError(t, err)

	*now = Epoch + 50
	tkt, err := g.TicketNumber()
	assert.Empty(t, tkt)
	assert.ErrorIs(t, err, ErrClockRegression)
	ord, err := g.OrderNumber()
	assert.Empty(t, ord)
	assert.ErrorIs(t, err, ErrClockRegression)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in       string
		wantKind Kind
		wantID   ID
		wantErr  bool
	}{
		{"12345", KindID, 12345, false},
		{"TKT12345", KindTicket, 12345, false},
		{"ORD9", KindOrder, 9, false},
		{" ORD9 ", KindOrder, 9, false},
		{"TKT", "", 0, true},
		{"XYZ1", "", 0, true},
		{"-1", "", 0, true},
		{"ORD18446744073709551615", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			kind, id, err := ParseNumber(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidNumber)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestFormatAndParseKind(t *testing.T) {
	id := ID(77)
	assert.Equal(t, "77", Format(KindID, id))
	assert.Equal(t, "TKT77", Format(KindTicket, id))
	assert.Equal(t, "ORD77", Format(KindOrder, id))

	k, err := ParseKind("Ticket")
	require.NoError(t, err)
	assert.Equal(t, KindTicket, k)
	_, err = ParseKind("invoice")
	assert.Error(t, err)
}
