package ledger

import (
	"context"
	"time"

	"github.com/cockroachdb/pebble"

	logpkg "github.com/rzbill/tixid/pkg/log"
	"github.com/rzbill/tixid/pkg/snowflake"
)

// TrimOlderThan deletes entries whose ID timestamp is before cutoffMs and
// returns how many issuances were removed. IDs sort by timestamp, so every
// prefix is cut with a single range delete.
func (l *Ledger) TrimOlderThan(ctx context.Context, cutoffMs int64) (int, error) {
	if cutoffMs <= snowflake.Epoch {
		return 0, nil
	}
	cutoff := snowflake.Compose(min(cutoffMs, snowflake.Epoch+snowflake.MaxTimestamp), 0, 0, 0)

	b := l.db.NewBatch()
	defer b.Close()

	deleted := 0
	var spans [][2][]byte
	for _, kind := range Kinds {
		low := KeyIssuancePrefix(kind)
		hi := KeyIssuance(kind, cutoff)
		n, err := l.count(low, hi)
		if err != nil {
			return 0, err
		}
		if n == 0 {
			continue
		}
		deleted += n
		if err := b.DeleteRange(low, hi, nil); err != nil {
			return 0, err
		}
		spans = append(spans, [2][]byte{low, hi})
	}
	if deleted == 0 {
		return 0, nil
	}
	if err := b.DeleteRange(numPrefix, KeyNumber(cutoff), nil); err != nil {
		return 0, err
	}
	spans = append(spans, [2][]byte{numPrefix, KeyNumber(cutoff)})
	if err := l.db.CommitBatch(ctx, b); err != nil {
		return 0, err
	}
	// A failed compaction leaves tombstones behind but loses nothing.
	for _, sp := range spans {
		if err := l.db.CompactRange(sp[0], sp[1]); err != nil {
			l.logger.Warn("ledger compaction failed", logpkg.Err(err))
			break
		}
	}
	l.logger.Info("ledger trimmed",
		logpkg.Int("deleted", deleted),
		logpkg.Int64("cutoff_ms", cutoffMs),
	)
	return deleted, nil
}

func (l *Ledger) count(low, hi []byte) (int, error) {
	iter, err := l.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: hi})
	if err != nil {
		return 0, err
	}
	defer iter.Close()
	n := 0
	for ok := iter.First(); ok; ok = iter.Next() {
		n++
	}
	return n, iter.Error()
}

// RunRetention trims entries older than retention every interval until ctx
// is done. A non-positive retention disables trimming.
func (l *Ledger) RunRetention(ctx context.Context, retention, interval time.Duration) {
	if retention <= 0 {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			cutoff := l.now() - retention.Milliseconds()
			if _, err := l.TrimOlderThan(ctx, cutoff); err != nil && ctx.Err() == nil {
				l.logger.Warn("ledger trim failed", logpkg.Err(err))
			}
		}
	}
}
