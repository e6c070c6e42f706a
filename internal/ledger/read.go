package ledger

import (
	"context"
	"fmt"

	"github.com/cockroachdb/pebble"

	logpkg "github.com/rzbill/tixid/pkg/log"
	"github.com/rzbill/tixid/pkg/snowflake"
)

// DefaultListLimit applies when ListOptions.Limit is not positive.
const DefaultListLimit = 100

// MaxListLimit caps ListOptions.Limit.
const MaxListLimit = 1000

// ListOptions selects a page of issuances of one kind.
type ListOptions struct {
	// Start is the first ID to consider, inclusive. Zero starts at the
	// oldest entry, or the newest when Reverse is set.
	Start   snowflake.ID
	Limit   int
	Reverse bool
	// Filter is an optional CEL expression over kind, number, worker,
	// datacenter, sequence, ts_ms, issued_ms, request_id and now_ms.
	Filter string
}

// Page is one List result. Next is the Start of the following page, zero
// when the scan reached the end.
type Page struct {
	Items []Entry
	Next  snowflake.ID
}

// List returns matching issuances of kind in ID order.
func (l *Ledger) List(ctx context.Context, kind snowflake.Kind, opts ListOptions) (Page, error) {
	if _, err := snowflake.ParseKind(string(kind)); err != nil {
		return Page{}, fmt.Errorf("ledger: %w", err)
	}
	f, err := newFilter(opts.Filter)
	if err != nil {
		return Page{}, err
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	prefix := KeyIssuancePrefix(kind)
	iter, err := l.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: prefixEnd(prefix)})
	if err != nil {
		return Page{}, err
	}
	defer iter.Close()

	var ok bool
	switch {
	case opts.Reverse && opts.Start == 0:
		ok = iter.Last()
	case opts.Reverse:
		ok = iter.SeekLT(append(KeyIssuance(kind, opts.Start), 0x00))
	case opts.Start == 0:
		ok = iter.First()
	default:
		ok = iter.SeekGE(KeyIssuance(kind, opts.Start))
	}

	now := l.now()
	page := Page{Items: make([]Entry, 0, min(limit, 64))}
	for ; ok; ok = step(iter, opts.Reverse) {
		if err := ctx.Err(); err != nil {
			return Page{}, err
		}
		if len(page.Items) == limit {
			page.Next = idFromKey(iter.Key())
			break
		}
		e, err := decodeEntry(iter.Value())
		if err != nil {
			l.logger.Warn("skipping unreadable ledger record",
				logpkg.Uint64("id", uint64(idFromKey(iter.Key()))),
				logpkg.Err(err),
			)
			continue
		}
		if f.Eval(e, now) {
			page.Items = append(page.Items, e)
		}
	}
	return page, iter.Error()
}

func step(iter *pebble.Iterator, reverse bool) bool {
	if reverse {
		return iter.Prev()
	}
	return iter.Next()
}

// prefixEnd returns the smallest key greater than every key with prefix p.
func prefixEnd(p []byte) []byte {
	end := append([]byte(nil), p...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
