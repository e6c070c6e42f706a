package snowflake

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies what an ID was minted for.
type Kind string

const (
	KindID     Kind = "id"
	KindTicket Kind = "ticket"
	KindOrder  Kind = "order"
)

// Number prefixes.
const (
	TicketPrefix = "TKT"
	OrderPrefix  = "ORD"
)

// FormatTicketNumber returns "TKT" followed by the decimal id.
func FormatTicketNumber(id ID) string { return TicketPrefix + id.String() }

// FormatOrderNumber returns "ORD" followed by the decimal id.
func FormatOrderNumber(id ID) string { return OrderPrefix + id.String() }

// Format renders id for the given kind. KindID renders the bare decimal.
func Format(kind Kind, id ID) string {
	switch kind {
	case KindTicket:
		return FormatTicketNumber(id)
	case KindOrder:
		return FormatOrderNumber(id)
	default:
		return id.String()
	}
}

// ParseNumber accepts a bare decimal id, a ticket number or an order number.
func ParseNumber(s string) (Kind, ID, error) {
	s = strings.TrimSpace(s)
	kind := KindID
	digits := s
	switch {
	case strings.HasPrefix(s, TicketPrefix):
		kind, digits = KindTicket, s[len(TicketPrefix):]
	case strings.HasPrefix(s, OrderPrefix):
		kind, digits = KindOrder, s[len(OrderPrefix):]
	}
	v, err := strconv.ParseUint(digits, 10, 63)
	if err != nil {
		return "", 0, fmt.Errorf("%q: %w", s, ErrInvalidNumber)
	}
	return kind, ID(v), nil
}

// ParseKind maps a textual kind to Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindID:
		return KindID, nil
	case KindTicket:
		return KindTicket, nil
	case KindOrder:
		return KindOrder, nil
	default:
		return "", fmt.Errorf("unknown kind %q", s)
	}
}
