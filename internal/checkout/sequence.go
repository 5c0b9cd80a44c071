package checkout

import (
	"context"
	"fmt"
	"time"
)

// Per-day counters only need to survive the day they number; the TTL keeps
// stale keys from accumulating.
const counterTTL = 48 * time.Hour

type counterStore interface {
	CounterKey(name string) string
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// NumberGenerator mints order numbers of the form ORD<yyyymmdd><seq>. The
// sequence is an atomic Redis increment on a per-day key, so concurrent
// checkouts never collide.
type NumberGenerator struct {
	counters counterStore
}

// NewNumberGenerator builds a generator backed by the given counter store.
func NewNumberGenerator(counters counterStore) (*NumberGenerator, error) {
	if counters == nil {
		return nil, fmt.Errorf("counter store required")
	}
	return &NumberGenerator{counters: counters}, nil
}

// OrderNumber returns the next order number for the given day.
func (g *NumberGenerator) OrderNumber(ctx context.Context, at time.Time) (string, error) {
	day := at.Format("20060102")
	key := g.counters.CounterKey("orders:" + day)
	seq, err := g.counters.IncrWithTTL(ctx, key, counterTTL)
	if err != nil {
		return "", fmt.Errorf("next order sequence: %w", err)
	}
	return fmt.Sprintf("ORD%s%05d", day, seq), nil
}

// UnitSuffix maps a zero-based unit index onto a bijective base-26 string:
// 0..25 -> A..Z, 26 -> AA, 27 -> AB, and so on without bound.
func UnitSuffix(index int) string {
	if index < 0 {
		return ""
	}
	var buf [8]byte
	pos := len(buf)
	n := index
	for {
		pos--
		buf[pos] = byte('A' + n%26)
		n = n/26 - 1
		if n < 0 {
			break
		}
	}
	return string(buf[pos:])
}

// UnitNumber joins the aggregate order number with the unit's suffix.
func UnitNumber(orderNumber string, index int) string {
	return orderNumber + "-" + UnitSuffix(index)
}
