package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"
)

// GenerateOrderID returns ORD followed by the unix millisecond timestamp.
func GenerateOrderID(now time.Time) string {
	return fmt.Sprintf("ORD%d", now.UnixMilli())
}

// OrderIDs hands out GenerateOrderID values that never repeat: a request
// landing in a millisecond already used takes the next free one.
type OrderIDs struct {
	last atomic.Int64
}

func (g *OrderIDs) Next(now time.Time) string {
	ms := now.UnixMilli()
	for {
		last := g.last.Load()
		next := ms
		if next <= last {
			next = last + 1
		}
		if g.last.CompareAndSwap(last, next) {
			return GenerateOrderID(time.UnixMilli(next))
		}
	}
}

// GenerateTransactionCode returns TRX- followed by six random digits.
func GenerateTransactionCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// fallback: time-based entropy
		n = big.NewInt(time.Now().UnixNano() % 1000000)
	}

	return fmt.Sprintf("TRX-%06d", n.Int64())
}
