// Package store keeps the durable JSON records behind the cart, checkout
// draft and customer order ledgers.
package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("record not found")

// Store is a flat key/value record store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

func CartKey(customerID string) string { return "cart:" + customerID }
func DraftKey(customerID string) string { return "checkout:draft:" + customerID }
func SnapshotKey(customerID string) string { return "checkout:snapshot:" + customerID }
func OrdersKey(customerID string) string { return "orders:" + customerID }
func CustomerKey(hint string) string { return "customer:" + hint }
