// Package compare implements the storefront's product comparison drawer: a
// small ordered set of product SKUs with a hard capacity.
package compare

import (
	"errors"
	"sync"
)

// MaxItems is the number of products the comparison view can hold.
const MaxItems = 4

var (
	ErrFull      = errors.New("comparison list is full")
	ErrDuplicate = errors.New("product is already in the comparison list")
	ErrNotFound  = errors.New("product is not in the comparison list")
)

// List is a bounded, insertion-ordered set of SKUs. Safe for concurrent use.
type List struct {
	mu   sync.Mutex
	skus []string
}

func NewList() *List {
	return &List{}
}

// Add appends a SKU, rejecting duplicates and additions beyond MaxItems.
func (l *List) Add(sku string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range l.skus {
		if s == sku {
			return ErrDuplicate
		}
	}
	if len(l.skus) >= MaxItems {
		return ErrFull
	}

	l.skus = append(l.skus, sku)
	return nil
}

// Remove deletes a SKU, preserving the order of the rest.
func (l *List) Remove(sku string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, s := range l.skus {
		if s == sku {
			l.skus = append(l.skus[:i], l.skus[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Clear empties the list.
func (l *List) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.skus = nil
}

// Contains reports whether a SKU is in the list.
func (l *List) Contains(sku string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range l.skus {
		if s == sku {
			return true
		}
	}
	return false
}

// Items returns the SKUs in insertion order.
func (l *List) Items() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, len(l.skus))
	copy(out, l.skus)
	return out
}

// Len returns the number of SKUs in the list.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.skus)
}
