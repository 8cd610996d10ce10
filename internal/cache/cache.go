// Package cache memoizes derived views of the ledger. Keys embed the ledger
// revision, so a mutation makes every older entry unreachable and the LRU
// eventually evicts it.
package cache

import "fmt"

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache
	Set(key string, data T)

	// Delete removes a key from the cache
	Delete(key string)

	// Size returns the current number of items in the cache
	Size() int
}

// RevisionKey builds the key of view at a given ledger revision.
func RevisionKey(view string, revision uint64) string {
	return fmt.Sprintf("%s@%d", view, revision)
}
