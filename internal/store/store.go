// Package store provides the durable key-value storage that keeps client
// state (credential, identity) across process runs.
package store

// Store abstracts named string entries so that session state can live on
// disk (default) or in memory (tests).
type Store interface {
	// Get returns the value stored under key. ok is false if no entry exists.
	Get(key string) (value string, ok bool, err error)

	// Set creates or replaces the entry for key.
	Set(key, value string) error

	// Delete removes the entry for key. Deleting a missing key is not an error.
	Delete(key string) error
}
