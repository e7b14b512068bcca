package middleware

import "github.com/aretw0/intake/pkg/ports"

// Middleware allows wrapping a RecordStore to add behavior.
type Middleware func(ports.RecordStore) ports.RecordStore

// Chain applies mws so that the first one is the outermost wrapper.
func Chain(store ports.RecordStore, mws ...Middleware) ports.RecordStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
