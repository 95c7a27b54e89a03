// Package client defines the interfaces and common types through which the
// node pool, queriers, sequencer, and transaction client interact. It exists
// so that each component depends on a narrow contract rather than on another
// component's concrete implementation.
//
// The client package leverages cosmos-sdk types where a chain-level concept
// (message, coin, transaction response) already has a canonical
// representation, but defines its own types for everything the pool and
// transaction engine own (reservations, transaction options).
package client
