// Package state owns the Grocy collections shared by every view.
//
// # Overview
//
// Store is the single source of truth for quantity units, unit conversions
// and the plain master-data lists. Forms and list views only read cloned
// snapshots and ask the store to refresh or mutate; they never edit the
// collections themselves. The store is injected into each form rather than
// reached through a package-level singleton.
//
// # Architecture
//
//	Producers:                        Consumers (UI loop):
//	┌─────────────────────┐          ┌───────────────────────┐
//	│ app poller          │          │ QuantityUnits()       │
//	│   NoteChanged(t)    │          │ QuantityUnitConversions│
//	│ RequestRefresh()    │─(mutex)─→│ Objects(kind)         │
//	│   goroutine fetch   │          │ Snapshot()            │
//	│ Create()/Update()   │          │ NextID(kind)          │
//	└─────────────────────┘          └───────────────────────┘
//
// # Freshness
//
// A kind is fresh when it was fetched after the last database change time
// the poller saw on the server. RequestRefresh with ignoreCache=false skips
// fresh kinds; ignoreCache=true always fetches. Successful mutations drop
// the freshness mark of the kind they touched. Kinds already being fetched
// are coalesced rather than fetched twice.
//
// # Error Semantics
//
// A failed fetch keeps the previous rows, records LastError and bumps
// ConsecutiveFailures; IsOffline reports two or more failures in a row. A
// successful fetch clears both. Mutation errors are returned to the caller
// wrapped with the kind and id.
//
// # Concurrency Model
//
// All state sits behind a sync.RWMutex. Network I/O happens outside the
// lock. RequestRefresh is fire-and-forget; Wait exists so tests and the
// one-shot CLI commands can block until background fetches settle.
package state
