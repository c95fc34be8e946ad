// Package state shares the decoded receiver state between the producer
// goroutine and the UI.
//
// # Overview
//
// The radio session is the only writer. After every diagnostic line that
// changes something it publishes copies of the station state, the map
// state and the recent weather list. The UI polls Snapshot on its own
// schedule and never blocks the producer for longer than a copy.
//
//	Producer (radio.Session):       Consumer (UI):
//	┌──────────────────┐           ┌──────────────────┐
//	│ classify line    │           │                  │
//	│ apply to State   │           │                  │
//	│      ↓           │           │                  │
//	│ store.Publish()  │──────────→│ store.Snapshot() │
//	│      ↓           │  (mutex)  │      ↓           │
//	│ next line...     │           │ render           │
//	└──────────────────┘           └──────────────────┘
//
// # Change detection
//
// Every mutation increments Version and stamps LastUpdated, so a reader can
// skip rendering when nothing changed. MapUpdated additionally counts
// composites per kind; a viewer reloads a map image when its counter moves.
//
// # Copying
//
// Publish and Snapshot both deep-copy the slices inside station.State and
// the recent list. A snapshot may be kept and read freely after the store
// has moved on.
//
// # Errors
//
// Fail records the error that stopped the producer (for example an
// unwritable map directory). Data published earlier stays visible.
//
// The zero Store is ready to use.
package state
