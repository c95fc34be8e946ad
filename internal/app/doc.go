// Package app wires the hdmon components together and manages their
// lifecycle.
//
// # Architecture
//
//	┌───────────────────────────────────────────┐
//	│ app.Run()                                 │
//	│  ├─> config.Load / EnsureDirs             │
//	│  ├─> logos.Registry, maps.LoadState       │
//	│  ├─> maps.New, aas.NewRouter              │
//	│  ├─> radio.NewSession                     │
//	│  ├─> StartPruner() goroutine              │
//	│  ├─> producer goroutine: Session.Run      │
//	│  └─> ui.Run() or wait (headless)          │
//	└───────────────────────────────────────────┘
//
// The producer goroutine is the only writer of station and map state. It
// reads nrsc5 lines from stdin (or a replayed log) and applies commands sent
// by the dashboard between lines. The dashboard reads state.Store snapshots.
//
// # Housekeeping
//
// The pruner calls Refresh at the configured interval (default: one
// minute). Each pass deletes weather composites older than twelve hours and
// saves the map state and station logo registry. Both are saved once more
// on shutdown.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file invalid
//   - Data directories cannot be created
//   - Replay file missing or unreadable
//   - Map directory failures reported by the producer
//
// Recoverable errors (logged, processing continues):
//   - Unreadable logo registry or map state (start empty)
//   - Raw line recorder cannot be opened
//   - Failed periodic saves
//
// # Logging
//
// Headless runs log to stderr. With the dashboard active the log goes to
// hdmon.log in the config directory so it does not tear the screen.
package app
