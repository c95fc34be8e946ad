// Package config loads the hdmon configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/hdmon/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/hdmon/config.toml
//   - AAS directory (files dumped by nrsc5): ~/.local/share/hdmon/aas
//   - Map directory (tiles and composites): ~/.local/share/hdmon/map
//   - Config directory (map state, logo registry): ~/.config/hdmon
//   - Reference map: ~/.local/share/hdmon/res/map.png
//   - Protocol: current
//   - Include covers: true
//   - Log level: info
//   - Prune interval: 60 seconds
//   - Stream: 1
//
// # TOML Format
//
//	aas_dir = "~/.local/share/hdmon/aas"
//	map_dir = "~/.local/share/hdmon/map"
//	config_dir = "~/.config/hdmon"
//	reference_map = "~/maps/map.png"
//	protocol = "legacy"
//	include_covers = false
//	log_level = "debug"
//	log_file = "~/nrsc5.log"
//	prune_interval_seconds = 120
//	station = "90.5"
//	stream = 2
//
// All fields are optional. Tilde expansion is performed on every path.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - Invalid TOML, unknown protocol or log level, stream outside 1-8
//
// EnsureDirs reports a directory that cannot be created. Callers treat that
// as fatal since nothing can be cached without it.
package config
