// Package maps assembles traffic and weather map images from the raster
// fragments nrsc5 dumps to its AAS directory.
//
// # Traffic maps
//
// A traffic map arrives as nine 200×200 tiles in a 3×3 grid, each named
// with its row, column and UTC timestamp. State.Tiles records the timestamp
// held by each cell. When all nine cells hold the same timestamp the tiles
// are stitched into a 600×600 TrafficMap.png with a timestamp label and the
// intermediate tile files are removed. A tile whose timestamp already
// occupies its cell is a duplicate and is deleted without touching the
// composite.
//
// # Weather maps
//
// Weather metadata (a DWRI text file) names the radar area and its
// bounding box. The first time an area is seen its base map is cropped
// from the reference map (res/map.png) using geo.MapArea and stored as
// BaseMap_<id>.png. Each radar overlay for the current area is resized
// onto the base map, labelled and saved as WeatherMap_<id>_<unix>.png.
// Overlays for another area, or received before any metadata, are
// discarded.
//
// Refresh rescans the map directory, deletes composites older than 12
// hours regardless of area and keeps the current area's composites, sorted
// by time, as the recent list used for animation.
//
// # Failure handling
//
// I/O failures while moving, compositing or saving reset the affected
// tile cell or WeatherTime to zero so the next matching arrival rebuilds
// the image. They are logged and never returned. The only error surfaced
// to callers is ErrCacheDir, raised when the map directory itself cannot
// be created.
//
// # Concurrency
//
// All methods are safe for concurrent use. The producer goroutine adds
// tiles and overlays while a periodic task calls Refresh; a Refresh that
// finds another pass in progress returns immediately.
package maps
