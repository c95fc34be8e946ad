// Package station models the live state of a tuned HD Radio station.
//
// # Overview
//
// State is the record the line classifier mutates while nrsc5 runs: station
// identity, now-playing metadata, signal quality, per-stream names and the
// artwork file names resolved from LOT announcements. A fresh State is
// created whenever a tune session starts and is discarded when it stops.
//
// # Port correlation
//
// nrsc5 announces each logical stream with a "SIG Service" line followed by
// one line per component. Component lines carry no reference to the stream
// they belong to, so Resolver attributes them to the most recently declared
// stream:
//
//	SIG Service: type=audio number=1 name=MPS    -> current slot 0
//	  Audio component: id=0 port=0000 type=10    -> Programs[0]
//	  Data component: id=1 port=0020 ...         -> Ports(0) = [0x20]
//	  Data component: id=2 port=0021 ...         -> Ports(0) = [0x20, 0x21]
//	SIG Service: type=data number=1 name=Weather -> data service 0
//	  Data component: id=0 port=0030 service_data_type=29 -> SvcTypes[0]
//
// This relies on nrsc5 emitting component lines contiguously after their
// declaration. The first two data ports of an audio slot are, by
// convention, its cover art port and its station logo port.
//
// # Type tables
//
// Service data type codes (0-511) and program type codes (0-76) map to
// display names through fixed tables. Unknown codes leave the field unset.
package station
