// Package nrsc5 classifies lines of nrsc5's diagnostic output.
//
// Each line is tried against an ordered rule table and the first matching
// rule turns it into an Event. Lines that match nothing are noise and
// Classify returns nil for them.
//
// # Rule order
//
// Order only matters where one rule's text is a subset of another's. The
// table lists the image announcement before the generic LOT file rule, and
// keeps the remaining rules in the order nrsc5 emits them most often:
//
//	title, artist, album, genre
//	audio bit rate, MER, BER
//	XHDR
//	image announcement, LOT file
//	station name, station location, slogan, message, alert
//	best gain, unique file identifier
//	SIG service, data component, audio component
//	synchronized, lost synchronization, lost device, open device failed
//
// # Protocols
//
// Older nrsc5 builds prefixed every line with the source location of the
// log call ("src/main.c:312: "); current builds prefix a wall clock
// ("12:00:01 "). The rule bodies are identical, so a single table is built
// with the prefix of the selected Protocol. The gain line is printed by
// librtlsdr glue without a clock and is matched with an optional prefix.
package nrsc5
