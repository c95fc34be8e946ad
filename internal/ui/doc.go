// Package ui provides the hdmon terminal dashboard.
//
// The dashboard is a Bubble Tea program that polls state.Store once per
// second and renders the latest snapshot:
//
//   - Header: receiver state, station, selected stream, bitrate and BER
//   - Station: frequency, callsign, slogan, message, alert and location
//   - Now Playing: ID3 fields and the artwork file selected by the XHDR tag
//   - Signal: MER, BER statistics and gain
//   - Streams: audio streams with program types, then data services
//   - Map: the 3x3 traffic tile grid or the weather area and history
//
// The UI never writes to the store. Stream selection and session restarts
// are forwarded through Options.Send and applied by the producer goroutine;
// the next snapshot shows the result.
//
// Theme and map mode choices are saved to the prefs file as they change.
package ui
