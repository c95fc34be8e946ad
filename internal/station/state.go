package station

import "slices"

// MaxStreams bounds the number of audio streams and data services tracked
// per station.
const MaxStreams = 8

// Sync is the receiver synchronization state.
type Sync int

const (
	Unsynced Sync = iota
	Synced
	LostDevice
	NoDevice
)

func (s Sync) String() string {
	switch s {
	case Synced:
		return "synced"
	case LostDevice:
		return "lost device"
	case NoDevice:
		return "no device"
	default:
		return "unsynced"
	}
}

// Location is the transmitter position reported by nrsc5.
type Location struct {
	Lat      float64
	Lon      float64
	Altitude int
}

// State is the mutable record of the current tune session.
type State struct {
	SessionID  string
	StationKey string // tuned frequency, e.g. "90.5"
	Slot       int    // tuned audio stream, 0-based

	Callsign string
	Slogan   string
	Message  string
	Alert    string
	Location *Location

	Streams  []string // audio stream names by slot
	Programs []string // program type names by slot
	Services []string // data service names
	SvcTypes []string // data service type names

	Title  string
	Artist string
	Album  string
	Genre  string
	Cover  string
	Logo   string

	Bitrate float64
	MER     [2]float64 // lower, upper dB
	BER     [4]float64 // current, average, min, max
	Gain    float64
	Sync    Sync

	XHDRTag string
	XHDRLot string
	FileID  string
}

// New returns a fresh state for a tune session.
func New(sessionID, stationKey string, slot int) *State {
	return &State{SessionID: sessionID, StationKey: stationKey, Slot: slot, Sync: Unsynced}
}

// Artwork returns the file that should currently be displayed: the cover
// while the XHDR tag is "0", the station logo while it is "1".
func (s *State) Artwork() string {
	switch s.XHDRTag {
	case "0":
		return s.Cover
	case "1":
		return s.Logo
	default:
		return ""
	}
}

// ClearNowPlaying drops everything tied to the tuned audio stream. It is
// used when switching streams within the same station.
func (s *State) ClearNowPlaying() {
	s.Title = ""
	s.Artist = ""
	s.Album = ""
	s.Genre = ""
	s.Cover = ""
	s.Logo = ""
	s.Bitrate = 0
	s.XHDRTag = ""
	s.XHDRLot = ""
}

// StreamName returns the name of the audio stream at slot, or "".
func (s *State) StreamName(slot int) string {
	return at(s.Streams, slot)
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s *State) Clone() State {
	if s == nil {
		return State{}
	}
	dup := *s
	dup.Streams = slices.Clone(s.Streams)
	dup.Programs = slices.Clone(s.Programs)
	dup.Services = slices.Clone(s.Services)
	dup.SvcTypes = slices.Clone(s.SvcTypes)
	if s.Location != nil {
		loc := *s.Location
		dup.Location = &loc
	}
	return dup
}

func at(list []string, i int) string {
	if i < 0 || i >= len(list) {
		return ""
	}
	return list[i]
}

// setAt stores value at index i, growing list as needed.
func setAt(list []string, i int, value string) []string {
	for len(list) <= i {
		list = append(list, "")
	}
	list[i] = value
	return list
}
