package nrsc5

import (
	"time"

	"github.com/five82/hdmon/internal/geo"
)

// Event is the result of classifying one line.
type Event interface {
	event()
}

type (
	StationName struct{ Name string }
	Slogan      struct{ Text string }
	Message     struct{ Text string }
	Alert       struct{ Text string }

	StationLocation struct {
		Lat      float64
		Lon      float64
		Altitude int
	}

	Title  struct{ Text string }
	Artist struct{ Text string }
	Album  struct{ Text string }
	Genre  struct{ Text string }

	Bitrate struct{ Kbps float64 }
	MER     struct{ Lower, Upper float64 }
	BER     struct{ Current, Avg, Min, Max float64 }
	Gain    struct{ DB float64 }

	// StreamDeclared is a "SIG Service" line.
	StreamDeclared struct {
		Type   string
		Number int
		Name   string
	}

	DataComponent struct {
		ID              int
		Port            uint16
		ServiceDataType int
	}

	AudioComponent struct {
		ID          int
		Port        uint16
		ProgramType int
	}

	// XHDR correlates the playing content with a LOT.
	XHDR struct {
		Tag   string
		Lot   string
		Extra string
	}

	FileID struct{ ID string }

	Synchronized     struct{}
	LostSync         struct{}
	LostDevice       struct{}
	OpenDeviceFailed struct{}
)

// LotFile announces a file nrsc5 wrote to the AAS directory. The file on
// disk is named "<Lot>_<Name>".
type LotFile struct {
	Port uint16
	Lot  string
	Name string
	Size int64
	Mime string
}

// FileName returns the name of the dumped file inside the AAS directory.
func (l LotFile) FileName() string {
	return l.Lot + "_" + l.Name
}

// ImageKind distinguishes the two map image families.
type ImageKind string

const (
	ImageWeather ImageKind = "weather"
	ImageTraffic ImageKind = "traffic"
)

// ImageAnnounced is the newer image announcement carrying bounds and time
// directly instead of relying on a LOT naming convention.
type ImageAnnounced struct {
	Kind   ImageKind
	Name   string
	Box    geo.BoundingBox
	HasBox bool
	Time   time.Time
}

func (StationName) event()      {}
func (StationLocation) event()  {}
func (Slogan) event()           {}
func (Message) event()          {}
func (Alert) event()            {}
func (Title) event()            {}
func (Artist) event()           {}
func (Album) event()            {}
func (Genre) event()            {}
func (Bitrate) event()          {}
func (MER) event()              {}
func (BER) event()              {}
func (Gain) event()             {}
func (StreamDeclared) event()   {}
func (DataComponent) event()    {}
func (AudioComponent) event()   {}
func (LotFile) event()          {}
func (ImageAnnounced) event()   {}
func (XHDR) event()             {}
func (FileID) event()           {}
func (Synchronized) event()     {}
func (LostSync) event()         {}
func (LostDevice) event()       {}
func (OpenDeviceFailed) event() {}
