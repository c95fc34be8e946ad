// Package radio drives the decoding pipeline for one receiver: it reads
// nrsc5 diagnostic lines, applies them to the station state, routes
// announced files and publishes snapshots for the UI.
package radio

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/five82/hdmon/internal/aas"
	"github.com/five82/hdmon/internal/maps"
	"github.com/five82/hdmon/internal/nrsc5"
	"github.com/five82/hdmon/internal/state"
	"github.com/five82/hdmon/internal/station"
)

// LogoSource looks up remembered station logos.
type LogoSource interface {
	Logo(station string, slot int) string
}

// LineRecorder receives every raw line before it is classified.
type LineRecorder interface {
	Record(line string) error
}

// Options configures a Session.
type Options struct {
	Protocol nrsc5.Protocol
	Router   *aas.Router
	// Maps supplies the map state published with each snapshot. May be nil.
	Maps     *maps.Maps
	Logos    LogoSource
	Store    *state.Store
	Recorder LineRecorder
	// StopPlayback is called when nrsc5 reports that the device could not
	// be opened.
	StopPlayback func()
	Logger       *slog.Logger

	// Station and Slot select the session started by NewSession.
	Station string
	Slot    int
}

// Session is the single writer of station state. Its methods must be
// called from one goroutine; Run provides that goroutine.
type Session struct {
	classifier *nrsc5.Classifier
	router     *aas.Router
	maps       *maps.Maps
	logos      LogoSource
	store      *state.Store
	recorder   LineRecorder
	stop       func()
	log        *slog.Logger

	st  *station.State
	res *station.Resolver

	// lastStation and lastSlot survive Stop so a restart can resume.
	lastStation string
	lastSlot    int
}

// NewSession returns a session already started on opts.Station and opts.Slot.
func NewSession(opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Session{
		classifier: nrsc5.NewClassifier(opts.Protocol),
		router:     opts.Router,
		maps:       opts.Maps,
		logos:      opts.Logos,
		store:      opts.Store,
		recorder:   opts.Recorder,
		stop:       opts.StopPlayback,
		log:        log.With("component", "radio"),
		res:        station.NewResolver(),
	}
	s.Start(opts.Station, opts.Slot)
	return s
}

// Start begins a fresh tune session. Station state and the port table are
// reset; map state is kept.
func (s *Session) Start(stationKey string, slot int) {
	if slot < 0 || slot >= station.MaxStreams {
		slot = 0
	}
	s.lastStation, s.lastSlot = stationKey, slot
	s.st = station.New(uuid.NewString(), stationKey, slot)
	s.res.Reset()
	s.st.Logo = s.rememberedLogo(slot)
	s.log.Info("tune session started", "session", s.st.SessionID, "station", stationKey, "stream", slot+1)
	s.publish()
}

// Stop ends the tune session. Lines received until the next Start are
// recorded but not applied.
func (s *Session) Stop() {
	if s.st != nil {
		s.log.Info("tune session stopped", "session", s.st.SessionID)
	}
	s.st = nil
	s.res.Reset()
	s.publish()
}

// SwitchStream selects another audio stream of the current station.
func (s *Session) SwitchStream(slot int) {
	if s.st == nil || slot < 0 || slot >= station.MaxStreams || slot == s.st.Slot {
		return
	}
	s.st.ClearNowPlaying()
	s.st.Slot = slot
	s.lastSlot = slot
	s.st.Logo = s.rememberedLogo(slot)
	s.log.Info("stream switched", "session", s.st.SessionID, "stream", slot+1, "name", s.st.StreamName(slot))
	s.publish()
}

func (s *Session) rememberedLogo(slot int) string {
	if s.logos == nil || s.st == nil {
		return ""
	}
	return s.logos.Logo(s.st.StationKey, slot)
}

// State returns a copy of the current station state and whether a session
// is active.
func (s *Session) State() (station.State, bool) {
	return s.st.Clone(), s.st != nil
}

// Ports returns the ports recorded for slot in the current session.
func (s *Session) Ports(slot int) []uint16 {
	return s.res.Ports(slot)
}

// HandleLine applies one diagnostic line. Unrecognised lines are ignored.
// The only error returned is one wrapping maps.ErrCacheDir.
func (s *Session) HandleLine(line string) error {
	if s.recorder != nil {
		if err := s.recorder.Record(line); err != nil {
			s.log.Warn("record line failed", "error", err)
		}
	}
	ev := s.classifier.Classify(line)
	if ev == nil || s.st == nil {
		return nil
	}
	err := s.apply(ev)
	s.publish()
	return err
}

func (s *Session) apply(ev nrsc5.Event) error {
	st := s.st
	switch e := ev.(type) {
	case nrsc5.StationName:
		st.Callsign = e.Name
	case nrsc5.StationLocation:
		st.Location = &station.Location{Lat: e.Lat, Lon: e.Lon, Altitude: e.Altitude}
	case nrsc5.Slogan:
		st.Slogan = e.Text
	case nrsc5.Message:
		st.Message = e.Text
	case nrsc5.Alert:
		st.Alert = e.Text
		s.log.Warn("station alert", "session", st.SessionID, "text", e.Text)
	case nrsc5.Title:
		st.Title = e.Text
	case nrsc5.Artist:
		st.Artist = e.Text
	case nrsc5.Album:
		st.Album = e.Text
	case nrsc5.Genre:
		st.Genre = e.Text
	case nrsc5.Bitrate:
		st.Bitrate = e.Kbps
	case nrsc5.MER:
		st.MER = [2]float64{e.Lower, e.Upper}
	case nrsc5.BER:
		st.BER = [4]float64{e.Current, e.Avg, e.Min, e.Max}
	case nrsc5.Gain:
		st.Gain = e.DB
	case nrsc5.StreamDeclared:
		s.res.Declare(st, station.StreamType(e.Type), e.Number, e.Name)
	case nrsc5.DataComponent:
		s.res.DataComponent(st, e.ID, e.Port, e.ServiceDataType)
	case nrsc5.AudioComponent:
		s.res.AudioComponent(st, e.ID, e.ProgramType)
	case nrsc5.XHDR:
		if e.Tag != st.XHDRTag || e.Lot != st.XHDRLot {
			s.log.Debug("xhdr changed", "tag", e.Tag, "lot", e.Lot)
		}
		st.XHDRTag = e.Tag
		st.XHDRLot = e.Lot
	case nrsc5.FileID:
		st.FileID = e.ID
	case nrsc5.Synchronized:
		s.setSync(station.Synced)
	case nrsc5.LostSync:
		s.setSync(station.Unsynced)
	case nrsc5.LostDevice:
		s.setSync(station.LostDevice)
	case nrsc5.OpenDeviceFailed:
		s.setSync(station.NoDevice)
		if s.stop != nil {
			s.stop()
		}
	case nrsc5.LotFile:
		if s.router == nil {
			return nil
		}
		if err := s.router.Route(e, st, s.res); err != nil {
			return fmt.Errorf("route %s: %w", e.FileName(), err)
		}
	case nrsc5.ImageAnnounced:
		if s.router == nil {
			return nil
		}
		if err := s.router.RouteImage(e); err != nil {
			return fmt.Errorf("route %s: %w", e.Name, err)
		}
	}
	return nil
}

func (s *Session) setSync(sync station.Sync) {
	if s.st.Sync == sync {
		return
	}
	s.log.Info("sync state", "session", s.st.SessionID, "from", s.st.Sync.String(), "to", sync.String())
	s.st.Sync = sync
}

func (s *Session) publish() {
	if s.store == nil {
		return
	}
	var (
		ms     maps.State
		recent []maps.WeatherMap
	)
	if s.maps != nil {
		ms = s.maps.State()
		recent = s.maps.Recent()
	}
	s.store.Publish(s.st, ms, recent)
}
