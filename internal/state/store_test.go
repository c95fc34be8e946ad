package state

import (
	"errors"
	"testing"
	"time"

	"github.com/five82/hdmon/internal/maps"
	"github.com/five82/hdmon/internal/station"
)

func TestStore_PublishAndSnapshotClone(t *testing.T) {
	var s Store

	st := station.New("sess", "90.5", 0)
	st.Callsign = "KXYZ"
	st.Streams = []string{"MPS", "SPS1"}
	st.Sync = station.Synced
	ms := maps.State{WeatherID: "abc", Complete: true}
	recent := []maps.WeatherMap{{ID: "abc", Time: 1, Path: "/a"}}

	before := time.Now()
	s.Publish(st, ms, recent)

	snap := s.Snapshot()
	if !snap.HasStation || snap.Station.Callsign != "KXYZ" {
		t.Fatalf("snapshot station = %#v, want KXYZ", snap.Station)
	}
	if !snap.IsSynced() {
		t.Fatal("IsSynced() = false, want true")
	}
	if snap.Maps != ms {
		t.Fatalf("snapshot maps = %#v, want %#v", snap.Maps, ms)
	}
	if snap.Version != 1 {
		t.Fatalf("Version = %d, want 1", snap.Version)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	// The publisher keeps mutating its state; the store must not see it.
	st.Streams[0] = "changed"
	recent[0].Path = "/changed"
	snap.Station.Streams[1] = "mutated"

	snap2 := s.Snapshot()
	if snap2.Station.Streams[0] != "MPS" || snap2.Station.Streams[1] != "SPS1" {
		t.Fatalf("streams = %v, want [MPS SPS1]", snap2.Station.Streams)
	}
	if snap2.Recent[0].Path != "/a" {
		t.Fatalf("recent path = %q, want /a", snap2.Recent[0].Path)
	}
}

func TestStore_MapUpdatedCounters(t *testing.T) {
	var s Store

	s.MapUpdated(maps.KindTraffic)
	s.MapUpdated(maps.KindWeather)
	s.MapUpdated(maps.KindWeather)

	snap := s.Snapshot()
	if snap.TrafficUpdates != 1 || snap.WeatherUpdates != 2 {
		t.Fatalf("updates = %d/%d, want 1/2", snap.TrafficUpdates, snap.WeatherUpdates)
	}
	if snap.Version != 3 {
		t.Fatalf("Version = %d, want 3", snap.Version)
	}
}

func TestStore_FailKeepsPreviousData(t *testing.T) {
	var s Store

	st := station.New("sess", "90.5", 0)
	st.Callsign = "KXYZ"
	s.Publish(st, maps.State{}, nil)

	origErr := errors.New("boom")
	s.Fail(origErr)

	snap := s.Snapshot()
	if snap.Station.Callsign != "KXYZ" {
		t.Fatalf("station changed on error: %#v", snap.Station)
	}
	if snap.LastError != origErr {
		t.Fatalf("LastError = %v, want the error passed to Fail", snap.LastError)
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("errors.Is(LastError, boom) = false")
	}
}

func TestStore_ZeroValue(t *testing.T) {
	var s Store
	snap := s.Snapshot()
	if snap.HasStation || snap.Version != 0 || snap.IsSynced() {
		t.Fatalf("zero snapshot = %#v", snap)
	}
}
