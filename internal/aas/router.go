// Package aas routes files nrsc5 dumps to its AAS directory: album covers
// and station logos go to the station state, map fragments to the map
// compositor.
package aas

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/five82/hdmon/internal/geo"
	"github.com/five82/hdmon/internal/maps"
	"github.com/five82/hdmon/internal/nrsc5"
	"github.com/five82/hdmon/internal/station"
)

// LogoRegistry remembers the logo file of each station stream.
type LogoRegistry interface {
	SetLogo(station string, slot int, file string)
}

// Maps receives map fragments. *maps.Maps implements it.
type Maps interface {
	AddTrafficTile(src string, row, col int, t time.Time) error
	AddWeatherOverlay(src, id string, t time.Time, label bool) error
	AddWeatherInfo(path string) error
	SetWeatherArea(id string, box geo.BoundingBox) error
}

// Options configures a Router.
type Options struct {
	Dir           string
	IncludeCovers bool
	Logos         LogoRegistry
	// Maps may be nil, in which case map fragments are ignored.
	Maps   Maps
	Logger *slog.Logger
}

// Router dispatches AAS files.
type Router struct {
	dir           string
	includeCovers bool
	logos         LogoRegistry
	maps          Maps
	log           *slog.Logger
}

// NewRouter returns a Router for files under opts.Dir.
func NewRouter(opts Options) *Router {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Router{
		dir:           opts.Dir,
		includeCovers: opts.IncludeCovers,
		logos:         opts.Logos,
		maps:          opts.Maps,
		log:           log.With("component", "aas"),
	}
}

// Route handles a LOT announcement. Ports registered for a stream decide
// between cover and logo; anything else is classified by the name prefix
// that follows the lot number. Only maps.ErrCacheDir is returned.
func (r *Router) Route(lot nrsc5.LotFile, st *station.State, res *station.Resolver) error {
	name := lot.FileName()
	path := filepath.Join(r.dir, name)

	info, err := os.Stat(path)
	if err != nil {
		r.log.Warn("announced file missing", "file", name, "port", lot.Port)
		return nil
	}
	if info.Size() != lot.Size {
		r.log.Warn("file size mismatch", "file", name, "expected", lot.Size, "actual", info.Size())
	}

	if slot, role, ok := res.Lookup(lot.Port); ok {
		r.assign(st, slot, role, name)
		return nil
	}

	if r.maps == nil {
		r.log.Debug("unrouted file", "file", name, "port", lot.Port)
		return nil
	}
	switch {
	case strings.HasPrefix(lot.Name, "DWRO_"):
		ov, ok := maps.ParseWeatherOverlay(name)
		if !ok {
			r.log.Debug("unrecognised weather overlay", "file", name)
			return nil
		}
		return r.maps.AddWeatherOverlay(path, ov.ID, ov.Time, true)
	case strings.HasPrefix(lot.Name, "TMT_"):
		tile, ok := maps.ParseTrafficTile(name)
		if !ok {
			r.log.Debug("unrecognised traffic tile", "file", name)
			return nil
		}
		return r.maps.AddTrafficTile(path, tile.Row, tile.Col, tile.Time)
	case strings.HasPrefix(lot.Name, "DWRI_"):
		return r.maps.AddWeatherInfo(path)
	default:
		r.log.Debug("unrouted file", "file", name, "port", lot.Port)
		return nil
	}
}

func (r *Router) assign(st *station.State, slot int, role station.Role, name string) {
	switch role {
	case station.RoleCover:
		if slot != st.Slot {
			return
		}
		if !r.includeCovers {
			r.log.Debug("album cover ignored", "file", name)
			return
		}
		st.Cover = name
		r.log.Debug("album cover", "file", name)
	case station.RoleLogo:
		if r.logos != nil {
			r.logos.SetLogo(st.StationKey, slot, name)
		}
		if slot == st.Slot {
			st.Logo = name
		}
		r.log.Debug("station logo", "file", name, "slot", slot)
	}
}

// RouteImage handles an image announcement. Weather images carrying bounds
// update the current area first and are composited without a label.
func (r *Router) RouteImage(img nrsc5.ImageAnnounced) error {
	if r.maps == nil {
		return nil
	}
	path := filepath.Join(r.dir, img.Name)
	if _, err := os.Stat(path); err != nil {
		r.log.Warn("announced image missing", "file", img.Name)
		return nil
	}

	switch img.Kind {
	case nrsc5.ImageWeather:
		id, ok := maps.ParseWeatherImage(img.Name)
		if !ok {
			r.log.Debug("unrecognised weather image", "file", img.Name)
			return nil
		}
		if img.HasBox {
			if err := r.maps.SetWeatherArea(id, img.Box); err != nil {
				return err
			}
		}
		return r.maps.AddWeatherOverlay(path, id, img.Time, false)
	case nrsc5.ImageTraffic:
		row, col, ok := maps.ParseTrafficImage(img.Name)
		if !ok {
			r.log.Debug("unrecognised traffic image", "file", img.Name)
			return nil
		}
		return r.maps.AddTrafficTile(path, row, col, img.Time)
	}
	return nil
}
