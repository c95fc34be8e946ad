package station

// StreamType is the type announced by a SIG Service line.
type StreamType string

const (
	StreamAudio StreamType = "audio"
	StreamData  StreamType = "data"
)

// Role is the conventional meaning of an audio slot's data port.
type Role int

const (
	RoleNone Role = iota
	RoleCover
	RoleLogo
)

func (r Role) String() string {
	switch r {
	case RoleCover:
		return "cover"
	case RoleLogo:
		return "logo"
	default:
		return "none"
	}
}

// Resolver correlates stream declarations with the component lines that
// follow them and owns the per-slot port table.
type Resolver struct {
	current     StreamType
	slot        int // current audio slot, -1 before the first declaration
	numServices int
	ports       [][]uint16
}

// NewResolver returns an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{slot: -1}
}

// Reset clears the port table and the declaration pointer.
func (r *Resolver) Reset() {
	*r = Resolver{slot: -1}
}

// Declare handles a "SIG Service" line.
// A declaration that cannot be recorded leaves no current stream, so the
// component lines after it are ignored.
func (r *Resolver) Declare(st *State, typ StreamType, number int, name string) {
	r.current = ""
	switch typ {
	case StreamAudio:
		if number < 1 || number > MaxStreams {
			return
		}
		r.current = typ
		r.slot = number - 1
		for len(r.ports) < number {
			r.ports = append(r.ports, nil)
		}
		st.Streams = setAt(st.Streams, r.slot, name)
	case StreamData:
		if r.numServices >= MaxStreams {
			return
		}
		r.current = typ
		st.Services = setAt(st.Services, r.numServices, name)
		r.numServices++
	}
}

// DataComponent handles a "Data component" line. For audio streams the port
// is appended to the current slot; for data services the service type of
// component 0 names the most recent service.
func (r *Resolver) DataComponent(st *State, id int, port uint16, serviceDataType int) {
	switch r.current {
	case StreamAudio:
		if r.slot < 0 {
			return
		}
		r.ports[r.slot] = append(r.ports[r.slot], port)
	case StreamData:
		if id != 0 || r.numServices == 0 {
			return
		}
		if name, ok := ServiceDataTypeName(serviceDataType); ok {
			st.SvcTypes = setAt(st.SvcTypes, r.numServices-1, name)
		}
	}
}

// AudioComponent handles an "Audio component" line. Only component 0
// carries the program type of the slot; audio ports are not LOT ports and
// are not recorded.
func (r *Resolver) AudioComponent(st *State, id int, programType int) {
	if r.current != StreamAudio || id != 0 || r.slot < 0 {
		return
	}
	if name, ok := ProgramTypeName(programType); ok {
		st.Programs = setAt(st.Programs, r.slot, name)
	}
}

// Lookup finds the slot whose cover (position 0) or logo (position 1) port
// is port.
func (r *Resolver) Lookup(port uint16) (int, Role, bool) {
	for slot, ports := range r.ports {
		for pos, p := range ports {
			if pos > 1 {
				break
			}
			if p != port {
				continue
			}
			if pos == 0 {
				return slot, RoleCover, true
			}
			return slot, RoleLogo, true
		}
	}
	return -1, RoleNone, false
}

// Ports returns a copy of the ports recorded for slot.
func (r *Resolver) Ports(slot int) []uint16 {
	if slot < 0 || slot >= len(r.ports) {
		return nil
	}
	return append([]uint16(nil), r.ports[slot]...)
}

// NumServices returns how many data services have been declared.
func (r *Resolver) NumServices() int {
	return r.numServices
}
