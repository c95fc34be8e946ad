package nrsc5

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/five82/hdmon/internal/geo"
)

// Protocol selects the line prefix nrsc5 uses.
type Protocol int

const (
	ProtocolCurrent Protocol = iota
	ProtocolLegacy
)

func (p Protocol) String() string {
	if p == ProtocolLegacy {
		return "legacy"
	}
	return "current"
}

// ParseProtocol maps a config value to a Protocol. Empty means current.
func ParseProtocol(value string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "current":
		return ProtocolCurrent, nil
	case "legacy":
		return ProtocolLegacy, nil
	default:
		return ProtocolCurrent, fmt.Errorf("unknown protocol %q", value)
	}
}

const (
	clockPrefix  = `^[0-9:]{8} `
	legacyPrefix = `^.*main\.c:\d+: `
	gainPrefix   = `^(?:[0-9:]{8} |.*nrsc5\.c:\d+: )?`
	num          = `(-?\d+(?:\.\d+)?)`
)

type rule struct {
	name  string
	re    *regexp.Regexp
	build func(m []string) Event
}

// Classifier turns raw lines into events. It is immutable after
// construction and safe for concurrent use.
type Classifier struct {
	protocol Protocol
	rules    []rule
}

// NewClassifier builds the rule table for protocol.
func NewClassifier(protocol Protocol) *Classifier {
	prefix := clockPrefix
	if protocol == ProtocolLegacy {
		prefix = legacyPrefix
	}
	line := func(body string) *regexp.Regexp {
		return regexp.MustCompile(prefix + body + `$`)
	}

	rules := []rule{
		{"title", line(`Title: ?(.*)`), func(m []string) Event { return Title{m[1]} }},
		{"artist", line(`Artist: ?(.*)`), func(m []string) Event { return Artist{m[1]} }},
		{"album", line(`Album: ?(.*)`), func(m []string) Event { return Album{m[1]} }},
		{"genre", line(`Genre: ?(.*)`), func(m []string) Event { return Genre{m[1]} }},
		{"bitrate", line(`Audio bit rate: ` + num + ` kbps`), func(m []string) Event {
			return Bitrate{parseFloat(m[1])}
		}},
		{"mer", line(`MER: ` + num + ` dB \(lower\), ` + num + ` dB \(upper\)`), func(m []string) Event {
			return MER{Lower: parseFloat(m[1]), Upper: parseFloat(m[2])}
		}},
		{"ber", line(`BER: ` + num + `, avg: ` + num + `, min: ` + num + `, max: ` + num), func(m []string) Event {
			return BER{Current: parseFloat(m[1]), Avg: parseFloat(m[2]), Min: parseFloat(m[3]), Max: parseFloat(m[4])}
		}},
		{"xhdr", line(`XHDR: (.*?) ?([0-9A-Fa-f]{8})(?: (.*))?`), func(m []string) Event {
			return XHDR{Tag: m[1], Lot: m[2], Extra: m[3]}
		}},
	}
	if protocol == ProtocolCurrent {
		rules = append(rules, rule{"image", line(`Image: type=(weather|traffic) name=(\S+)(.*)`), buildImage})
	}
	rules = append(rules, []rule{
		{"lot", line(`LOT file: port=([0-9A-Fa-f]+) lot=(\d+) name=(.*\.(?:jpg|jpeg|png|txt)) size=(\d+) mime=(\w+)(?: .*)?`), buildLot},
		{"station", line(`Station name: ?(.*)`), func(m []string) Event { return StationName{m[1]} }},
		{"location", line(`Station location: ` + num + ` ` + num + `, (\d+)m`), func(m []string) Event {
			return StationLocation{Lat: parseFloat(m[1]), Lon: parseFloat(m[2]), Altitude: parseInt(m[3])}
		}},
		{"slogan", line(`Slogan: ?(.*)`), func(m []string) Event { return Slogan{m[1]} }},
		{"message", line(`Message: ?(.*)`), func(m []string) Event { return Message{m[1]} }},
		{"alert", line(`Alert: ?(.*)`), func(m []string) Event { return Alert{m[1]} }},
		{"gain", regexp.MustCompile(gainPrefix + `Best gain: ` + num + ` dB.*$`), func(m []string) Event {
			return Gain{parseFloat(m[1]) / 10}
		}},
		{"fileid", line(`Unique file identifier: PPC;07; (\S+).*`), func(m []string) Event { return FileID{m[1]} }},
		{"service", line(`SIG Service: type=(\S+) number=(\d+) name=(.*)`), func(m []string) Event {
			return StreamDeclared{Type: m[1], Number: parseInt(m[2]), Name: m[3]}
		}},
		{"data", line(`.*Data component:.* id=(\d+).* port=([0-9A-Fa-f]+).* service_data_type=(\d+)(?:\s.*)?`), func(m []string) Event {
			return DataComponent{ID: parseInt(m[1]), Port: parsePort(m[2]), ServiceDataType: parseInt(m[3])}
		}},
		{"audio", line(`.*Audio component:.* id=(\d+).* port=([0-9A-Fa-f]+).* type=(\d+)(?:\s.*)?`), func(m []string) Event {
			return AudioComponent{ID: parseInt(m[1]), Port: parsePort(m[2]), ProgramType: parseInt(m[3])}
		}},
		{"synced", line(`Synchronized`), func([]string) Event { return Synchronized{} }},
		{"lostsync", line(`Lost synchronization`), func([]string) Event { return LostSync{} }},
		{"lostdevice", line(`Lost device`), func([]string) Event { return LostDevice{} }},
		{"opendevice", line(`Open device failed\.?`), func([]string) Event { return OpenDeviceFailed{} }},
	}...)

	return &Classifier{protocol: protocol, rules: rules}
}

// Protocol returns the protocol the classifier was built for.
func (c *Classifier) Protocol() Protocol {
	return c.protocol
}

// Classify returns the event for line, or nil when no rule matches.
func (c *Classifier) Classify(line string) Event {
	line = strings.TrimRight(line, " \t\r\n")
	if line == "" {
		return nil
	}
	for _, r := range c.rules {
		m := r.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if ev := r.build(m); ev != nil {
			return ev
		}
	}
	return nil
}

func buildLot(m []string) Event {
	size, _ := strconv.ParseInt(m[4], 10, 64)
	return LotFile{Port: parsePort(m[1]), Lot: m[2], Name: m[3], Size: size, Mime: m[5]}
}

// parseImageTime accepts an ISO-8601 timestamp with or without a zone.
// A timestamp without a zone is UTC.
func parseImageTime(value string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

// buildImage parses the key=value tail of an image announcement. Bounds are
// optional; a missing or unparsable time rejects the line.
func buildImage(m []string) Event {
	ev := ImageAnnounced{Kind: ImageKind(m[1]), Name: m[2]}
	fields := map[string]string{}
	for _, tok := range strings.Fields(m[3]) {
		if k, v, ok := strings.Cut(tok, "="); ok {
			fields[k] = v
		}
	}
	ts, ok := parseImageTime(fields["time"])
	if !ok {
		return nil
	}
	ev.Time = ts

	var box [4]float64
	complete := true
	for i, key := range []string{"lat1", "lon1", "lat2", "lon2"} {
		v, err := strconv.ParseFloat(fields[key], 64)
		if err != nil {
			complete = false
			break
		}
		box[i] = v
	}
	if complete {
		ev.Box = geo.BoundingBox{Lat1: box[0], Lon1: box[1], Lat2: box[2], Lon2: box[3]}
		ev.HasBox = true
	}
	return ev
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func parsePort(s string) uint16 {
	v, _ := strconv.ParseUint(s, 16, 16)
	return uint16(v)
}
