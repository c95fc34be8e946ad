package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/hdmon/internal/prefs"
)

const labelWidth = 10

// renderMain renders the header, the panels and the key footer.
func (m Model) renderMain() string {
	styles := m.theme.Styles()

	left := []string{
		m.panel(styles, "Station", m.stationLines(styles)),
		m.panel(styles, "Now Playing", m.nowPlayingLines(styles)),
	}
	right := []string{
		m.panel(styles, "Signal", m.signalLines(styles)),
		m.panel(styles, "Streams", m.streamLines(styles)),
		m.panel(styles, m.mapTitle(), m.mapLines(styles)),
	}

	var body string
	if m.width >= 100 {
		half := m.width / 2
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(half).Render(lipgloss.JoinVertical(lipgloss.Left, left...)),
			lipgloss.NewStyle().Width(m.width-half).Render(lipgloss.JoinVertical(lipgloss.Left, right...)),
		)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, append(left, right...)...)
	}

	footer := styles.Footer.Width(m.width).Render(m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, footer)
}

func (m Model) panel(styles Styles, title string, lines []string) string {
	content := styles.PanelTitle.Render(title) + "\n" + strings.Join(lines, "\n")
	return styles.Panel.Render(content)
}

func row(styles Styles, label, value string) string {
	return styles.MutedText.Width(labelWidth).Render(label) + styles.Text.Render(value)
}

func (m Model) stationLines(styles Styles) []string {
	if !m.snapshot.HasStation {
		return []string{styles.FaintText.Render("No session")}
	}
	st := m.snapshot.Station
	lines := []string{
		row(styles, "Frequency", orDash(st.StationKey)),
		row(styles, "Callsign", orDash(st.Callsign)),
		row(styles, "Slogan", orDash(st.Slogan)),
		row(styles, "Message", orDash(truncate(st.Message, 60))),
	}
	if st.Alert != "" {
		lines = append(lines, styles.MutedText.Width(labelWidth).Render("Alert")+styles.DangerText.Render(truncate(st.Alert, 60)))
	}
	if st.Location != nil {
		lines = append(lines, row(styles, "Location",
			fmt.Sprintf("%.4f, %.4f (%d m)", st.Location.Lat, st.Location.Lon, st.Location.Altitude)))
	}
	return lines
}

func (m Model) nowPlayingLines(styles Styles) []string {
	if !m.snapshot.HasStation {
		return []string{styles.FaintText.Render("-")}
	}
	st := m.snapshot.Station
	return []string{
		row(styles, "Title", orDash(st.Title)),
		row(styles, "Artist", orDash(st.Artist)),
		row(styles, "Album", orDash(st.Album)),
		row(styles, "Genre", orDash(st.Genre)),
		row(styles, "Artwork", orDash(st.Artwork())),
	}
}

func (m Model) signalLines(styles Styles) []string {
	if !m.snapshot.HasStation {
		return []string{styles.FaintText.Render("-")}
	}
	st := m.snapshot.Station
	return []string{
		styles.MutedText.Width(labelWidth).Render("Receiver") + styles.SyncStyle(st.Sync).Render(st.Sync.String()),
		row(styles, "Bitrate", fmt.Sprintf("%.1f kbps", st.Bitrate)),
		row(styles, "MER", fmt.Sprintf("%.1f dB lower, %.1f dB upper", st.MER[0], st.MER[1])),
		styles.MutedText.Width(labelWidth).Render("BER") + berStyle(styles, st.BER[0]).Render(formatBER(st.BER[0])) +
			styles.FaintText.Render(fmt.Sprintf("  avg %s  min %s  max %s", formatBER(st.BER[1]), formatBER(st.BER[2]), formatBER(st.BER[3]))),
		row(styles, "Gain", fmt.Sprintf("%.1f dB", st.Gain)),
	}
}

func (m Model) streamLines(styles Styles) []string {
	st := m.snapshot.Station
	if !m.snapshot.HasStation || (len(st.Streams) == 0 && len(st.Services) == 0) {
		return []string{styles.FaintText.Render("No streams announced")}
	}
	var lines []string
	for i, name := range st.Streams {
		marker := "  "
		style := styles.Text
		if i == st.Slot {
			marker = "> "
			style = styles.AccentText.Bold(true)
		}
		program := ""
		if i < len(st.Programs) && st.Programs[i] != "" {
			program = styles.FaintText.Render("  " + st.Programs[i])
		}
		lines = append(lines, style.Render(fmt.Sprintf("%sHD%d %s", marker, i+1, orDash(name)))+program)
	}
	for i, name := range st.Services {
		kind := ""
		if i < len(st.SvcTypes) && st.SvcTypes[i] != "" {
			kind = styles.FaintText.Render("  " + st.SvcTypes[i])
		}
		lines = append(lines, styles.InfoText.Render("  data "+orDash(name))+kind)
	}
	return lines
}

func (m Model) mapTitle() string {
	if m.mapMode == prefs.MapWeather {
		return "Weather Map"
	}
	return "Traffic Map"
}

func (m Model) mapLines(styles Styles) []string {
	if m.mapMode == prefs.MapWeather {
		return m.weatherLines(styles)
	}
	return m.trafficLines(styles)
}

func (m Model) trafficLines(styles Styles) []string {
	ms := m.snapshot.Maps
	var lines []string
	for r := range ms.Tiles {
		cells := make([]string, 0, len(ms.Tiles[r]))
		for _, ts := range ms.Tiles[r] {
			style := styles.FaintText
			if ts > 0 {
				style = styles.SuccessText
			}
			cells = append(cells, style.Render(formatClock(ts)))
		}
		lines = append(lines, "  "+strings.Join(cells, " "))
	}
	status := styles.WarningText.Render("assembling")
	if ms.Complete {
		status = styles.SuccessText.Render("complete " + formatClock(ms.Tiles[0][0]))
	}
	lines = append(lines,
		row(styles, "Status", "")+status,
		row(styles, "Updates", fmt.Sprintf("%d", m.snapshot.TrafficUpdates)),
	)
	return lines
}

func (m Model) weatherLines(styles Styles) []string {
	ms := m.snapshot.Maps
	if ms.WeatherID == "" {
		return []string{styles.FaintText.Render("Waiting for radar metadata")}
	}
	box := ms.WeatherBox
	lines := []string{
		row(styles, "Area", ms.WeatherID),
		row(styles, "Bounds", fmt.Sprintf("%.3f,%.3f / %.3f,%.3f", box.Lat1, box.Lon1, box.Lat2, box.Lon2)),
		row(styles, "Overlay", formatClock(ms.WeatherTime)),
		row(styles, "Current", orDash(baseName(ms.WeatherNow))),
	}
	recent := m.snapshot.Recent
	history := fmt.Sprintf("%d", len(recent))
	if len(recent) > 0 {
		history += fmt.Sprintf(" (%s to %s)", formatClock(recent[0].Time), formatClock(recent[len(recent)-1].Time))
	}
	lines = append(lines,
		row(styles, "History", history),
		row(styles, "Updates", fmt.Sprintf("%d", m.snapshot.WeatherUpdates)),
	)
	return lines
}
