package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/hdmon/internal/station"
)

const logo = "hdmon"

// renderHeader renders the status bar: station, stream, receiver state and
// the last producer error.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(m.buildStatusContent(styles, bg))
}

func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < 100
	snap := m.snapshot
	st := snap.Station

	parts := []string{bg.Render(logo, styles.Logo)}

	if !snap.HasStation {
		parts = append(parts, bg.Render("Idle", styles.WarningText.Bold(true)))
	} else {
		parts = append(parts, styles.SyncStyle(st.Sync).Render(st.Sync.String()))

		name := st.StationKey
		if st.Callsign != "" {
			name = st.Callsign + " " + st.StationKey
		}
		if name != "" {
			parts = append(parts, bg.Render(name, styles.Text.Bold(true)))
		}
		stream := fmt.Sprintf("HD%d", st.Slot+1)
		if n := st.StreamName(st.Slot); n != "" && !compact {
			stream += " " + n
		}
		parts = append(parts, bg.Render(stream, styles.AccentText))

		if st.Bitrate > 0 {
			parts = append(parts, bg.Field("Rate:", fmt.Sprintf("%.1f kbps", st.Bitrate), styles.MutedText, styles.Text))
		}
		if !compact && st.Sync == station.Synced {
			parts = append(parts, bg.Field("BER:", formatBER(st.BER[0]), styles.MutedText, berStyle(styles, st.BER[0])))
		}
	}

	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if snap.LastError != nil {
		maxErr := 80
		if compact {
			maxErr = 40
		}
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(snap.LastError.Error(), maxErr), styles.DangerText),
		)
	}

	return bg.Join(parts, "  ")
}

// formatTimestamp formats the last store update with a relative indicator.
func (m Model) formatTimestamp() string {
	last := m.snapshot.LastUpdated
	if last.IsZero() {
		return ""
	}

	since := time.Since(last)
	out := last.Format("15:04:05")
	switch {
	case since < time.Minute:
		out += " (now)"
	case since < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		out += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return out
}
