package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/recette/internal/datekey"
)

// Timeframe indexes the picker's presets.
type Timeframe int

const (
	TimeframeToday Timeframe = iota
	TimeframeYesterday
	TimeframeThisWeek
	TimeframeLastWeek
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeCustom
)

type preset struct {
	label string
	// bounds returns the first and last calendar day of the range.
	bounds func(now time.Time) (time.Time, time.Time)
}

// Weeks start on Monday.
func monday(now time.Time) time.Time {
	offset := int(now.Weekday()+6) % 7
	return now.AddDate(0, 0, -offset)
}

func firstOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

var presets = []preset{
	TimeframeToday: {"Today", func(now time.Time) (time.Time, time.Time) {
		return now, now
	}},
	TimeframeYesterday: {"Yesterday", func(now time.Time) (time.Time, time.Time) {
		y := now.AddDate(0, 0, -1)
		return y, y
	}},
	TimeframeThisWeek: {"This Week", func(now time.Time) (time.Time, time.Time) {
		return monday(now), now
	}},
	TimeframeLastWeek: {"Last Week", func(now time.Time) (time.Time, time.Time) {
		start := monday(now).AddDate(0, 0, -7)
		return start, start.AddDate(0, 0, 6)
	}},
	TimeframeThisMonth: {"This Month", func(now time.Time) (time.Time, time.Time) {
		return firstOfMonth(now), now
	}},
	TimeframeLastMonth: {"Last Month", func(now time.Time) (time.Time, time.Time) {
		first := firstOfMonth(now)
		return first.AddDate(0, -1, 0), first.AddDate(0, 0, -1)
	}},
	TimeframeCustom: {"Custom Range", nil},
}

func (t Timeframe) String() string {
	if t < 0 || int(t) >= len(presets) {
		return "Unknown"
	}

	return presets[t].label
}

// timeframeToDateRange returns the day keys covered by tf, counted on the
// local calendar.
func timeframeToDateRange(tf Timeframe, now time.Time) (string, string) {
	start, end := presets[tf].bounds(now)
	return FormatDate(start), FormatDate(end)
}

// parseCustomRange reads the custom inputs. A lone YYYY-MM in the start field
// selects the whole month; an empty end means a single day.
func parseCustomRange(startText, endText string) (string, string, error) {
	startText, endText = strings.TrimSpace(startText), strings.TrimSpace(endText)

	if endText == "" {
		if first, last, err := datekey.ParseMonth(startText); err == nil {
			return first, last, nil
		}
	}

	start, ok := datekey.Normalize(startText)
	if !ok {
		return "", "", errors.New("invalid start date (YYYY-MM-DD, DD/MM/YYYY or YYYY-MM)")
	}

	if endText == "" {
		return start, start, nil
	}

	end, ok := datekey.Normalize(endText)
	if !ok {
		return "", "", errors.New("invalid end date (YYYY-MM-DD or DD/MM/YYYY)")
	}

	if end < start {
		return "", "", errors.New("end date is before start date")
	}

	return start, end, nil
}

// TimeframeSelectedMsg carries the chosen range as day keys (YYYY-MM-DD).
type TimeframeSelectedMsg struct {
	Start string
	End   string
}

func selected(start, end string) tea.Cmd {
	return func() tea.Msg {
		return TimeframeSelectedMsg{Start: start, End: end}
	}
}

// TimeframePicker lets the user choose a preset range or type one in.
type TimeframePicker struct {
	cursor Timeframe
	custom bool

	inputs [2]textinput.Model
	focus  int

	err error
}

func NewTimeframePicker(initial Timeframe) TimeframePicker {
	var inputs [2]textinput.Model

	for i, prompt := range []string{"From: ", "To:   "} {
		ti := textinput.New()
		ti.Placeholder = "YYYY-MM-DD"
		ti.CharLimit = 10
		ti.Width = 12
		ti.Prompt = prompt
		inputs[i] = ti
	}

	inputs[0].Placeholder = "YYYY-MM-DD or YYYY-MM"
	inputs[0].Width = 22

	return TimeframePicker{cursor: initial, inputs: inputs}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)

	if !m.custom {
		if !ok {
			return m, nil
		}

		return m.updatePresets(keyMsg)
	}

	if ok {
		switch keyMsg.String() {
		case "tab", "shift+tab":
			m.focus = 1 - m.focus
			return m, m.focusInput()
		case "enter":
			start, end, err := parseCustomRange(m.inputs[0].Value(), m.inputs[1].Value())
			m.err = err

			if err != nil {
				return m, nil
			}

			return m, selected(start, end)
		case "esc":
			m.custom = false
			m.err = nil

			return m, nil
		}
	}

	var cmds [2]tea.Cmd
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}

	return m, tea.Batch(cmds[:]...)
}

func (m TimeframePicker) updatePresets(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < TimeframeCustom {
			m.cursor++
		}
	case tea.KeyEnter:
		if m.cursor != TimeframeCustom {
			return m, selected(timeframeToDateRange(m.cursor, time.Now()))
		}

		m.custom = true
		m.focus = 0

		return m, m.focusInput()
	}

	return m, nil
}

func (m *TimeframePicker) focusInput() tea.Cmd {
	m.inputs[1-m.focus].Blur()
	return m.inputs[m.focus].Focus()
}

func (m TimeframePicker) View() string {
	var b strings.Builder

	if m.custom {
		b.WriteString("Enter Custom Range:\n\n")
		b.WriteString(m.inputs[0].View() + "\n" + m.inputs[1].View())
		b.WriteString("\n\n(Enter to confirm, Tab to switch, Esc to back)")
	} else {
		b.WriteString("Select Timeframe:\n\n")

		for i := range presets {
			cursor := " "
			if Timeframe(i) == m.cursor {
				cursor = ">"
			}

			fmt.Fprintf(&b, "%s %s\n", cursor, presets[i].label)
		}

		b.WriteString("\n(Enter to select, Esc to back)")
	}

	if m.err != nil {
		b.WriteString("\n\n" + errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	return b.String()
}

// IsSelecting reports whether the picker shows the preset list rather than the
// custom inputs.
func (m TimeframePicker) IsSelecting() bool {
	return !m.custom
}

func (m *TimeframePicker) Reset() {
	m.custom = false
	m.err = nil

	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
}
