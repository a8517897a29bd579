// Package ui renders enigmaforge output for the terminal.
//
// Colours follow the machine: amber for the lamp board, grey for the
// casing. lipgloss drops the styling when the output is not a terminal, so
// everything here is also safe to write to files and pipes.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	lamp   = lipgloss.Color("214")
	casing = lipgloss.Color("245")
	ready  = lipgloss.Color("78")
	alarm  = lipgloss.Color("203")
)

var (
	lampStyle  = lipgloss.NewStyle().Foreground(lamp)
	boldStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(casing)
	readyStyle = lipgloss.NewStyle().Foreground(ready).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lamp).Bold(true)
	alarmStyle = lipgloss.NewStyle().Foreground(alarm).Bold(true)
)

var windowStyle = lipgloss.NewStyle().
	Foreground(lamp).
	Bold(true).
	Border(lipgloss.NormalBorder()).
	BorderForeground(casing).
	Padding(0, 1)

func Accent(s string) string { return lampStyle.Render(s) }
func Bold(s string) string   { return boldStyle.Render(s) }
func Muted(s string) string  { return mutedStyle.Render(s) }

func message(mark lipgloss.Style, symbol, format string, a []any) string {
	return mark.Render(symbol) + " " + fmt.Sprintf(format, a...)
}

func SuccessMsg(format string, a ...any) string { return message(readyStyle, "✓", format, a) }
func WarnMsg(format string, a ...any) string    { return message(warnStyle, "!", format, a) }
func ErrorMsg(format string, a ...any) string   { return message(alarmStyle, "✗", format, a) }

// Pair is one line of KeyValues output.
type Pair struct {
	key   string
	value string
}

func KV(key, value string) Pair {
	return Pair{key: key, value: value}
}

// KeyValues renders "key: value" lines with the values in one column. Each
// line is prefixed with indent and ends in a newline.
func KeyValues(indent string, pairs ...Pair) string {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p.key)+1)
	}
	label := mutedStyle.Width(width + 1)

	var sb strings.Builder
	for _, p := range pairs {
		sb.WriteString(indent)
		sb.WriteString(label.Render(p.key + ":"))
		sb.WriteString(p.value)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Window draws letters as a row of rotor windows.
func Window(letters string) string {
	cells := make([]string, 0, len(letters))
	for _, r := range letters {
		cells = append(cells, windowStyle.Render(string(r)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// Table renders rows under headers. The first column is dimmed.
func Table(headers []string, rows [][]string) string {
	cell := lipgloss.NewStyle().Padding(0, 1)
	head := cell.Foreground(lamp).Bold(true)
	first := cell.Foreground(casing)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return head
			case col == 0:
				return first
			default:
				return cell
			}
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}
