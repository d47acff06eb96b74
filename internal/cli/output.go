package cli

import (
	"fmt"
	"strings"

	"github.com/artur/tunegrab/internal/downloader"
	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
)

const barWidth = 30

func renderProgress(p int) string {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	filled := p * barWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return fmt.Sprintf("%s %3d%%", barStyle.Render(bar), p)
}

func renderResult(res downloader.Result, format downloader.PayloadFormat) string {
	payload := res.Payload(format)
	switch {
	case res.Succeeded():
		line := successStyle.Render("✓ " + payload[0])
		if len(payload) > 1 {
			line += " " + strings.Join(payload[1:], dimStyle.Render(" | "))
		}
		return line
	case res.Failed():
		return errorStyle.Render("✗ "+payload[0]) + dimStyle.Render(" ("+string(res.Kind)+")")
	default:
		return dimStyle.Render("no download yet")
	}
}
