package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tamatots/internal/pet"
)

var gameStyles = struct {
	title   lipgloss.Style
	status  lipgloss.Style
	menu    lipgloss.Style
	menuBox lipgloss.Style
	stats   lipgloss.Style
	hearts  lipgloss.Style
	mess    lipgloss.Style
}{
	title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#6B5B53")).
		Background(lipgloss.Color("#FAD0EB")).
		Padding(0, 1),

	status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B5B53")).
		Width(36),

	stats: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B5B53")).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#F5C7E3")).
		Padding(0, 1),

	menu: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B5B53")),

	menuBox: lipgloss.NewStyle().
		Padding(0, 2),

	hearts: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")),

	mess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#8B5A2B")),
}

// View implements tea.Model
func (m Model) View() string {
	if m.Quitting {
		return "See you soon!\n"
	}

	// Show animation if one is active
	if m.Animation.Type != AnimNone {
		return m.renderAnimation()
	}

	snap := m.Engine.Snapshot()
	sections := []string{
		gameStyles.title.Render("🐣 " + snap.Name + " 🐣"),
		"",
		gameStyles.hearts.Render(pet.Hearts(snap.Stats.Mood())),
		RenderStats(snap.Stats),
		gameStyles.status.Render("Status: " + pet.GetStatusWithLabel(snap)),
	}

	if messes := m.renderMesses(snap.Mess.Active); messes != "" {
		sections = append(sections, "", messes)
	}

	if m.Message != "" && pet.TimeNow().Before(m.MessageExpires) {
		sections = append(sections, "", gameStyles.status.Render(m.Message))
	}

	sections = append(sections,
		"",
		m.renderMenu(),
		"",
		gameStyles.status.Render(fmt.Sprintf("Volume %d%% • +/- to change", snap.Volume)),
		gameStyles.status.Render("e eat • w wash • d drink • h heal • 1-9 scoop • q quit"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// RenderStats draws one bar per tracked stat.
func RenderStats(stats pet.StatSet) string {
	var lines []string
	for _, stat := range stats.Names() {
		v := stats[stat]
		lines = append(lines, fmt.Sprintf("%-7s [%s] %3.0f%%", string(stat)+":", makeBar(v), v))
	}
	return gameStyles.stats.Render(strings.Join(lines, "\n"))
}

func makeBar(value float64) string {
	filled := int(value) / 10
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

func (m Model) renderMesses(messes []pet.Mess) string {
	if len(messes) == 0 {
		return ""
	}
	var lines []string
	for i, mess := range messes {
		lines = append(lines, fmt.Sprintf("[%d] 💩 at (%3.0f, %3.0f) since %s",
			i+1, mess.Position.X, mess.Position.Y, mess.SpawnedAt.Local().Format("15:04")))
	}
	return gameStyles.mess.Render(strings.Join(lines, "\n"))
}

func (m Model) renderMenu() string {
	var menuItems []string

	for i, choice := range menuChoices {
		cursor := " "
		if m.Choice == i {
			cursor = ">"
		}
		label := choice
		if choice == "Eat" {
			if left := m.Engine.Cooldown(pet.ActionEat); left > 0 {
				label = fmt.Sprintf("%s (%ds)", choice, int(left.Seconds()+0.999))
			}
		}
		menuItems = append(menuItems, fmt.Sprintf("%s %s", cursor, label))
	}

	return gameStyles.menuBox.Render(gameStyles.menu.Render(strings.Join(menuItems, "\n")))
}

func (m Model) renderAnimation() string {
	frame := GetAnimationFrame(m.Animation)
	title := gameStyles.title.Render("🐣 " + m.Engine.Snapshot().Name + " 🐣")

	animStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFD700")).
		Bold(true).
		Padding(1, 2)

	sections := []string{
		title,
		"",
		animStyle.Render(frame),
	}

	if m.Message != "" && pet.TimeNow().Before(m.MessageExpires) {
		sections = append(sections, "", gameStyles.status.Render(m.Message))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
