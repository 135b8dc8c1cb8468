package ui

import (
	"fmt"
	"strings"

	"tamatots/internal/pet"
)

// StatsCard renders the plain text summary used by the status command.
func StatsCard(s *pet.State) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", s.Name, pet.Hearts(s.Stats.Mood())))
	b.WriteString(fmt.Sprintf("Status: %s\n", pet.GetStatusWithLabel(s)))
	b.WriteString(RenderStats(s.Stats))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Messes: %d/%d\n", s.Mess.Count(), s.Mess.Config.MaxOnField))
	if !s.LastSeen.IsZero() {
		b.WriteString(fmt.Sprintf("Last seen: %s\n", s.LastSeen.Local().Format("2006-01-02 15:04")))
	}
	return b.String()
}
