package retrieval

import (
	"fmt"
	"strings"

	"hybrid-rag/internal/db"
	"hybrid-rag/internal/models"
)

// The formatter renders fetched records into fixed textual templates. It is
// pure: empty or unknown data renders the sentinel string, never "".

func FormatTeams(teams []db.Team) string {
	if len(teams) == 0 {
		return models.NoContextSentinel
	}
	var b strings.Builder
	b.WriteString("Teams:\n")
	for i, t := range teams {
		fmt.Fprintf(&b, "%d. %s (%s, %s division)\n", i+1, t.Name, t.City, t.Division)
	}
	return strings.TrimRight(b.String(), "\n")
}

func FormatPlayers(teamName string, players []db.Player) string {
	if len(players) == 0 {
		return models.NoContextSentinel
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Players of %s:\n", teamName)
	for i, p := range players {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, p.Name, p.Position)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatMatches resolves team ids through nameOf so the formatter itself
// stays free of data access.
func FormatMatches(matches []db.Match, nameOf func(int64) string) string {
	if len(matches) == 0 {
		return models.NoContextSentinel
	}
	var b strings.Builder
	b.WriteString("Matches:\n")
	for _, m := range matches {
		fmt.Fprintf(&b, "%s: %s %d - %d %s\n",
			m.PlayedAt.Format("2006-01-02"),
			nameOf(m.HomeTeamID), m.HomeScore, m.AwayScore, nameOf(m.AwayTeamID))
	}
	return strings.TrimRight(b.String(), "\n")
}

func FormatCount(subject string, n int) string {
	if n == 1 {
		return fmt.Sprintf("There is 1 %s in the dataset.", strings.TrimSuffix(subject, "s"))
	}
	return fmt.Sprintf("There are %d %s in the dataset.", n, subject)
}
