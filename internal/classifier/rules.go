package classifier

import (
	"regexp"
	"strings"
	"unicode"

	"hybrid-rag/internal/models"
)

var dateToken = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// ClassifyRules is the deterministic tier: lower-cased keyword matching with
// fixed per-rule confidences. It never fails; an unrecognized question maps
// to the general type at confidence 0.5.
func ClassifyRules(question string) models.QueryClassification {
	q := strings.ToLower(question)
	cls := models.QueryClassification{
		Type:       models.QueryGeneral,
		Confidence: 0.5,
		Parameters: map[string]string{},
	}

	switch {
	case containsAny(q, "how many", "count of", "number of"):
		cls.Type = models.QueryCount
		cls.Confidence = 0.9
	case containsAny(q, "players of", "players in", "who plays", "play for", "plays for", "roster", "members of"):
		cls.Type = models.QueryRelation
		cls.Confidence = 0.85
	case strings.Contains(q, "between") && strings.Contains(q, "and"),
		strings.Contains(q, "from") && strings.Contains(q, "to") && dateToken.MatchString(q):
		cls.Type = models.QueryDateRange
		cls.Confidence = 0.75
	case containsAny(q, "today", "tonight", "yesterday"),
		strings.Contains(q, "on ") && dateToken.MatchString(q):
		cls.Type = models.QueryTemporal
		cls.Confidence = 0.8
	case containsAny(q, "list all", "show all", "all teams", "all players", "all matches"):
		cls.Type = models.QueryListing
		cls.Confidence = 0.8
	case containsAny(q, "division", "conference", "city of", "based in"):
		cls.Type = models.QueryCategorical
		cls.Confidence = 0.7
	}

	cls.Entities = entityKinds(q)
	fillNameParams(question, cls.Parameters)
	fillDateParams(q, &cls)
	return cls
}

func entityKinds(q string) []models.EntityKind {
	var kinds []models.EntityKind
	if strings.Contains(q, "team") {
		kinds = append(kinds, models.KindTeam)
	}
	if strings.Contains(q, "player") || strings.Contains(q, "roster") {
		kinds = append(kinds, models.KindPlayer)
	}
	if strings.Contains(q, "match") || strings.Contains(q, "game") {
		kinds = append(kinds, models.KindMatch)
	}
	return kinds
}

// fillNameParams keeps the historical capitalized-word heuristic as is: it
// misses lower-case names and over-matches sentence-initial words, and that
// imprecision is part of the observable behavior.
func fillNameParams(question string, params map[string]string) {
	var names []string
	for _, token := range strings.Fields(question) {
		token = strings.TrimFunc(token, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len(token) > 2 && unicode.IsUpper([]rune(token)[0]) {
			names = append(names, token)
		}
	}
	if len(names) == 0 {
		return
	}
	params["name"] = names[0]
	params["names"] = strings.Join(names, ",")
}

func fillDateParams(q string, cls *models.QueryClassification) {
	dates := dateToken.FindAllString(q, -1)
	switch {
	case cls.Type == models.QueryDateRange && len(dates) >= 2:
		cls.Parameters["from"] = dates[0]
		cls.Parameters["to"] = dates[1]
	case len(dates) >= 1:
		cls.Parameters["date"] = dates[0]
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
