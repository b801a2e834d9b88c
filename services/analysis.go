// services/analysis.go
package services

import (
	"sort"
	"strings"

	"arcticcare-api/models"
)

// Fixed keyword weights for the severity suggestion. This is a scoring
// function over the report text, not a learned model; weights are tuned by
// hand against the pt-BR/en vocabulary reporters actually use.
var severityKeywords = map[string]int{
	"incêndio":     4,
	"fire":         4,
	"explosão":     4,
	"explosion":    4,
	"tóxico":       3,
	"toxic":        3,
	"derramamento": 3,
	"spill":        3,
	"fumaça":       2,
	"smoke":        2,
	"inundação":    3,
	"flood":        3,
	"alagamento":   3,
	"urgente":      2,
	"urgent":       2,
	"perigo":       2,
	"danger":       2,
	"morte":        3,
	"death":        3,
	"crianças":     2,
	"children":     2,
	"hospital":     2,
	"escola":       2,
	"school":       2,
	"rio":          1,
	"river":        1,
	"esgoto":       2,
	"sewage":       2,
	"lixo":         1,
	"trash":        1,
	"desmatamento": 2,
	"queimada":     3,
}

var categoryWeights = map[models.IssueCategory]int{
	models.CategoryFire:          3,
	models.CategoryFlood:         3,
	models.CategoryPollution:     2,
	models.CategoryDeforestation: 2,
	models.CategoryWaste:         1,
	models.CategoryOther:         0,
}

type AnalysisResult struct {
	SuggestedSeverity models.IssueSeverity `json:"suggested_severity"`
	Score             int                  `json:"score"`
	Confidence        float64              `json:"confidence"`
	MatchedKeywords   []string             `json:"matched_keywords"`
}

// AnalyzeText scores title+description against the keyword table plus the
// category weight and maps the total to a severity band.
func AnalyzeText(title, description string, category models.IssueCategory) *AnalysisResult {
	text := strings.ToLower(title + " " + description)

	score := categoryWeights[category]
	var matched []string
	for keyword, weight := range severityKeywords {
		if strings.Contains(text, keyword) {
			score += weight
			matched = append(matched, keyword)
		}
	}
	sort.Strings(matched)

	var severity models.IssueSeverity
	switch {
	case score >= 10:
		severity = models.SeverityCritical
	case score >= 6:
		severity = models.SeverityHigh
	case score >= 3:
		severity = models.SeverityMedium
	default:
		severity = models.SeverityLow
	}

	confidence := float64(score) / 12.0
	if confidence > 1 {
		confidence = 1
	}

	return &AnalysisResult{
		SuggestedSeverity: severity,
		Score:             score,
		Confidence:        confidence,
		MatchedKeywords:   matched,
	}
}
