package services

import (
	"testing"

	"arcticcare-api/models"
)

func TestAnalyzeTextSeverityBands(t *testing.T) {
	cases := []struct {
		name     string
		title    string
		desc     string
		category models.IssueCategory
		want     models.IssueSeverity
	}{
		{
			name:     "bland report stays low",
			title:    "Calçada suja",
			desc:     "Papéis espalhados na rua",
			category: models.CategoryOther,
			want:     models.SeverityLow,
		},
		{
			name:     "category weight alone reaches medium",
			title:    "Problema na margem",
			desc:     "Água com cor estranha",
			category: models.CategoryFire, // weight 3
			want:     models.SeverityMedium,
		},
		{
			name:     "fire keywords escalate to critical",
			title:    "Incêndio com fumaça tóxica perto da escola",
			desc:     "Urgente, crianças na área",
			category: models.CategoryFire,
			want:     models.SeverityCritical,
		},
		{
			name:     "english vocabulary scores too",
			title:    "Oil spill in the river",
			desc:     "Toxic smell near the school",
			category: models.CategoryPollution,
			want:     models.SeverityCritical,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AnalyzeText(tc.title, tc.desc, tc.category)
			if got.SuggestedSeverity != tc.want {
				t.Errorf("severity = %s (score %d, matched %v), want %s",
					got.SuggestedSeverity, got.Score, got.MatchedKeywords, tc.want)
			}
		})
	}
}

func TestAnalyzeTextDeterministic(t *testing.T) {
	first := AnalyzeText("Incêndio urgente", "fumaça", models.CategoryFire)
	second := AnalyzeText("Incêndio urgente", "fumaça", models.CategoryFire)
	if first.Score != second.Score || first.SuggestedSeverity != second.SuggestedSeverity {
		t.Errorf("same input scored differently: %+v vs %+v", first, second)
	}
	if len(first.MatchedKeywords) != len(second.MatchedKeywords) {
		t.Errorf("matched keywords differ: %v vs %v", first.MatchedKeywords, second.MatchedKeywords)
	}
}

func TestAnalyzeTextConfidenceClamped(t *testing.T) {
	res := AnalyzeText(
		"Incêndio explosão tóxico derramamento fumaça inundação urgente perigo morte",
		"crianças hospital escola rio esgoto lixo desmatamento queimada",
		models.CategoryFire,
	)
	if res.Confidence > 1 {
		t.Errorf("confidence = %v, want ≤ 1", res.Confidence)
	}
}
