// Package analyzer scores editorial content against a fixed battery of SEO,
// readability and trust checks. The engine is pure: no I/O, no shared state,
// and identical input always yields an identical result for a given year.
package analyzer

import (
	"math"
	"sort"
	"strings"
	"time"
)

// maxPriorityFixes caps the ranked fix list; the full audit list is unranked.
const maxPriorityFixes = 5

// Category weights of the total score.
const (
	weightIntent      = 0.30
	weightOnPage      = 0.25
	weightEEAT        = 0.20
	weightCTR         = 0.15
	weightReadability = 0.10
)

// Analyze scores the input using the current wall-clock year for the
// power-word check. Use AnalyzeAt when determinism across year boundaries
// matters.
func Analyze(input ContentInput) AnalysisResult {
	return AnalyzeAt(input, time.Now().Year())
}

// AnalyzeAt runs the full pipeline: metrics, links and taxonomy are derived
// first, then every rule in the battery runs independently, then the
// aggregator folds the results into category and total scores.
func AnalyzeAt(input ContentInput, year int) AnalysisResult {
	taxonomy := detectTaxonomy(input)
	metrics := extractMetrics(input.Content)

	if metrics.wordCount == 0 {
		return AnalysisResult{
			AuditItems:     []AuditItem{},
			PriorityFixes:  []AuditItem{},
			FAQSuggestions: []string{},
			Taxonomy:       taxonomy,
		}
	}

	rc := &ruleContext{
		input:        input,
		metrics:      metrics,
		links:        analyzeLinks(input.Content),
		taxonomy:     taxonomy,
		year:         year,
		contentLower: strings.ToLower(input.Content),
		titleLower:   strings.ToLower(input.SEOTitle),
		focusLower:   strings.ToLower(strings.TrimSpace(input.FocusKeyword)),
	}

	items := make([]AuditItem, 0, len(battery))
	points := make(map[Category]float64, 5)
	for _, rule := range battery {
		res := rule(rc)
		items = append(items, res.item)
		points[res.item.Category] += res.points
	}

	breakdown := ScoreBreakdown{
		Intent:      clampScore(points[CategoryIntent]),
		OnPage:      clampScore(points[CategoryOnPage]),
		EEAT:        clampScore(points[CategoryEEAT]),
		CTR:         clampScore(points[CategoryCTR]),
		Readability: clampScore(points[CategoryReadability]),
	}

	total := weightIntent*float64(breakdown.Intent) +
		weightOnPage*float64(breakdown.OnPage) +
		weightEEAT*float64(breakdown.EEAT) +
		weightCTR*float64(breakdown.CTR) +
		weightReadability*float64(breakdown.Readability)

	return AnalysisResult{
		TotalScore:     int(math.Round(total)),
		Breakdown:      breakdown,
		AuditItems:     items,
		PriorityFixes:  priorityFixes(items),
		FAQSuggestions: suggestFAQs(input.FocusKeyword, taxonomy.Intent),
		Taxonomy:       taxonomy,
	}
}

// priorityFixes ranks failing items by impact, keeping battery order within
// each impact tier, and truncates to the fixed maximum.
func priorityFixes(items []AuditItem) []AuditItem {
	fixes := make([]AuditItem, 0, len(items))
	for _, item := range items {
		if !item.Passed {
			fixes = append(fixes, item)
		}
	}
	sort.SliceStable(fixes, func(i, j int) bool {
		return fixes[i].Impact.Weight() > fixes[j].Impact.Weight()
	})
	if len(fixes) > maxPriorityFixes {
		fixes = fixes[:maxPriorityFixes]
	}
	return fixes
}

// clampScore rounds an additive point sum into the [0,100] category range.
func clampScore(v float64) int {
	if v <= 0 {
		return 0
	}
	if v >= 100 {
		return 100
	}
	return int(math.Round(v))
}
