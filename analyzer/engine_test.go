package analyzer

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

// richInput builds an article that satisfies the on-page and CTR checks so the
// end-to-end assertions below have a known shape.
func richInput() ContentInput {
	var b strings.Builder
	b.WriteString("<p>Máy lọc không khí giúp cải thiện chất lượng sống. " + filler(80) + "</p>")
	b.WriteString("<h2>Đánh giá máy lọc không khí</h2>")
	b.WriteString("<p>" + filler(100) + "</p>")
	b.WriteString("<ul><li>ưu điểm nổi bật</li><li>nhược điểm cần lưu ý</li></ul>")
	b.WriteString("<p>" + filler(60) + ` <a href="/mua-hang">hướng dẫn mua máy lọc không khí</a> ` + filler(40) + "</p>")
	b.WriteString("<p>Bảng giá máy lọc không khí được cập nhật. " + filler(60) + "</p>")

	return ContentInput{
		FocusKeyword:    "máy lọc không khí",
		SEOTitle:        "Máy lọc không khí tốt nhất 2025",
		Slug:            "may-loc-khong-khi-tot-nhat-2025",
		MetaDescription: strings.Repeat("m", 140),
		Content:         b.String(),
		Intent:          IntentCommercial,
	}
}

func TestAnalyzeEmptyContent(t *testing.T) {
	cases := map[string]string{
		"Empty":   "",
		"TagOnly": `<p> </p><img src="x.png"><br/>`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			result := AnalyzeAt(ContentInput{FocusKeyword: "máy lọc không khí", Content: content}, testYear)
			if result.TotalScore != 0 {
				t.Errorf("Expected total score 0, got %d", result.TotalScore)
			}
			if result.AuditItems == nil || len(result.AuditItems) != 0 {
				t.Errorf("Expected empty non-nil audit list, got %v", result.AuditItems)
			}
			if result.PriorityFixes == nil || len(result.PriorityFixes) != 0 {
				t.Errorf("Expected empty non-nil fix list, got %v", result.PriorityFixes)
			}
			if result.FAQSuggestions == nil || len(result.FAQSuggestions) != 0 {
				t.Errorf("Expected empty non-nil FAQ list, got %v", result.FAQSuggestions)
			}
			if result.Taxonomy.Intent == "" {
				t.Error("Expected taxonomy to be populated even for empty content")
			}
		})
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	input := richInput()
	first := AnalyzeAt(input, testYear)
	second := AnalyzeAt(input, testYear)
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical results for identical input and year")
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	result := AnalyzeAt(richInput(), testYear)

	passing := []string{
		"intent-sections",
		"key-title",
		"key-slug",
		"key-intro",
		"key-density",
		"heading-structure",
		"links-internal",
		"links-anchor",
		"ctr-title-length",
		"ctr-power-words",
		"ctr-meta",
		"read-lists",
		"read-para-length",
	}
	for _, id := range passing {
		if item := findItem(t, result, id); !item.Passed {
			t.Errorf("Expected %s to pass: %s", id, item.Message)
		}
	}

	if item := findItem(t, result, "intent-depth"); item.Passed {
		t.Errorf("Expected the short article to fail the depth check: %s", item.Message)
	}

	if len(result.AuditItems) != len(battery) {
		t.Errorf("Expected %d audit items, got %d", len(battery), len(result.AuditItems))
	}

	b := result.Breakdown
	want := int(math.Round(
		weightIntent*float64(b.Intent) +
			weightOnPage*float64(b.OnPage) +
			weightEEAT*float64(b.EEAT) +
			weightCTR*float64(b.CTR) +
			weightReadability*float64(b.Readability)))
	if result.TotalScore != want {
		t.Errorf("Expected total %d from breakdown %+v, got %d", want, b, result.TotalScore)
	}

	if len(result.FAQSuggestions) == 0 {
		t.Fatal("Expected FAQ suggestions for a non-empty keyword")
	}
	for _, q := range result.FAQSuggestions {
		if !strings.Contains(q, "máy lọc không khí") {
			t.Errorf("Expected keyword in FAQ suggestion %q", q)
		}
	}
}

func TestPriorityFixes(t *testing.T) {
	// A keyword with neutral content fails most of the battery, so the ranked
	// list must fill up with high-impact items in battery order.
	result := AnalyzeAt(ContentInput{FocusKeyword: "máy ảnh", Content: filler(100)}, testYear)

	if len(result.PriorityFixes) != maxPriorityFixes {
		t.Fatalf("Expected %d priority fixes, got %d", maxPriorityFixes, len(result.PriorityFixes))
	}

	wantIDs := []string{"intent-sections", "intent-depth", "key-title", "key-intro", "links-internal"}
	for i, fix := range result.PriorityFixes {
		if fix.Passed {
			t.Errorf("Fix %d (%s) should be a failing item", i, fix.ID)
		}
		if fix.ID != wantIDs[i] {
			t.Errorf("Expected fix %d to be %s, got %s", i, wantIDs[i], fix.ID)
		}
		if i > 0 && fix.Impact.Weight() > result.PriorityFixes[i-1].Impact.Weight() {
			t.Errorf("Fix impact weights must not increase, got %s after %s", fix.Impact, result.PriorityFixes[i-1].Impact)
		}
	}
}

func TestImpactWeight(t *testing.T) {
	if ImpactHigh.Weight() <= ImpactMedium.Weight() || ImpactMedium.Weight() <= ImpactLow.Weight() {
		t.Error("Expected strictly decreasing weights from high to low impact")
	}
}
