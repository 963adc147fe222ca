package analyzer

import (
	"strings"
	"testing"
)

const testYear = 2025

// findItem pulls one audit item by id, failing the test if it is missing.
func findItem(t *testing.T, result AnalysisResult, id string) AuditItem {
	t.Helper()
	for _, item := range result.AuditItems {
		if item.ID == id {
			return item
		}
	}
	t.Fatalf("Audit item %q not found", id)
	return AuditItem{}
}

// filler produces n words of neutral Vietnamese text that trips none of the
// keyword heuristics.
func filler(n int) string {
	return strings.TrimSpace(strings.Repeat("câu chữ trung tính bổ trợ ", (n+4)/5))
}

func TestKeywordInTitle(t *testing.T) {
	t.Run("Present", func(t *testing.T) {
		result := AnalyzeAt(ContentInput{
			FocusKeyword: "máy lọc không khí",
			SEOTitle:     "Máy lọc không khí cho nhà nhỏ",
			Content:      filler(50),
		}, testYear)
		if item := findItem(t, result, "key-title"); !item.Passed || item.Score != 100 {
			t.Errorf("Expected key-title to pass with score 100, got passed=%v score=%d", item.Passed, item.Score)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		result := AnalyzeAt(ContentInput{
			FocusKeyword: "máy lọc không khí",
			SEOTitle:     "Một tiêu đề khác hẳn",
			Content:      filler(50),
		}, testYear)
		if item := findItem(t, result, "key-title"); item.Passed {
			t.Error("Expected key-title to fail when the title lacks the keyword")
		}
	})

	t.Run("EmptyKeywordFails", func(t *testing.T) {
		result := AnalyzeAt(ContentInput{
			SEOTitle: "Tiêu đề bất kỳ",
			Content:  filler(50),
		}, testYear)
		if item := findItem(t, result, "key-title"); item.Passed {
			t.Error("Expected key-title to fail without a focus keyword")
		}
	})
}

func TestKeywordInSlug(t *testing.T) {
	result := AnalyzeAt(ContentInput{
		FocusKeyword: "máy lọc không khí",
		Slug:         "may-loc-khong-khi-gia-re",
		Content:      filler(50),
	}, testYear)
	if item := findItem(t, result, "key-slug"); !item.Passed {
		t.Errorf("Expected accent-folded slug match to pass: %s", item.Message)
	}
}

func TestKeywordDensity(t *testing.T) {
	t.Run("ShortContentAlwaysFailsWithZero", func(t *testing.T) {
		// 20 words or fewer: density is meaningless even if every word is
		// the keyword.
		result := AnalyzeAt(ContentInput{
			FocusKeyword: "test",
			Content:      strings.TrimSpace(strings.Repeat("test ", 20)),
		}, testYear)
		item := findItem(t, result, "key-density")
		if item.Passed || item.Score != 0 {
			t.Errorf("Expected fail with score 0 on 20-word content, got passed=%v score=%d", item.Passed, item.Score)
		}
	})

	t.Run("InsideWindow", func(t *testing.T) {
		// 2 occurrences in ~200 words => 1%.
		content := filler(100) + " máy lọc không khí " + filler(100) + " máy lọc không khí"
		result := AnalyzeAt(ContentInput{FocusKeyword: "máy lọc không khí", Content: content}, testYear)
		item := findItem(t, result, "key-density")
		if !item.Passed {
			t.Errorf("Expected density inside [0.5%%, 2.5%%] to pass: %s", item.Message)
		}
	})

	t.Run("TooHighGetsPartialScore", func(t *testing.T) {
		// 10 occurrences in ~60 words is far above 2.5%.
		content := filler(20) + strings.Repeat(" giày chạy bộ", 10) + " " + filler(20)
		result := AnalyzeAt(ContentInput{FocusKeyword: "giày chạy bộ", Content: content}, testYear)
		item := findItem(t, result, "key-density")
		if item.Passed || item.Score != 40 {
			t.Errorf("Expected over-optimized density to fail with score 40, got passed=%v score=%d", item.Passed, item.Score)
		}
	})
}

func TestIntentSectionRules(t *testing.T) {
	t.Run("CommercialNeedsComparisonAndPrice", func(t *testing.T) {
		content := "Bài so sánh hai mẫu kèm bảng giá chi tiết. " + filler(60)
		result := AnalyzeAt(ContentInput{
			FocusKeyword: "tai nghe",
			Intent:       IntentCommercial,
			Content:      content,
		}, testYear)
		if item := findItem(t, result, "intent-sections"); !item.Passed {
			t.Errorf("Expected commercial sections to pass: %s", item.Message)
		}
	})

	t.Run("MissingGroupsAreNamed", func(t *testing.T) {
		result := AnalyzeAt(ContentInput{
			FocusKeyword: "tai nghe",
			Intent:       IntentCommercial,
			Content:      filler(60),
		}, testYear)
		item := findItem(t, result, "intent-sections")
		if item.Passed {
			t.Fatal("Expected sections check to fail on neutral content")
		}
		if !strings.Contains(item.Message, "giá / chi phí") {
			t.Errorf("Expected the missing price group to be named, got %q", item.Message)
		}
	})

	t.Run("DepthThresholdFollowsIntent", func(t *testing.T) {
		content := "Hướng dẫn cách dùng là gì. " + filler(800)
		informational := AnalyzeAt(ContentInput{FocusKeyword: "x", Intent: IntentInformational, Content: content}, testYear)
		if item := findItem(t, informational, "intent-depth"); item.Passed {
			t.Error("Expected ~800 words to miss the 1000-word informational threshold")
		}
		transactional := AnalyzeAt(ContentInput{FocusKeyword: "x", Intent: IntentTransactional, Content: content}, testYear)
		if item := findItem(t, transactional, "intent-depth"); !item.Passed {
			t.Error("Expected ~800 words to clear the 700-word threshold for other intents")
		}
	})
}

func TestLinkRules(t *testing.T) {
	t.Run("NoInternalLinksFails", func(t *testing.T) {
		result := AnalyzeAt(ContentInput{FocusKeyword: "x", Content: filler(100)}, testYear)
		if item := findItem(t, result, "links-internal"); item.Passed {
			t.Error("Expected links-internal to fail without links")
		}
	})

	t.Run("LongArticleNeedsTwoInternalLinks", func(t *testing.T) {
		content := filler(1100) + ` <a href="/lien-quan">bài viết liên quan về chủ đề</a>`
		result := AnalyzeAt(ContentInput{FocusKeyword: "x", Content: content}, testYear)
		item := findItem(t, result, "links-internal")
		if item.Passed || item.Score != 50 {
			t.Errorf("Expected partial fail (score 50) for 1 link in a long article, got passed=%v score=%d", item.Passed, item.Score)
		}
	})

	t.Run("GenericAnchorNamedInMessage", func(t *testing.T) {
		content := filler(100) + ` <a href="/a">chủ đề liên quan</a> <a href="/b">xem thêm</a>`
		result := AnalyzeAt(ContentInput{FocusKeyword: "x", Content: content}, testYear)
		item := findItem(t, result, "links-anchor")
		if item.Passed {
			t.Fatal("Expected links-anchor to fail with a generic anchor present")
		}
		if !strings.Contains(item.Message, "xem thêm") {
			t.Errorf("Expected offending anchor in message, got %q", item.Message)
		}
	})
}

func TestSecondaryKeywordCoverage(t *testing.T) {
	t.Run("NoListAwardsDefault", func(t *testing.T) {
		result := AnalyzeAt(ContentInput{FocusKeyword: "x", Content: filler(100)}, testYear)
		if item := findItem(t, result, "key-secondary"); !item.Passed || item.Score != 100 {
			t.Errorf("Expected default pass without secondary keywords, got passed=%v score=%d", item.Passed, item.Score)
		}
	})

	t.Run("HalfCoverage", func(t *testing.T) {
		content := filler(100) + " lọc bụi mịn"
		result := AnalyzeAt(ContentInput{
			FocusKeyword:      "x",
			SecondaryKeywords: "lọc bụi mịn, màng lọc hepa",
			Content:           content,
		}, testYear)
		item := findItem(t, result, "key-secondary")
		if !item.Passed || item.Score != 50 {
			t.Errorf("Expected 50%% coverage to pass with score 50, got passed=%v score=%d", item.Passed, item.Score)
		}
		if !strings.Contains(item.Message, "1/2") {
			t.Errorf("Expected coverage counts in message, got %q", item.Message)
		}
	})
}

func TestEEATRules(t *testing.T) {
	content := "Tác giả đã có nhiều kinh nghiệm. Câu hỏi thường gặp được trả lời bên dưới. " +
		filler(60) + ` Nguồn: <a href="https://vien-nghien-cuu.vn">báo cáo của viện nghiên cứu</a>`
	result := AnalyzeAt(ContentInput{FocusKeyword: "x", Content: content}, testYear)

	for _, id := range []string{"eeat-author", "eeat-experience", "eeat-faq", "eeat-citations"} {
		if item := findItem(t, result, id); !item.Passed {
			t.Errorf("Expected %s to pass: %s", id, item.Message)
		}
	}

	t.Run("CitationsKeepPartialCredit", func(t *testing.T) {
		bare := AnalyzeAt(ContentInput{FocusKeyword: "x", Content: filler(100)}, testYear)
		item := findItem(t, bare, "eeat-citations")
		if item.Passed || item.Score != 50 {
			t.Errorf("Expected citations to fail with score 50, got passed=%v score=%d", item.Passed, item.Score)
		}
	})
}

func TestCTRRules(t *testing.T) {
	t.Run("TitleLengthWindow", func(t *testing.T) {
		result := AnalyzeAt(ContentInput{
			FocusKeyword: "x",
			SEOTitle:     strings.Repeat("a", 30),
			Content:      filler(50),
		}, testYear)
		if item := findItem(t, result, "ctr-title-length"); !item.Passed {
			t.Errorf("Expected a 30-character title to pass: %s", item.Message)
		}

		short := AnalyzeAt(ContentInput{FocusKeyword: "x", SEOTitle: "Ngắn quá", Content: filler(50)}, testYear)
		if item := findItem(t, short, "ctr-title-length"); item.Passed {
			t.Error("Expected a short title to fail")
		}
	})

	t.Run("YearCountsAsPowerWord", func(t *testing.T) {
		input := ContentInput{FocusKeyword: "x", SEOTitle: "Xu hướng thiết bị gia đình 2031", Content: filler(50)}
		if item := findItem(t, AnalyzeAt(input, 2031), "ctr-power-words"); !item.Passed {
			t.Error("Expected the current year in the title to pass")
		}
		if item := findItem(t, AnalyzeAt(input, 2030), "ctr-power-words"); !item.Passed {
			t.Error("Expected next year's number to pass as well")
		}
		if item := findItem(t, AnalyzeAt(input, 2010), "ctr-power-words"); item.Passed {
			t.Error("Expected a stale year to fail without other power words")
		}
	})

	t.Run("MetaDescriptionWindow", func(t *testing.T) {
		result := AnalyzeAt(ContentInput{
			FocusKeyword:    "x",
			MetaDescription: strings.Repeat("m", 140),
			Content:         filler(50),
		}, testYear)
		if item := findItem(t, result, "ctr-meta"); !item.Passed {
			t.Errorf("Expected a 140-character meta description to pass: %s", item.Message)
		}

		edge := AnalyzeAt(ContentInput{
			FocusKeyword:    "x",
			MetaDescription: strings.Repeat("m", 120),
			Content:         filler(50),
		}, testYear)
		if item := findItem(t, edge, "ctr-meta"); item.Passed {
			t.Error("Expected exactly 120 characters to fail the exclusive bound")
		}
	})
}

func TestReadabilityRules(t *testing.T) {
	t.Run("ListMarkupPasses", func(t *testing.T) {
		result := AnalyzeAt(ContentInput{
			FocusKeyword: "x",
			Content:      "<ul><li>một</li><li>hai</li></ul>" + filler(50),
		}, testYear)
		if item := findItem(t, result, "read-lists"); !item.Passed {
			t.Error("Expected list markup to pass read-lists")
		}
	})

	t.Run("LongParagraphCounted", func(t *testing.T) {
		content := "<p>" + filler(200) + "</p><p>" + filler(30) + "</p>"
		result := AnalyzeAt(ContentInput{FocusKeyword: "x", Content: content}, testYear)
		item := findItem(t, result, "read-para-length")
		if item.Passed || item.Score != 20 {
			t.Errorf("Expected long paragraph to fail with score 20, got passed=%v score=%d", item.Passed, item.Score)
		}
		if !strings.Contains(item.Message, "1 đoạn") {
			t.Errorf("Expected the long-paragraph count in message, got %q", item.Message)
		}
	})
}

func TestFAQSuggestions(t *testing.T) {
	t.Run("EmptyKeywordYieldsNothing", func(t *testing.T) {
		if faqs := suggestFAQs("", IntentInformational); len(faqs) != 0 {
			t.Errorf("Expected no FAQs for empty keyword, got %d", len(faqs))
		}
	})

	t.Run("TemplatesEmbedKeyword", func(t *testing.T) {
		faqs := suggestFAQs("máy lọc không khí", IntentTransactional)
		if len(faqs) == 0 {
			t.Fatal("Expected transactional FAQ templates")
		}
		for _, q := range faqs {
			if !strings.Contains(q, "máy lọc không khí") {
				t.Errorf("Expected keyword in question %q", q)
			}
		}
	})
}
