package analyzer

import (
	"regexp"
	"strings"
)

// Keyword vocabularies behind the intent and industry heuristics. Counting is
// per term, summed over the set.
var (
	transactionalKeywords = []string{"mua", "giá", "bán", "đặt hàng", "liên hệ", "shop", "cửa hàng", "tại hà nội", "tphcm"}
	commercialKeywords    = []string{"tốt nhất", "so sánh", "review", "đánh giá", "nên mua", "vs", "top", "lựa chọn"}
	electronicsKeywords   = []string{"laptop", "điện thoại", "camera", "phụ kiện", "máy tính", "pc", "tai nghe"}
)

const (
	transactionalThreshold = 3
	commercialThreshold    = 2
	industryThreshold      = 2
)

const (
	defaultContentType = "Tin tức / Xu hướng"
	defaultIndustry    = "Chưa xác định"
)

var topListPattern = regexp.MustCompile(`top\s+\d+|danh sách|những`)

// contentTypeRules is an ordered table of (predicate, label) pairs evaluated
// top to bottom; the first match wins.
var contentTypeRules = []struct {
	label string
	match func(content string, words int) bool
}{
	{"Top list", func(c string, _ int) bool {
		return topListPattern.MatchString(c)
	}},
	{"So sánh", func(c string, _ int) bool {
		return strings.Contains(c, "so sánh") || strings.Contains(c, " vs ")
	}},
	{"Review sản phẩm", func(c string, _ int) bool {
		return strings.Contains(c, "đánh giá") || strings.Contains(c, "review")
	}},
	{"Hướng dẫn chọn mua", func(c string, _ int) bool {
		return strings.Contains(c, "hướng dẫn") && (strings.Contains(c, "mua") || strings.Contains(c, "chọn"))
	}},
	{"Hướng dẫn sử dụng", func(c string, _ int) bool {
		return strings.Contains(c, "hướng dẫn") || strings.Contains(c, "cách làm")
	}},
	{"Giải thích thuật ngữ", func(c string, _ int) bool {
		return strings.Contains(c, "là gì") || strings.Contains(c, "định nghĩa")
	}},
	{"Xử lý lỗi", func(c string, _ int) bool {
		return strings.Contains(c, "lỗi") || strings.Contains(c, "sửa") || strings.Contains(c, "khắc phục")
	}},
	{"FAQ", func(c string, _ int) bool {
		return strings.Contains(c, "faq") || strings.Contains(c, "câu hỏi thường gặp")
	}},
	{"Landing page bán hàng", func(c string, words int) bool {
		return words < 300 && strings.Contains(c, "mua")
	}},
}

// detectTaxonomy infers intent, content type, funnel stage, industry and SEO
// goal from keyword-presence heuristics over the combined title and content.
// It is deterministic and lossy; ties resolve by the stated order of checks.
func detectTaxonomy(input ContentInput) ContentTaxonomy {
	combined := strings.ToLower(input.SEOTitle + " " + input.Content)
	words := wordCount(input.Content)

	intent := IntentInformational
	if sumOccurrences(combined, transactionalKeywords) > transactionalThreshold {
		intent = IntentTransactional
	} else if sumOccurrences(combined, commercialKeywords) > commercialThreshold {
		intent = IntentCommercial
	}

	contentType := defaultContentType
	for _, rule := range contentTypeRules {
		if rule.match(combined, words) {
			contentType = rule.label
			break
		}
	}

	funnelStage, seoGoal := "TOFU", "Traffic"
	switch {
	case intent == IntentTransactional:
		funnelStage, seoGoal = "BOFU", "Conversion"
	case intent == IntentCommercial:
		funnelStage, seoGoal = "MOFU", "Conversion"
	case contentType == "Review sản phẩm" || contentType == "So sánh":
		seoGoal = "Brand / Trust"
	}

	industry, subIndustry := defaultIndustry, "General"
	if sumOccurrences(combined, electronicsKeywords) > industryThreshold {
		industry = "Thiết bị điện tử"
		switch {
		case strings.Contains(combined, "laptop"):
			subIndustry = "Laptop"
		case strings.Contains(combined, "điện thoại") || strings.Contains(combined, "iphone") || strings.Contains(combined, "samsung"):
			subIndustry = "Điện thoại"
		case strings.Contains(combined, "camera"):
			subIndustry = "Camera"
		}
	}

	return ContentTaxonomy{
		Intent:      intent,
		ContentType: contentType,
		FunnelStage: funnelStage,
		Industry:    industry,
		SubIndustry: subIndustry,
		SEOGoal:     seoGoal,
	}
}

func sumOccurrences(haystack string, terms []string) int {
	total := 0
	for _, term := range terms {
		total += countOccurrences(haystack, term)
	}
	return total
}
