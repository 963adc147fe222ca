package analyzer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ruleContext bundles everything a check may consume. Rules read from it and
// never write, so they stay independent of each other.
type ruleContext struct {
	input    ContentInput
	metrics  contentMetrics
	links    []LinkRecord
	taxonomy ContentTaxonomy
	year     int

	contentLower string
	titleLower   string
	focusLower   string
}

// effectiveIntent is the declared intent when it names a known value,
// otherwise the detected one.
func (rc *ruleContext) effectiveIntent() SearchIntent {
	if _, ok := intentSections[rc.input.Intent]; ok {
		return rc.input.Intent
	}
	return rc.taxonomy.Intent
}

// ruleResult pairs the audit item with the points it feeds into its
// category's additive budget. Item scores and budget points are deliberately
// separate: the score is the per-rule 0-100 display value, the points are the
// category contribution.
type ruleResult struct {
	item   AuditItem
	points float64
}

type ruleFunc func(rc *ruleContext) ruleResult

// battery fixes the evaluation order. It also fixes the order of auditItems
// in the result and the tie-break order of priority fixes.
var battery = []ruleFunc{
	checkIntentSections,
	checkContentDepth,
	checkKeywordInTitle,
	checkKeywordInSlug,
	checkKeywordInIntro,
	checkKeywordDensity,
	checkHeadingStructure,
	checkInternalLinkCount,
	checkAnchorSemantics,
	checkInternalLinkPosition,
	checkExternalLinkPosition,
	checkSecondaryCoverage,
	checkAuthorVisibility,
	checkExperienceSignals,
	checkFAQSection,
	checkCitations,
	checkImageAltText,
	checkTitleLength,
	checkPowerWords,
	checkMetaLength,
	checkListUsage,
	checkParagraphLength,
}

// phraseGroup is one required-content group: the content must contain at
// least one of the phrases for the group to count as covered.
type phraseGroup struct {
	label   string
	phrases []string
}

var intentSections = map[SearchIntent][]phraseGroup{
	IntentInformational: {
		{"giải thích khái niệm", []string{"là gì", "định nghĩa", "khái niệm"}},
		{"hướng dẫn chi tiết", []string{"hướng dẫn", "cách", "các bước"}},
	},
	IntentCommercial: {
		{"so sánh / đánh giá", []string{"so sánh", "review", "đánh giá", "ưu điểm", "nhược điểm"}},
		{"giá / chi phí", []string{"giá", "chi phí", "bảng giá"}},
	},
	IntentTransactional: {
		{"giá bán", []string{"giá", "bảng giá"}},
		{"mua hàng", []string{"mua", "đặt hàng", "đặt mua"}},
		{"bảo hành / giao hàng", []string{"bảo hành", "giao hàng", "vận chuyển"}},
	},
	IntentLocal: {
		{"địa chỉ", []string{"địa chỉ", "chi nhánh"}},
		{"liên hệ / giờ mở cửa", []string{"liên hệ", "giờ mở cửa", "hotline"}},
	},
}

func checkIntentSections(rc *ruleContext) ruleResult {
	intent := rc.effectiveIntent()
	groups := intentSections[intent]

	var missing []string
	for _, g := range groups {
		covered := false
		for _, p := range g.phrases {
			if strings.Contains(rc.contentLower, p) {
				covered = true
				break
			}
		}
		if !covered {
			missing = append(missing, g.label)
		}
	}

	item := AuditItem{
		ID:       "intent-sections",
		Label:    "Nội dung theo Search Intent",
		Impact:   ImpactHigh,
		Category: CategoryIntent,
	}
	if len(missing) == 0 {
		item.Passed = true
		item.Score = 100
		item.Message = fmt.Sprintf("Đủ %d nhóm nội dung bắt buộc cho intent %s.", len(groups), intent)
		return ruleResult{item, 40}
	}
	item.Message = fmt.Sprintf("Thiếu %d nhóm nội dung cho intent %s: %s.", len(missing), intent, strings.Join(missing, ", "))
	return ruleResult{item, 0}
}

func checkContentDepth(rc *ruleContext) ruleResult {
	minWords := 700
	if rc.effectiveIntent() == IntentInformational {
		minWords = 1000
	}

	item := AuditItem{
		ID:       "intent-depth",
		Label:    "Độ sâu nội dung",
		Impact:   ImpactHigh,
		Category: CategoryIntent,
	}
	if rc.metrics.wordCount >= minWords {
		item.Passed = true
		item.Score = 100
		item.Message = fmt.Sprintf("Bài viết %d từ, đạt ngưỡng tối thiểu %d từ.", rc.metrics.wordCount, minWords)
		return ruleResult{item, 60}
	}
	item.Score = 20
	item.Message = fmt.Sprintf("Bài viết chỉ có %d từ, dưới ngưỡng %d từ cho intent này.", rc.metrics.wordCount, minWords)
	return ruleResult{item, 20}
}

func checkKeywordInTitle(rc *ruleContext) ruleResult {
	item := AuditItem{
		ID:       "key-title",
		Label:    "Từ khóa trong Tiêu đề SEO",
		Impact:   ImpactHigh,
		Category: CategoryOnPage,
	}
	if rc.focusLower == "" {
		item.Message = "Chưa nhập từ khóa chính."
		return ruleResult{item, 0}
	}
	if strings.Contains(rc.titleLower, rc.focusLower) {
		item.Passed = true
		item.Score = 100
		item.Message = "Tiêu đề SEO chứa từ khóa chính."
		return ruleResult{item, 15}
	}
	item.Message = fmt.Sprintf("Tiêu đề SEO không chứa từ khóa \"%s\".", rc.input.FocusKeyword)
	return ruleResult{item, 0}
}

// checkKeywordInSlug awards no budget points; it only surfaces in the audit
// list so the fix ranking can point at the slug field.
func checkKeywordInSlug(rc *ruleContext) ruleResult {
	item := AuditItem{
		ID:       "key-slug",
		Label:    "Từ khóa trong Slug",
		Impact:   ImpactMedium,
		Category: CategoryOnPage,
	}
	if rc.focusLower == "" {
		item.Message = "Chưa nhập từ khóa chính."
		return ruleResult{item, 0}
	}
	slugKey := strings.ReplaceAll(fold(strings.TrimSpace(rc.input.FocusKeyword)), " ", "-")
	if strings.Contains(fold(rc.input.Slug), slugKey) {
		item.Passed = true
		item.Score = 100
		item.Message = "Slug chứa từ khóa, tốt cho cấu trúc URL."
		return ruleResult{item, 0}
	}
	item.Message = fmt.Sprintf("Slug chưa chứa từ khóa dạng \"%s\".", slugKey)
	return ruleResult{item, 0}
}

// introWindow is how many leading words count as the introduction.
const introWindow = 100

func checkKeywordInIntro(rc *ruleContext) ruleResult {
	item := AuditItem{
		ID:       "key-intro",
		Label:    "Từ khóa trong phần mở đầu",
		Impact:   ImpactHigh,
		Category: CategoryOnPage,
	}
	if rc.focusLower == "" {
		item.Message = "Chưa nhập từ khóa chính."
		return ruleResult{item, 0}
	}
	intro := strings.ToLower(firstWords(rc.metrics.plainText, introWindow))
	if strings.Contains(intro, rc.focusLower) {
		item.Passed = true
		item.Score = 100
		item.Message = fmt.Sprintf("Từ khóa xuất hiện trong %d từ đầu tiên.", introWindow)
		return ruleResult{item, 10}
	}
	item.Message = fmt.Sprintf("Nên đưa từ khóa chính vào %d từ đầu tiên của bài.", introWindow)
	return ruleResult{item, 0}
}

// Density window in percent.
const (
	densityMin = 0.5
	densityMax = 2.5
	// Below this many words a density figure is meaningless.
	densityMinWords = 20
)

func checkKeywordDensity(rc *ruleContext) ruleResult {
	item := AuditItem{
		ID:       "key-density",
		Label:    "Mật độ từ khóa",
		Impact:   ImpactMedium,
		Category: CategoryOnPage,
	}
	if rc.focusLower == "" {
		item.Message = "Chưa nhập từ khóa chính."
		return ruleResult{item, 0}
	}
	if rc.metrics.wordCount <= densityMinWords {
		item.Message = fmt.Sprintf("Nội dung quá ngắn (%d từ) để tính mật độ từ khóa.", rc.metrics.wordCount)
		return ruleResult{item, 0}
	}

	count := countOccurrences(rc.input.Content, rc.input.FocusKeyword)
	density := float64(count) / float64(rc.metrics.wordCount) * 100
	if density >= densityMin && density <= densityMax {
		item.Passed = true
		item.Score = 100
		item.Message = fmt.Sprintf("Mật độ tốt (%.1f%%, %d lần xuất hiện).", density, count)
		return ruleResult{item, 15}
	}
	item.Score = 40
	if density > densityMax {
		item.Message = fmt.Sprintf("Mật độ quá cao (%.1f%%) - coi chừng nhồi nhét từ khóa.", density)
	} else {
		item.Message = fmt.Sprintf("Mật độ quá thấp (%.1f%%, %d lần trên %d từ).", density, count, rc.metrics.wordCount)
	}
	return ruleResult{item, 0}
}

func checkHeadingStructure(rc *ruleContext) ruleResult {
	item := AuditItem{
		ID:       "heading-structure",
		Label:    "Cấu trúc Heading (H2/H3)",
		Impact:   ImpactMedium,
		Category: CategoryOnPage,
	}
	if rc.metrics.h2Count >= 1 {
		item.Passed = true
		item.Score = 100
		item.Message = fmt.Sprintf("Cấu trúc tốt với %d thẻ H2 và %d thẻ H3.", rc.metrics.h2Count, rc.metrics.h3Count)
		return ruleResult{item, 10}
	}
	item.Message = "Cần ít nhất một thẻ H2 để phân tách nội dung."
	return ruleResult{item, 0}
}

// Long articles need more internal links before the count rule passes fully.
const longArticleWords = 1000

func checkInternalLinkCount(rc *ruleContext) ruleResult {
	internal := countLinks(rc.links, LinkInternal)
	item := AuditItem{
		ID:       "links-internal",
		Label:    "Liên kết nội bộ",
		Impact:   ImpactHigh,
		Category: CategoryOnPage,
	}
	switch {
	case internal == 0:
		item.Message = "Thiếu liên kết nội bộ điều hướng."
		return ruleResult{item, 0}
	case rc.metrics.wordCount > longArticleWords && internal < 2:
		item.Score = 50
		item.Message = fmt.Sprintf("Bài dài %d từ nhưng chỉ có %d liên kết nội bộ.", rc.metrics.wordCount, internal)
		return ruleResult{item, 5}
	default:
		item.Passed = true
		item.Score = 100
		item.Message = fmt.Sprintf("Có %d liên kết nội bộ.", internal)
		return ruleResult{item, 15}
	}
}

func checkAnchorSemantics(rc *ruleContext) ruleResult {
	item := AuditItem{
		ID:       "links-anchor",
		Label:    "Anchor text có ngữ nghĩa",
		Impact:   ImpactMedium,
		Category: CategoryOnPage,
	}
	if anchor, found := firstGenericAnchor(rc.links); found {
		item.Message = fmt.Sprintf("Anchor text chung chung: \"%s\". Hãy dùng anchor chứa từ khóa.", anchor)
		return ruleResult{item, 0}
	}
	if len(rc.links) == 0 {
		item.Message = "Chưa có liên kết nào để đánh giá anchor text."
		return ruleResult{item, 0}
	}
	item.Passed = true
	item.Score = 100
	item.Message = fmt.Sprintf("Cả %d anchor text đều mang ngữ nghĩa.", len(rc.links))
	return ruleResult{item, 10}
}

func checkInternalLinkPosition(rc *ruleContext) ruleResult {
	item := AuditItem{
		ID:       "links-internal-position",
		Label:    "Vị trí liên kết nội bộ",
		Impact:   ImpactLow,
		Category: CategoryOnPage,
	}
	internal, placed := 0, 0
	for _, l := range rc.links {
		if l.Type != LinkInternal {
			continue
		}
		internal++
		if l.Location == LocationBody || l.Location == LocationConclusion {
			placed++
		}
	}
	if internal > 0 && placed == 0 {
		item.Message = fmt.Sprintf("Cả %d liên kết nội bộ đều nằm ở phần mở đầu.", internal)
		return ruleResult{item, 0}
	}
	item.Passed = true
	item.Score = 100
	item.Message = fmt.Sprintf("%d/%d liên kết nội bộ nằm trong thân bài hoặc kết luận.", placed, internal)
	return ruleResult{item, 0}
}

func checkExternalLinkPosition(rc *ruleContext) ruleResult {
	item := AuditItem{
		ID:       "links-external-position",
		Label:    "Vị trí liên kết ngoài",
		Impact:   ImpactLow,
		Category: CategoryOnPage,
	}
	external, inBody := 0, 0
	for _, l := range rc.links {
		if l.Type != LinkExternal {
			continue
		}
		external++
		if l.Location == LocationBody {
			inBody++
		}
	}
	if external > 0 && inBody == 0 {
		item.Score = 50
		item.Message = fmt.Sprintf("Không có liên kết ngoài nào trong thân bài (%d liên kết ngoài).", external)
		return ruleResult{item, 0}
	}
	item.Passed = true
	item.Score = 100
	item.Message = fmt.Sprintf("%d/%d liên kết ngoài nằm trong thân bài.", inBody, external)
	return ruleResult{item, 5}
}

// Full secondary-keyword budget when no list was supplied.
const secondaryBudget = 20

func checkSecondaryCoverage(rc *ruleContext) ruleResult {
	item := AuditItem{
		ID:       "key-secondary",
		Label:    "Độ phủ từ khóa phụ",
		Impact:   ImpactMedium,
		Category: CategoryOnPage,
	}

	var keywords []string
	for _, raw := range strings.Split(rc.input.SecondaryKeywords, ",") {
		if kw := strings.TrimSpace(raw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		item.Passed = true
		item.Score = 100
		item.Message = "Không khai báo từ khóa phụ - nhận điểm mặc định."
		return ruleResult{item, secondaryBudget}
	}

	found := 0
	for _, kw := range keywords {
		if strings.Contains(rc.contentLower, strings.ToLower(kw)) {
			found++
		}
	}
	pct := float64(found) / float64(len(keywords)) * 100
	item.Passed = pct >= 50
	item.Score = int(pct + 0.5)
	item.Message = fmt.Sprintf("%d/%d từ khóa phụ xuất hiện trong bài (%.0f%%).", found, len(keywords), pct)
	return ruleResult{item, pct * 0.2}
}

// phrasePresence is the shared E-E-A-T check shape: pass if any phrase occurs.
func phrasePresence(rc *ruleContext, item AuditItem, phrases []string, points float64, passMsg, failMsg string) ruleResult {
	for _, p := range phrases {
		if strings.Contains(rc.contentLower, p) {
			item.Passed = true
			item.Score = 100
			item.Message = fmt.Sprintf("%s (tìm thấy \"%s\").", passMsg, p)
			return ruleResult{item, points}
		}
	}
	item.Message = failMsg
	return ruleResult{item, 0}
}

func checkAuthorVisibility(rc *ruleContext) ruleResult {
	return phrasePresence(rc,
		AuditItem{ID: "eeat-author", Label: "Thông tin tác giả", Impact: ImpactMedium, Category: CategoryEEAT},
		[]string{"tác giả", "người viết", "biên tập bởi"},
		25,
		"Bài viết có thông tin tác giả",
		"Không tìm thấy thông tin tác giả hoặc người viết.")
}

func checkExperienceSignals(rc *ruleContext) ruleResult {
	return phrasePresence(rc,
		AuditItem{ID: "eeat-experience", Label: "Trải nghiệm thực tế", Impact: ImpactMedium, Category: CategoryEEAT},
		[]string{"tôi đã", "kinh nghiệm", "trải nghiệm", "thực tế", "test"},
		25,
		"Có ngôn ngữ trải nghiệm trực tiếp",
		"Thiếu dấu hiệu trải nghiệm trực tiếp (\"tôi đã\", \"kinh nghiệm\"...).")
}

func checkFAQSection(rc *ruleContext) ruleResult {
	return phrasePresence(rc,
		AuditItem{ID: "eeat-faq", Label: "Mục câu hỏi thường gặp", Impact: ImpactMedium, Category: CategoryEEAT},
		[]string{"faq", "câu hỏi thường gặp", "hỏi đáp"},
		30,
		"Bài viết có mục FAQ",
		"Nên bổ sung mục câu hỏi thường gặp (FAQ).")
}

func checkCitations(rc *ruleContext) ruleResult {
	item := AuditItem{
		ID:       "eeat-citations",
		Label:    "Trích dẫn nguồn",
		Impact:   ImpactLow,
		Category: CategoryEEAT,
	}
	phrases := []string{"nguồn:", "theo nghiên cứu", "tham khảo", "trích dẫn"}
	cited := false
	for _, p := range phrases {
		if strings.Contains(rc.contentLower, p) {
			cited = true
			break
		}
	}
	external := countLinks(rc.links, LinkExternal)
	if cited || external > 0 {
		item.Passed = true
		item.Score = 100
		item.Message = fmt.Sprintf("Có tín hiệu trích dẫn (%d liên kết ngoài).", external)
		return ruleResult{item, 20}
	}
	// Partial credit: missing citations hurt trust but do not zero it.
	item.Score = 50
	item.Message = "Không có trích dẫn hay liên kết ngoài nào làm nguồn tham khảo."
	return ruleResult{item, 10}
}

// checkImageAltText awards no budget points; it rides along in the audit list
// so the fix ranking still covers illustrations.
func checkImageAltText(rc *ruleContext) ruleResult {
	item := AuditItem{
		ID:       "read-images",
		Label:    "Hình ảnh & Alt text",
		Impact:   ImpactMedium,
		Category: CategoryEEAT,
	}
	switch {
	case rc.metrics.imageCount == 0:
		item.Message = "Thiếu hình ảnh minh họa."
	case rc.metrics.imagesWithAlt >= rc.metrics.imageCount:
		item.Passed = true
		item.Score = 100
		item.Message = fmt.Sprintf("Cả %d hình ảnh đều có mô tả alt.", rc.metrics.imageCount)
	default:
		item.Score = 50
		item.Message = fmt.Sprintf("%d/%d hình ảnh thiếu thẻ alt.", rc.metrics.imageCount-rc.metrics.imagesWithAlt, rc.metrics.imageCount)
	}
	return ruleResult{item, 0}
}

// Title length window in characters (runes).
const (
	titleMinRunes = 30
	titleMaxRunes = 65
)

func checkTitleLength(rc *ruleContext) ruleResult {
	n := utf8.RuneCountInString(rc.input.SEOTitle)
	item := AuditItem{
		ID:       "ctr-title-length",
		Label:    "Độ dài tiêu đề",
		Impact:   ImpactHigh,
		Category: CategoryCTR,
	}
	if n >= titleMinRunes && n <= titleMaxRunes {
		item.Passed = true
		item.Score = 100
		item.Message = fmt.Sprintf("Tiêu đề %d ký tự, trong khoảng %d-%d.", n, titleMinRunes, titleMaxRunes)
		return ruleResult{item, 30}
	}
	item.Message = fmt.Sprintf("Tiêu đề %d ký tự, nên nằm trong khoảng %d-%d.", n, titleMinRunes, titleMaxRunes)
	return ruleResult{item, 0}
}

var powerWords = []string{"top", "nhất", "hiệu quả", "bí quyết", "review", "bảng giá", "mới"}

// checkPowerWords is the only time-sensitive rule: the current and next year
// count as power words, so its outcome shifts when the reference year does.
func checkPowerWords(rc *ruleContext) ruleResult {
	item := AuditItem{
		ID:       "ctr-power-words",
		Label:    "Power word trong tiêu đề",
		Impact:   ImpactHigh,
		Category: CategoryCTR,
	}
	candidates := append([]string{strconv.Itoa(rc.year), strconv.Itoa(rc.year + 1)}, powerWords...)
	for _, w := range candidates {
		if strings.Contains(rc.titleLower, w) {
			item.Passed = true
			item.Score = 100
			item.Message = fmt.Sprintf("Tiêu đề chứa power word \"%s\".", w)
			return ruleResult{item, 40}
		}
	}
	item.Message = fmt.Sprintf("Tiêu đề chưa có power word (năm %d, \"top\", \"bí quyết\"...).", rc.year)
	return ruleResult{item, 0}
}

// Meta description window in characters, exclusive bounds.
const (
	metaMinRunes = 120
	metaMaxRunes = 165
)

func checkMetaLength(rc *ruleContext) ruleResult {
	n := utf8.RuneCountInString(rc.input.MetaDescription)
	item := AuditItem{
		ID:       "ctr-meta",
		Label:    "Độ dài meta description",
		Impact:   ImpactMedium,
		Category: CategoryCTR,
	}
	if n > metaMinRunes && n < metaMaxRunes {
		item.Passed = true
		item.Score = 100
		item.Message = fmt.Sprintf("Meta description %d ký tự, trong khoảng %d-%d.", n, metaMinRunes+1, metaMaxRunes-1)
		return ruleResult{item, 30}
	}
	item.Message = fmt.Sprintf("Meta description %d ký tự, nên dài %d-%d ký tự.", n, metaMinRunes+1, metaMaxRunes-1)
	return ruleResult{item, 0}
}

func checkListUsage(rc *ruleContext) ruleResult {
	item := AuditItem{
		ID:       "read-lists",
		Label:    "Sử dụng danh sách",
		Impact:   ImpactLow,
		Category: CategoryReadability,
	}
	if rc.metrics.hasListMarkup {
		item.Passed = true
		item.Score = 100
		item.Message = "Nội dung có danh sách giúp dễ quét."
		return ruleResult{item, 50}
	}
	item.Message = "Nên dùng danh sách (ul/ol hoặc gạch đầu dòng) để chia nhỏ ý."
	return ruleResult{item, 0}
}

func checkParagraphLength(rc *ruleContext) ruleResult {
	item := AuditItem{
		ID:       "read-para-length",
		Label:    "Độ dài đoạn văn",
		Impact:   ImpactMedium,
		Category: CategoryReadability,
	}
	if rc.metrics.longParagraphs == 0 {
		item.Passed = true
		item.Score = 100
		item.Message = fmt.Sprintf("Cả %d đoạn văn đều dưới %d từ.", rc.metrics.paragraphCount, longParagraphWords)
		return ruleResult{item, 50}
	}
	item.Score = 20
	item.Message = fmt.Sprintf("Có %d đoạn văn quá dài (trên %d từ).", rc.metrics.longParagraphs, longParagraphWords)
	return ruleResult{item, 10}
}
