package analyzer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	tagPattern       = regexp.MustCompile(`<[^>]*>`)
	paragraphPattern = regexp.MustCompile(`(?i)</p>|\n[ \t]*\n`)
	bulletPattern    = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+\S`)
)

// longParagraphWords is the word count above which a paragraph is flagged.
const longParagraphWords = 150

// stripTags replaces tag-like substrings with spaces. This is an approximate
// strip, not an HTML parser: malformed markup degrades to extra whitespace.
func stripTags(text string) string {
	return tagPattern.ReplaceAllString(text, " ")
}

// wordCount counts whitespace-separated words after tag stripping.
// Empty or tag-only input yields 0.
func wordCount(text string) int {
	clean := strings.TrimSpace(stripTags(text))
	if clean == "" {
		return 0
	}
	return len(strings.Fields(clean))
}

// countOccurrences counts case-insensitive literal occurrences of needle in
// haystack. The needle is quoted so regex metacharacters match literally.
func countOccurrences(haystack, needle string) int {
	if needle == "" {
		return 0
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(needle))
	if err != nil {
		return 0
	}
	return len(re.FindAllStringIndex(haystack, -1))
}

var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold decomposes the string, strips combining marks and lowercases it, so
// "Tại Đây" and "tai day" compare equal. U+0111 (đ) carries no combining
// mark and must be mapped directly.
func fold(s string) string {
	out, _, err := transform.String(foldChain, s)
	if err != nil {
		out = s
	}
	return strings.ReplaceAll(strings.ToLower(out), "đ", "d")
}

// contentMetrics carries every derived measurement the rule battery consumes.
type contentMetrics struct {
	wordCount      int
	plainText      string
	h2Count        int
	h3Count        int
	hasListMarkup  bool
	imageCount     int
	imagesWithAlt  int
	paragraphCount int
	longParagraphs int
}

// extractMetrics computes the structural measurements in one pass. The tag
// structure is inspected through goquery; paragraph boundaries additionally
// honor blank lines so plain-text drafts are measured too.
func extractMetrics(content string) contentMetrics {
	m := contentMetrics{
		wordCount: wordCount(content),
		plainText: strings.Join(strings.Fields(stripTags(content)), " "),
	}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(content)); err == nil {
		m.h2Count = doc.Find("h2").Length()
		m.h3Count = doc.Find("h3").Length()
		m.hasListMarkup = doc.Find("ul, ol").Length() > 0
		images := doc.Find("img")
		m.imageCount = images.Length()
		images.Each(func(_ int, s *goquery.Selection) {
			if alt, ok := s.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
				m.imagesWithAlt++
			}
		})
	}
	if !m.hasListMarkup {
		m.hasListMarkup = bulletPattern.MatchString(content)
	}

	for _, chunk := range paragraphPattern.Split(content, -1) {
		text := strings.TrimSpace(stripTags(chunk))
		if text == "" {
			continue
		}
		m.paragraphCount++
		if len(strings.Fields(text)) > longParagraphWords {
			m.longParagraphs++
		}
	}

	return m
}

// firstWords returns the leading n words of the plain text, joined by single
// spaces. Used by the keyword-in-intro check.
func firstWords(plainText string, n int) string {
	fields := strings.Fields(plainText)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}
