package analyzer

import (
	"regexp"
	"strings"
)

// anchorPattern matches well-formed <a ... href="...">...</a> pairs regardless
// of attribute order or quote style. Self-closing or unclosed anchors simply
// do not match; the rule battery only ever sees complete pairs.
var anchorPattern = regexp.MustCompile(`(?is)<a\b[^>]*\bhref\s*=\s*["']([^"']*)["'][^>]*>(.*?)</a>`)

// genericAnchors lists filler phrases with no keyword value. Entries are
// stored accent-folded; matching is exact or containing on the folded anchor.
var genericAnchors = []string{
	"tai day",
	"o day",
	"bam vao day",
	"xem them",
	"doc them",
	"xem ngay",
	"chi tiet",
	"tham khao them",
	"click here",
	"read more",
	"website",
	"link",
}

// Position buckets: a link starting before 15% of the content is intro,
// after 85% is conclusion, anything between is body.
const (
	introRatio      = 0.15
	conclusionRatio = 0.85
)

// analyzeLinks scans the raw content for anchor tags and returns them in
// document order. It never fails; malformed markup just yields fewer records.
func analyzeLinks(content string) []LinkRecord {
	matches := anchorPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return nil
	}

	total := float64(len(content))
	links := make([]LinkRecord, 0, len(matches))
	for _, m := range matches {
		href := strings.TrimSpace(content[m[2]:m[3]])
		// Nested tags inside the anchor are stripped before recording.
		anchor := strings.Join(strings.Fields(stripTags(content[m[4]:m[5]])), " ")
		links = append(links, LinkRecord{
			Href:      href,
			Anchor:    anchor,
			Type:      classifyHref(href),
			Location:  bucketOffset(float64(m[0]), total),
			IsGeneric: isGenericAnchor(anchor),
		})
	}
	return links
}

func classifyHref(href string) LinkType {
	if strings.HasPrefix(href, "/") || strings.HasPrefix(href, "#") || strings.HasPrefix(href, ".") {
		return LinkInternal
	}
	return LinkExternal
}

func bucketOffset(offset, total float64) LinkLocation {
	if total <= 0 {
		return LocationBody
	}
	switch {
	case offset < total*introRatio:
		return LocationIntro
	case offset > total*conclusionRatio:
		return LocationConclusion
	default:
		return LocationBody
	}
}

func isGenericAnchor(anchor string) bool {
	folded := strings.TrimSpace(fold(anchor))
	if folded == "" {
		return false
	}
	for _, phrase := range genericAnchors {
		if folded == phrase || strings.Contains(folded, phrase) {
			return true
		}
	}
	return false
}

// countLinks tallies links of the given type.
func countLinks(links []LinkRecord, t LinkType) int {
	n := 0
	for _, l := range links {
		if l.Type == t {
			n++
		}
	}
	return n
}

// firstGenericAnchor returns the anchor text of the first generic link, if any.
func firstGenericAnchor(links []LinkRecord) (string, bool) {
	for _, l := range links {
		if l.IsGeneric {
			return l.Anchor, true
		}
	}
	return "", false
}
