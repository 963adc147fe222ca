package analyzer

// SearchIntent classifies the presumed goal behind a search query.
type SearchIntent string

const (
	IntentInformational SearchIntent = "Informational"
	IntentCommercial    SearchIntent = "Commercial Investigation"
	IntentTransactional SearchIntent = "Transactional"
	IntentLocal         SearchIntent = "Local"
)

// Impact ranks how much an unmet check hurts the content.
type Impact string

const (
	ImpactHigh   Impact = "High"
	ImpactMedium Impact = "Medium"
	ImpactLow    Impact = "Low"
)

// Weight returns the numeric rank used to order priority fixes.
func (i Impact) Weight() int {
	switch i {
	case ImpactHigh:
		return 3
	case ImpactMedium:
		return 2
	case ImpactLow:
		return 1
	}
	return 0
}

// Category names one of the five scoring groups.
type Category string

const (
	CategoryIntent      Category = "intent"
	CategoryOnPage      Category = "onpage"
	CategoryEEAT        Category = "eeat"
	CategoryCTR         Category = "ctr"
	CategoryReadability Category = "readability"
)

// ContentInput is the full editorial state submitted for one analysis.
// It is passed by value and never mutated.
type ContentInput struct {
	FocusKeyword      string       `json:"focusKeyword"`
	SecondaryKeywords string       `json:"secondaryKeywords"`
	SEOTitle          string       `json:"seoTitle"`
	Slug              string       `json:"slug"`
	MetaDescription   string       `json:"metaDescription"`
	Content           string       `json:"content"`
	Intent            SearchIntent `json:"intent"`
}

// ContentTaxonomy holds the labels inferred from the content itself.
type ContentTaxonomy struct {
	Intent      SearchIntent `json:"intent"`
	ContentType string       `json:"contentType"`
	FunnelStage string       `json:"funnelStage"`
	Industry    string       `json:"industry"`
	SubIndustry string       `json:"subIndustry"`
	SEOGoal     string       `json:"seoGoal"`
}

// LinkType separates site-internal links from outbound ones.
type LinkType string

const (
	LinkInternal LinkType = "internal"
	LinkExternal LinkType = "external"
)

// LinkLocation buckets a link by where it sits in the document.
type LinkLocation string

const (
	LocationIntro      LinkLocation = "intro"
	LocationBody       LinkLocation = "body"
	LocationConclusion LinkLocation = "conclusion"
)

// LinkRecord is one anchor tag found in the content.
type LinkRecord struct {
	Href      string       `json:"href"`
	Anchor    string       `json:"anchor"`
	Type      LinkType     `json:"type"`
	Location  LinkLocation `json:"location"`
	IsGeneric bool         `json:"isGeneric"`
}

// AuditItem is the outcome of a single check. ID is stable across runs so a
// caller can map it back onto the input field it complains about.
type AuditItem struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Passed   bool     `json:"passed"`
	Score    int      `json:"score"`
	Impact   Impact   `json:"impact"`
	Message  string   `json:"message"`
	Category Category `json:"category"`
}

// ScoreBreakdown holds the five category scores, each clamped to [0,100].
type ScoreBreakdown struct {
	Intent      int `json:"intent"`
	OnPage      int `json:"onPage"`
	EEAT        int `json:"eeat"`
	CTR         int `json:"ctr"`
	Readability int `json:"readability"`
}

// AnalysisResult is the complete outcome of one analysis call.
type AnalysisResult struct {
	TotalScore     int             `json:"totalScore"`
	Breakdown      ScoreBreakdown  `json:"breakdown"`
	AuditItems     []AuditItem     `json:"auditItems"`
	PriorityFixes  []AuditItem     `json:"priorityFixes"`
	FAQSuggestions []string        `json:"faqSuggestions"`
	Taxonomy       ContentTaxonomy `json:"taxonomy"`
}
