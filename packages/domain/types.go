// Package domain holds the types shared across the pipeline stages.
package domain

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Priority of a classified lead for outreach.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Vertical business model categories. Exactly one family of them marks a
// target customer; the rest carry exclusion reasons.
const (
	ModelDirectOwnerSmall      = "direct_owner_small"
	ModelDirectOwnerMedium     = "direct_owner_medium"
	ModelPropertyManagerSmall  = "property_manager_small"
	ModelPropertyManagerMedium = "property_manager_medium"
	ModelPropertyManagerLarge  = "property_manager_large"
	ModelDirectRentalOperator  = "direct_rental_operator"
	ModelMarketplacePlatform   = "marketplace_platform"
	ModelThirdPartyListing     = "third_party_listing"
	ModelB2BServiceProvider    = "b2b_service_provider"
	ModelMarketingService      = "marketing_service"
	ModelAggregatorSite        = "aggregator_site"
	ModelUnknown               = "unknown"
)

// Exclusion reasons reported for non-target verticals.
const (
	ExclusionTooLarge    = "too_large"
	ExclusionMarketplace = "marketplace_platform"
	ExclusionListing     = "third_party_listing"
	ExclusionB2B         = "b2b_service_provider"
	ExclusionMarketing   = "marketing_service"
	ExclusionAggregator  = "aggregator_site"
)

// Company size buckets.
const (
	SizeSmall   = "small_business"
	SizeMedium  = "medium_business"
	SizeLarge   = "large_enterprise"
	SizeUnknown = "unknown"
)

// IndustryVacationRental is the target vertical that triggers the
// business-model stages.
const IndustryVacationRental = "vacation_rental"

// MaxConfidence caps every reported confidence value.
const MaxConfidence = 95

// NormalizeDomain lower-cases a raw input line and reduces it to a bare
// host: schemes, paths and surrounding whitespace are stripped.
func NormalizeDomain(raw string) string {
	d := strings.ToLower(strings.TrimSpace(raw))
	if strings.HasPrefix(d, "http://") || strings.HasPrefix(d, "https://") {
		if u, err := url.Parse(d); err == nil && u.Host != "" {
			return u.Host
		}
	}
	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	return d
}

// FetchOutcome is the terminal result of probing one domain: either the
// first protocol that produced a valid page, or the last error seen.
type FetchOutcome struct {
	Domain        string
	Working       bool
	FinalURL      string
	Protocol      string
	StatusCode    int
	RawContent    string
	RedirectCount int
	FinalHost     string

	Err               string
	ConnectivityIssue bool
}

// ContentSignals is derived once per successful fetch and owned exclusively
// by the worker that fetched it.
type ContentSignals struct {
	Title       string
	Description string
	FullText    string
	WordCount   int
	CrawledText string // deep-crawl supplement, may be empty
	Doc         *goquery.Document
}

// CombinedText returns the lower-cased text the keyword classifiers score:
// body + title + description (+ any deep-crawl text).
func (s *ContentSignals) CombinedText() string {
	return strings.ToLower(s.FullText + " " + s.Title + " " + s.Description + " " + s.CrawledText)
}

type HackedResult struct {
	IsHacked   bool
	Score      int
	Confidence int
	Indicators []string
}

type LanguageResult struct {
	Primary      string
	IsNonEnglish bool
	Confidence   int
}

type IndustryResult struct {
	Industry   string
	Confidence int
}

// SizeBreakdown records the per-bucket scores behind a size classification.
type SizeBreakdown struct {
	LargeScore  int
	MediumScore int
	SmallScore  int
	LargePct    float64
	MediumPct   float64
	SmallPct    float64
}

type SizeResult struct {
	Size       string
	Confidence int
	Breakdown  SizeBreakdown
}

// PropertyCount is the extracted fleet size. Type is "exact", "range" or
// "estimate"; a zero Count with an empty Type means nothing matched.
type PropertyCount struct {
	Count      int
	Confidence int
	Type       string
}

type DecisionMaker struct {
	Score      int
	Confidence int
	Level      string
	Indicators []string
}

type UpgradeNeed struct {
	NeedsUpgrade bool
	Score        int
	Confidence   int
	Indicators   []string
}

type PropertyType struct {
	Type       string
	Confidence int
}

type GeographicScope struct {
	Scope      string
	Confidence int
}

// VerticalModel is the business-model verdict for pages in the target
// vertical.
type VerticalModel struct {
	Model           string
	ExclusionReason string
	Confidence      int
	IsTarget        bool
	Priority        string
	TargetScore     int
	TargetFactors   []string
}

// WebsiteMetrics are structural page measurements reused by the size
// classifier and the upgrade scorer.
type WebsiteMetrics struct {
	TotalLinks          int
	InternalLinks       int
	ExternalLinks       int
	Images              int
	Forms               int
	Scripts             int
	Stylesheets         int
	NavigationItems     int
	Sections            int
	WordCount           int
	CharacterCount      int
	Videos              int
	InteractiveElements int
	ComplexityScore     int
}

// BusinessInfo is the contact/location profile extracted from a business page.
type BusinessInfo struct {
	CompanyName       string
	Emails            []string
	PrimaryEmail      string
	Phones            []string
	PrimaryPhone      string
	Address           string
	Country           string
	CountryConfidence int
	StateProvince     string
	City              string
	LocalArea         string
	ServesLocations   []string
	SocialMedia       map[string]string
	BusinessHours     string
	HasOnlineBooking  bool
	Metrics           WebsiteMetrics
}

// ClassificationResult aggregates every stage's output for one domain. A
// stage failure leaves its field at the neutral zero value.
type ClassificationResult struct {
	IsParked   bool
	IsBusiness bool

	Hacked   HackedResult
	Language LanguageResult

	Industry IndustryResult
	Size     SizeResult

	Vertical      VerticalModel
	PropertyCount PropertyCount
	DecisionMaker DecisionMaker
	Upgrade       UpgradeNeed
	PropertyType  PropertyType
	GeoScope      GeographicScope

	Business BusinessInfo
}

// ResultRecord is the flat, serializable union written once per domain.
type ResultRecord struct {
	Domain      string
	Fetch       FetchOutcome
	Title       string
	Description string
	Class       ClassificationResult
	ProcessedAt string
}

// Stats is the rolling aggregate owned by the result sink and snapshotted
// into every checkpoint.
type Stats struct {
	TotalProcessed int `json:"total_processed"`
	Working        int `json:"working"`
	Business       int `json:"business"`
	Parked         int `json:"parked"`
	Hacked         int `json:"hacked"`
	Failed         int `json:"failed"`

	Industries   map[string]int `json:"industries"`
	CompanySizes map[string]int `json:"company_sizes"`

	TargetCustomers         int            `json:"target_customers"`
	ExcludedBusinesses      map[string]int `json:"excluded_businesses"`
	VerticalModels          map[string]int `json:"vertical_models"`
	HighPriorityTargets     int            `json:"high_priority_targets"`
	MediumPriorityTargets   int            `json:"medium_priority_targets"`
	DecisionMakerAccessible int            `json:"decision_maker_accessible"`
	WebsiteNeedsUpgrade     int            `json:"website_needs_upgrade"`
	PropertyTypes           map[string]int `json:"property_types"`
}

// NewStats returns a Stats with all maps allocated.
func NewStats() Stats {
	return Stats{
		Industries:         make(map[string]int),
		CompanySizes:       make(map[string]int),
		ExcludedBusinesses: make(map[string]int),
		VerticalModels:     make(map[string]int),
		PropertyTypes:      make(map[string]int),
	}
}

// ProgressState is the durable record of run progress, rewritten after
// every batch. The processed-domain set is the single source of truth for
// exactly-once processing across resumed runs.
type ProgressState struct {
	ProcessedDomains []string `json:"processed_domains"`
	CurrentBatch     int      `json:"current_batch"`
	TotalBatches     int      `json:"total_batches"`
	StartTime        string   `json:"start_time"`
	LastUpdate       string   `json:"last_update"`
	Stats            Stats    `json:"stats"`
}
