package classifier

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"domaincheck/packages/domain"
)

const (
	upgradeTechnicalScore   = 15
	upgradeFunctionalScore  = 20
	upgradeDesignScore      = 10
	upgradeAgePerYear       = 5
	upgradeAgeCutoffYear    = 2020
	upgradeReferenceYear    = 2024
	upgradeThinSiteScore    = 30
	upgradeThinSiteWords    = 500
	upgradeNoContactScore   = 25
	upgradeNoSSLScore       = 20
	upgradeSSLModernScore   = 10
	upgradeNoViewportScore  = 25
	upgradeFramesScore      = 30
	upgradeLayoutTableScore = 20
	modernIndicatorScore    = 15
)

var siteYearRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)copyright\s*(?:©|\(c\))?\s*(\d{4})`),
	regexp.MustCompile(`©\s*(\d{4})`),
	regexp.MustCompile(`(?i)\ball rights reserved\b.{0,20}?(\d{4})`),
	regexp.MustCompile(`(?i)\bsince\s+(\d{4})\b`),
}

// AssessUpgradeNeed scores how badly a site needs a rebuild. Dated stacks,
// missing contact paths and pre-responsive layouts all add up; modern
// tooling subtracts.
func AssessUpgradeNeed(doc *goquery.Document, pageText, finalURL string, wordCount, threshold int) domain.UpgradeNeed {
	rawHTML := ""
	if doc != nil {
		if h, err := doc.Html(); err == nil {
			rawHTML = strings.ToLower(h)
		}
	}

	score := 0
	modern := 0
	var indicators []string

	for _, indicator := range upgradeTechnicalIndicators {
		if strings.Contains(rawHTML, indicator) {
			score += upgradeTechnicalScore
			indicators = append(indicators, "technical:"+indicator)
		}
	}
	for _, indicator := range upgradeFunctionalIndicators {
		if strings.Contains(pageText, indicator) {
			score += upgradeFunctionalScore
			indicators = append(indicators, "functional:"+indicator)
		}
	}
	for _, indicator := range upgradeDesignIndicators {
		if strings.Contains(rawHTML, indicator) {
			score += upgradeDesignScore
			indicators = append(indicators, "design:"+indicator)
		}
	}
	for _, indicator := range modernTechnicalIndicators {
		if strings.Contains(rawHTML, indicator) {
			modern += modernIndicatorScore
		}
	}

	if year := detectSiteYear(pageText); year > 0 && year < upgradeAgeCutoffYear {
		age := (upgradeReferenceYear - year) * upgradeAgePerYear
		score += age
		indicators = append(indicators, "dated_copyright:"+strconv.Itoa(year))
	}

	if wordCount > 0 && wordCount < upgradeThinSiteWords {
		score += upgradeThinSiteScore
		indicators = append(indicators, "thin_content")
	}

	if doc != nil {
		hasForm := doc.Find("form").Length() > 0 || doc.Find("button").Length() > 0
		if !hasForm && !strings.Contains(pageText, "contact") {
			score += upgradeNoContactScore
			indicators = append(indicators, "no_contact_path")
		}
		if doc.Find(`meta[name="viewport"]`).Length() == 0 {
			score += upgradeNoViewportScore
			indicators = append(indicators, "not_mobile_ready")
		}
		if doc.Find("frame, frameset").Length() > 0 {
			score += upgradeFramesScore
			indicators = append(indicators, "framesets")
		}
		if layoutTables(doc) {
			score += upgradeLayoutTableScore
			indicators = append(indicators, "table_layout")
		}
	}

	if strings.HasPrefix(finalURL, "https://") {
		modern += upgradeSSLModernScore
	} else {
		score += upgradeNoSSLScore
		indicators = append(indicators, "no_ssl")
	}

	net := score - modern
	if net < 0 {
		net = 0
	}
	return domain.UpgradeNeed{
		Score:        net,
		Confidence:   min(domain.MaxConfidence, net),
		NeedsUpgrade: net > threshold,
		Indicators:   indicators,
	}
}

// More than five tables with mostly header-less rows is the classic
// pre-CSS layout signature.
func layoutTables(doc *goquery.Document) bool {
	tables := doc.Find("table")
	if tables.Length() <= 5 {
		return false
	}
	headerless := 0
	tables.Each(func(i int, s *goquery.Selection) {
		if s.Find("th").Length() == 0 {
			headerless++
		}
	})
	return headerless > 3
}

func detectSiteYear(pageText string) int {
	for _, re := range siteYearRes {
		if match := re.FindStringSubmatch(pageText); match != nil {
			if year, err := strconv.Atoi(match[1]); err == nil && year > 1990 && year <= upgradeReferenceYear {
				return year
			}
		}
	}
	return 0
}
