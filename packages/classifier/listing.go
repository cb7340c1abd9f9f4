package classifier

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Component weights for the listing-page score. URL evidence dominates
// because a /rooms/12345 path is close to conclusive on its own.
const (
	listingURLWeight       = 2.0
	listingContentWeight   = 1.5
	listingTemplateWeight  = 1.2
	listingNavWeight       = 1.3
	listingContactWeight   = 1.4
	listingStructureWeight = 1.6

	listingURLScore      = 15
	listingTemplateScore = 4
	listingNavScore      = 5
	listingContactScore  = 6
	listingPlatformURL   = 20
	listingBrandingScore = 8
)

var listingURLRes = compileAll(listingURLPatterns)

func compileAll(patterns []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(p))
	}
	return res
}

type listingEvidence struct {
	Score      int
	Confidence int
	URLScore   int
	Signals    []string
}

// detectThirdPartyListing scores how strongly a page looks like a single
// property page hosted on someone else's marketplace rather than an
// operator's own site.
func detectThirdPartyListing(doc *goquery.Document, pageText, finalURL string) listingEvidence {
	urlLower := strings.ToLower(finalURL)
	var ev listingEvidence

	for _, re := range listingURLRes {
		if re.MatchString(urlLower) {
			ev.URLScore += listingURLScore
			ev.Signals = append(ev.Signals, "listing_url_pattern:"+re.String())
		}
	}

	contentScore := 0
	for _, indicator := range listingContentIndicators {
		if strings.Contains(pageText, indicator) {
			contentScore += 3
		}
	}

	templateScore := 0
	for _, indicator := range listingTemplateIndicators {
		if strings.Contains(pageText, indicator) {
			templateScore += listingTemplateScore
		}
	}

	navScore := 0
	if doc != nil {
		navText := strings.ToLower(doc.Find("nav, header").Text())
		for _, indicator := range listingNavigationIndicators {
			if strings.Contains(navText, indicator) {
				navScore += listingNavScore
			}
		}
	}

	contactScore := 0
	for _, indicator := range listingGenericContactIndicators {
		if strings.Contains(pageText, indicator) {
			contactScore += listingContactScore
		}
	}

	structureScore := analyzeMarketplaceStructure(doc, pageText)
	structureScore += scoreKnownPlatform(urlLower, pageText, &ev)

	weighted := float64(ev.URLScore)*listingURLWeight +
		float64(contentScore)*listingContentWeight +
		float64(templateScore)*listingTemplateWeight +
		float64(navScore)*listingNavWeight +
		float64(contactScore)*listingContactWeight +
		float64(structureScore)*listingStructureWeight

	ev.Score = int(weighted)
	switch {
	case weighted >= 25:
		ev.Confidence = int(minF(95, weighted*2))
	case weighted >= 15:
		ev.Confidence = int(minF(85, weighted*2.5))
	}
	if ev.URLScore >= listingURLScore && ev.Confidence < 90 {
		// URL evidence alone settles it.
		ev.Confidence = 90
	}
	return ev
}

// analyzeMarketplaceStructure scores page elements that listing templates
// always carry and owner sites rarely do: booking widgets, review blocks,
// host sections, per-night pricing grids.
func analyzeMarketplaceStructure(doc *goquery.Document, pageText string) int {
	if doc == nil {
		return 0
	}
	score := 0

	if countByClassPattern(doc, "form, div", "book|reserv|checkout") > 0 {
		score += 8
	}
	if countByClassPattern(doc, "div, table", "calendar|availability|datepicker") > 0 {
		score += 6
	}
	if countByClassPattern(doc, "div, section", "review|rating|testimonial") > 2 {
		score += 5
	}
	if countByClassPattern(doc, "div, section", "gallery|photos|carousel|slideshow") > 0 {
		score += 4
	}
	if countByClassPattern(doc, "div, ul, section", "amenit|feature|facilit") > 3 {
		score += 3
	}

	specWords := 0
	for _, word := range []string{"bedrooms", "bathrooms", "sleeps", "guests", "sq ft", "square feet"} {
		if strings.Contains(pageText, word) {
			specWords++
		}
	}
	if specWords >= 4 {
		score += 5
	}

	if countByClassPattern(doc, "div, span", "price|rate|cost") > 2 {
		score += 4
	}
	if countByClassPattern(doc, "div, section", "host|owner-profile|manager-info") > 1 {
		score += 6
	}
	if countByClassPattern(doc, "div, section", "similar|related|recommend") > 0 {
		score += 7
	}
	if countByClassPattern(doc, "div, iframe", "map|location-map") > 0 {
		score += 3
	}
	return score
}

func scoreKnownPlatform(urlLower, pageText string, ev *listingEvidence) int {
	score := 0
	for _, platform := range knownListingPlatforms {
		if strings.Contains(urlLower, platform) {
			score += listingPlatformURL
			ev.URLScore += listingURLScore
			ev.Signals = append(ev.Signals, "known_platform:"+platform)
		}
	}
	for _, branding := range platformBrandingIndicators {
		if strings.Contains(pageText, branding) {
			score += listingBrandingScore
			ev.Signals = append(ev.Signals, "platform_branding:"+branding)
		}
	}
	return score
}

func countByClassPattern(doc *goquery.Document, selector, pattern string) int {
	re := regexp.MustCompile(pattern)
	count := 0
	doc.Find(selector).Each(func(i int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		if re.MatchString(strings.ToLower(class)) || re.MatchString(strings.ToLower(id)) {
			count++
		}
	})
	return count
}
