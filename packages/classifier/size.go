package classifier

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"domaincheck/packages/domain"
)

// Override thresholds for the small-business bias: the pipeline hunts
// small operators, so a solid small signal wins unless the large signal
// is unambiguous.
const (
	smallOverrideMinScore = 15
	smallOverrideMaxLarge = 10
	largeOverrideMinScore = 25
	smallConfidenceBonus  = 10
	overrideBonus         = 15
	largeOverrideBonus    = 10
)

// ClassifySize buckets the page into small/medium/large using three
// independent weighted keyword scores plus structural signals, then
// applies the small-business bias rules.
func ClassifySize(doc *goquery.Document, pageText, title, description string) domain.SizeResult {
	allText := strings.ToLower(pageText + " " + title + " " + description)

	large := scoreBuckets(allText, largeCompanyIndicators)
	medium := scoreBuckets(allText, mediumCompanyIndicators)
	small := scoreBuckets(allText, smallCompanyIndicators)

	for _, keyword := range enterpriseTech {
		if strings.Contains(allText, keyword) {
			large += 8
		}
	}
	for _, keyword := range enterpriseHosting {
		if strings.Contains(allText, keyword) {
			large += 5
		}
	}
	for _, keyword := range smallBusinessTech {
		if strings.Contains(allText, keyword) {
			small += 6
		}
	}

	metrics := AnalyzeWebsiteMetrics(doc)
	switch {
	case metrics.ComplexityScore > 40:
		large += 15
	case metrics.ComplexityScore > 25:
		large += 10
	case metrics.ComplexityScore > 15:
		medium += 5
	default:
		small += 8
	}

	switch {
	case metrics.WordCount > 5000:
		large += 10
	case metrics.WordCount > 2000:
		medium += 5
	case metrics.WordCount < 500:
		small += 5
	}

	switch {
	case metrics.NavigationItems > 50:
		large += 8
	case metrics.NavigationItems > 20:
		medium += 4
	case metrics.NavigationItems < 10:
		small += 4
	}

	social := analyzeSocialPresence(doc, allText)
	switch {
	case social > 15:
		large += 5
	case social > 8:
		medium += 3
	case social > 3:
		small += 2
	}

	switch detectEmployeeTier(allText) {
	case "large":
		large += 20
	case "medium":
		medium += 10
	case "small":
		small += 8
	}

	locationScore := scoreLocations(allText)
	switch {
	case locationScore > 10:
		large += locationScore
	case locationScore > 5:
		medium += locationScore
	case locationScore == 0:
		small += 3
	}

	for _, flag := range largeBusinessRedFlags {
		if strings.Contains(allText, flag) {
			large += 5
		}
	}

	total := large + medium + small
	if total == 0 {
		return domain.SizeResult{Size: domain.SizeUnknown}
	}

	breakdown := domain.SizeBreakdown{
		LargeScore:  large,
		MediumScore: medium,
		SmallScore:  small,
		LargePct:    float64(large) / float64(total) * 100,
		MediumPct:   float64(medium) / float64(total) * 100,
		SmallPct:    float64(small) / float64(total) * 100,
	}

	var size string
	var confidence float64
	switch {
	case small > large && small > medium:
		size = domain.SizeSmall
		confidence = minF(95, breakdown.SmallPct+smallConfidenceBonus)
	case large > medium && large > small:
		size = domain.SizeLarge
		confidence = minF(95, breakdown.LargePct)
	case medium > 0:
		size = domain.SizeMedium
		confidence = minF(90, breakdown.MediumPct)
	default:
		size = domain.SizeUnknown
	}

	if small >= smallOverrideMinScore && large < smallOverrideMaxLarge {
		size = domain.SizeSmall
		confidence = minF(95, confidence+overrideBonus)
	}
	if large >= largeOverrideMinScore {
		size = domain.SizeLarge
		confidence = minF(95, confidence+largeOverrideBonus)
	}

	return domain.SizeResult{
		Size:       size,
		Confidence: int(confidence),
		Breakdown:  breakdown,
	}
}

func scoreBuckets(text string, buckets []weightedKeywords) int {
	score := 0
	for _, bucket := range buckets {
		for _, keyword := range bucket.keywords {
			if count := strings.Count(text, keyword); count > 0 {
				score += count * bucket.weight
			}
		}
	}
	return score
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
