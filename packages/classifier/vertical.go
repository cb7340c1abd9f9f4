package classifier

import (
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"domaincheck/packages/domain"
)

// Category scoring weights for the business-model decision.
const (
	marketplaceStrongScore = 10
	marketplaceWeakScore   = 3
	b2bStrongScore         = 8
	b2bMediumScore         = 4
	b2bWeakScore           = 2
	marketingScore         = 3
	aggregatorScore        = 3
	operatorStrongScore    = 10
	operatorMediumScore    = 8
	operatorWeakScore      = 3
	operatorPropertyScore  = 3
	operatorLocationScore  = 2

	listingShortCircuitConf = 70
	listingForceConf        = 60
	listingPenaltyConf      = 50
	marketplaceURLConf      = 95
)

// Fleet-size bands that split target operators from oversized accounts.
const (
	directOwnerSmallMax       = 5
	directOwnerMediumMax      = 15
	propertyManagerSmallMax   = 50
	propertyManagerMediumMax  = 200
)

// ClassifyVerticalModel decides the business model of a vacation-rental
// page and whether it is an outreach target. Third-party listing pages
// and marketplace platforms are ruled out first; surviving pages compete
// across operator, B2B, marketing and aggregator scores, then get banded
// by fleet size.
func ClassifyVerticalModel(doc *goquery.Document, pageText, finalURL string,
	count domain.PropertyCount, dm domain.DecisionMaker, upgrade domain.UpgradeNeed,
	geo domain.GeographicScope, size domain.SizeResult) domain.VerticalModel {

	// A known marketplace host settles the model outright, even when the
	// page itself looks like a property listing.
	urlLower := strings.ToLower(finalURL)
	for _, indicator := range marketplaceURLIndicators {
		if strings.Contains(urlLower, indicator) {
			return domain.VerticalModel{
				Model:           domain.ModelMarketplacePlatform,
				ExclusionReason: domain.ExclusionMarketplace,
				Confidence:      marketplaceURLConf,
			}
		}
	}

	listing := detectThirdPartyListing(doc, pageText, finalURL)
	if listing.Confidence > listingShortCircuitConf {
		return domain.VerticalModel{
			Model:           domain.ModelThirdPartyListing,
			ExclusionReason: domain.ExclusionListing,
			Confidence:      min(domain.MaxConfidence, listing.Confidence),
		}
	}

	scores := map[string]int{}
	scores[domain.ModelMarketplacePlatform] = scoreCategory(pageText,
		weighted{marketplaceStrongScore, marketplaceKeywordsStrong},
		weighted{marketplaceWeakScore, marketplaceKeywords})
	scores[domain.ModelB2BServiceProvider] = scoreCategory(pageText,
		weighted{b2bStrongScore, b2bKeywordsStrong},
		weighted{b2bMediumScore, b2bKeywordsMedium},
		weighted{b2bWeakScore, b2bKeywords})
	scores[domain.ModelMarketingService] = scoreCategory(pageText,
		weighted{marketingScore, marketingKeywords})
	scores[domain.ModelAggregatorSite] = scoreCategory(pageText,
		weighted{aggregatorScore, aggregatorKeywords})
	if listing.Confidence > 0 {
		scores[domain.ModelThirdPartyListing] = listing.Score
	}

	operatorScore := scoreCategory(pageText,
		weighted{operatorStrongScore, operatorKeywordsStrong},
		weighted{operatorMediumScore, operatorKeywordsMedium},
		weighted{operatorWeakScore, operatorKeywords})
	operatorScore += scorePresence(pageText,
		weighted{operatorPropertyScore, operatorPropertyTypes},
		weighted{operatorLocationScore, operatorLocationPhrases})

	// Listing evidence that fell short of the short circuit still argues
	// against the page being the operator's own site.
	if listing.Confidence > listingPenaltyConf {
		operatorScore -= listing.Confidence / 10
		if operatorScore < 0 {
			operatorScore = 0
		}
	}
	scores[domain.ModelDirectRentalOperator] = operatorScore

	bestModel, bestScore, total := domain.ModelUnknown, 0, 0
	for _, model := range []string{
		domain.ModelMarketplacePlatform,
		domain.ModelB2BServiceProvider,
		domain.ModelMarketingService,
		domain.ModelAggregatorSite,
		domain.ModelDirectRentalOperator,
		domain.ModelThirdPartyListing,
	} {
		total += scores[model]
		if scores[model] > bestScore {
			bestModel, bestScore = model, scores[model]
		}
	}
	if bestScore == 0 {
		return domain.VerticalModel{Model: domain.ModelUnknown}
	}

	// Winner confidence is its share of all category evidence.
	confidence := min(domain.MaxConfidence, int(math.Round(float64(bestScore)/float64(total)*100)))

	if bestModel == domain.ModelThirdPartyListing || listing.Confidence > listingForceConf {
		return domain.VerticalModel{
			Model:           domain.ModelThirdPartyListing,
			ExclusionReason: domain.ExclusionListing,
			Confidence:      min(domain.MaxConfidence, max(confidence, listing.Confidence)),
		}
	}

	switch bestModel {
	case domain.ModelMarketplacePlatform:
		return domain.VerticalModel{Model: bestModel, ExclusionReason: domain.ExclusionMarketplace, Confidence: confidence}
	case domain.ModelB2BServiceProvider:
		return domain.VerticalModel{Model: bestModel, ExclusionReason: domain.ExclusionB2B, Confidence: confidence}
	case domain.ModelMarketingService:
		return domain.VerticalModel{Model: bestModel, ExclusionReason: domain.ExclusionMarketing, Confidence: confidence}
	case domain.ModelAggregatorSite:
		return domain.VerticalModel{Model: bestModel, ExclusionReason: domain.ExclusionAggregator, Confidence: confidence}
	}

	return bandOperator(confidence, count, dm, upgrade, geo, size)
}

type weighted struct {
	score    int
	keywords []string
}

// scoreCategory weights every occurrence of a keyword, so a page that
// repeats its category vocabulary outscores one that mentions it once.
// A keyword listed in more than one tier counts only at the first, so
// the strong tiers must come before the catch-all list.
func scoreCategory(pageText string, groups ...weighted) int {
	total := 0
	seen := map[string]struct{}{}
	for _, group := range groups {
		for _, keyword := range group.keywords {
			if _, dup := seen[keyword]; dup {
				continue
			}
			seen[keyword] = struct{}{}
			total += strings.Count(pageText, keyword) * group.score
		}
	}
	return total
}

// scorePresence weights each keyword at most once.
func scorePresence(pageText string, groups ...weighted) int {
	total := 0
	for _, group := range groups {
		for _, keyword := range group.keywords {
			if strings.Contains(pageText, keyword) {
				total += group.score
			}
		}
	}
	return total
}

// bandOperator splits confirmed operators into target bands by fleet
// size. Anything past 200 properties is an enterprise account and out of
// scope; an unknown fleet stays a generic operator at high priority since
// most sites that never state a count run one or two properties.
func bandOperator(confidence int, count domain.PropertyCount, dm domain.DecisionMaker,
	upgrade domain.UpgradeNeed, geo domain.GeographicScope, size domain.SizeResult) domain.VerticalModel {

	model := domain.ModelDirectRentalOperator
	priority := domain.PriorityHigh
	switch {
	case count.Count == 0:
		// keep defaults
	case count.Count <= directOwnerSmallMax:
		model = domain.ModelDirectOwnerSmall
	case count.Count <= directOwnerMediumMax:
		model = domain.ModelDirectOwnerMedium
	case count.Count <= propertyManagerSmallMax:
		model = domain.ModelPropertyManagerSmall
	case count.Count <= propertyManagerMediumMax:
		model = domain.ModelPropertyManagerMedium
		priority = domain.PriorityMedium
	default:
		return domain.VerticalModel{
			Model:           domain.ModelPropertyManagerLarge,
			ExclusionReason: domain.ExclusionTooLarge,
			Confidence:      confidence,
		}
	}

	score, factors := targetScore(count, dm, upgrade, geo, size)
	return domain.VerticalModel{
		Model:         model,
		Confidence:    confidence,
		IsTarget:      true,
		Priority:      priority,
		TargetScore:   score,
		TargetFactors: factors,
	}
}

// targetScore is a deterministic composite used to rank targets inside a
// priority band.
func targetScore(count domain.PropertyCount, dm domain.DecisionMaker,
	upgrade domain.UpgradeNeed, geo domain.GeographicScope, size domain.SizeResult) (int, []string) {

	score := 0
	var factors []string

	switch dm.Level {
	case "high":
		score += 30
		factors = append(factors, "decision_maker_high")
	case "medium":
		score += 15
		factors = append(factors, "decision_maker_medium")
	}
	if upgrade.NeedsUpgrade {
		score += 25
		factors = append(factors, "needs_upgrade")
	}
	if count.Count > 0 && count.Count <= directOwnerMediumMax {
		score += 20
		factors = append(factors, "small_fleet")
	} else if count.Count > 0 {
		score += 10
		factors = append(factors, "managed_fleet")
	}
	if geo.Scope == "local" {
		score += 10
		factors = append(factors, "local_operator")
	}
	if size.Size == domain.SizeSmall {
		score += 15
		factors = append(factors, "small_business")
	}
	return score, factors
}
