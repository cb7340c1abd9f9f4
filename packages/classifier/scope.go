package classifier

import (
	"regexp"
	"strings"

	"domaincheck/packages/domain"
)

const (
	propertyTypeKeywordScore = 3
	propertyTypeSeasonalScore = 5
	propertyTypeAmenityScore  = 4

	geoKeywordScore      = 10
	geoPatternScore      = 15
	geoDefaultConfidence = 50
)

// ClassifyPropertyType picks the property setting (beach, mountain, lake,
// urban, rural) with the strongest keyword evidence.
func ClassifyPropertyType(pageText string) domain.PropertyType {
	best := domain.PropertyType{Type: "general"}
	bestScore := 0
	for _, pattern := range propertyTypePatterns {
		score := 0
		for _, keyword := range pattern.keywords {
			if strings.Contains(pageText, keyword) {
				score += propertyTypeKeywordScore
			}
		}
		for _, phrase := range pattern.seasonal {
			if strings.Contains(pageText, phrase) {
				score += propertyTypeSeasonalScore
			}
		}
		for _, amenity := range pattern.amenities {
			if strings.Contains(pageText, amenity) {
				score += propertyTypeAmenityScore
			}
		}
		if score > bestScore {
			bestScore = score
			best = domain.PropertyType{
				Type:       pattern.name,
				Confidence: min(domain.MaxConfidence, score*2),
			}
		}
	}
	return best
}

var geoScopeRes = func() map[string][]*regexp.Regexp {
	compiled := make(map[string][]*regexp.Regexp, len(geoScopePatterns))
	for _, pattern := range geoScopePatterns {
		compiled[pattern.scope] = compileAll(pattern.patterns)
	}
	return compiled
}()

// DetectGeographicScope ranks local/regional/national/international reach.
// Plain single-property sites default to local.
func DetectGeographicScope(pageText string) domain.GeographicScope {
	best := domain.GeographicScope{Scope: "local", Confidence: geoDefaultConfidence}
	bestScore := 0
	for _, pattern := range geoScopePatterns {
		score := 0
		for _, keyword := range pattern.keywords {
			if strings.Contains(pageText, keyword) {
				score += geoKeywordScore
			}
		}
		for _, re := range geoScopeRes[pattern.scope] {
			if re.MatchString(pageText) {
				score += geoPatternScore
			}
		}
		if score > bestScore {
			bestScore = score
			best = domain.GeographicScope{
				Scope:      pattern.scope,
				Confidence: min(domain.MaxConfidence, score*3),
			}
		}
	}
	return best
}
