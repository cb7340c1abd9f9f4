package classifier

import (
	"strings"

	"domaincheck/packages/domain"
)

// ClassifyIndustry scores each industry category by keyword occurrence,
// weighting hits found in the title x3 and in the description x2 over
// plain body hits. Ties break toward the earlier declared category.
func ClassifyIndustry(pageText, title, description string) domain.IndustryResult {
	allText := strings.ToLower(pageText + " " + title + " " + description)
	titleLower := strings.ToLower(title)
	descLower := strings.ToLower(description)

	best := domain.IndustryResult{Industry: "general_business"}
	bestScore := 0

	for _, industry := range industryKeywords {
		score := 0
		for _, keyword := range industry.keywords {
			frequency := strings.Count(allText, keyword)
			if frequency == 0 {
				continue
			}
			switch {
			case titleLower != "" && strings.Contains(titleLower, keyword):
				score += frequency * 3
			case descLower != "" && strings.Contains(descLower, keyword):
				score += frequency * 2
			default:
				score += frequency
			}
		}
		if score > bestScore {
			bestScore = score
			best.Industry = industry.name
		}
	}

	if bestScore > 0 {
		best.Confidence = min(95, bestScore*10)
	}
	return best
}
