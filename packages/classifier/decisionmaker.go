package classifier

import (
	"regexp"
	"strings"

	"domaincheck/packages/domain"
)

const (
	dmPatternScore       = 20
	dmKeywordScore       = 10
	dmPersonalEmailScore = 25
	dmNegativeScore      = -15
	dmCorporateScore     = -20
	dmSmallSiteScore     = 10
	dmSmallSiteWordCap   = 1000
	dmHighThreshold      = 30
)

var decisionMakerRes = compileAll(decisionMakerPatterns)

// ScoreDecisionMakerAccess estimates how directly an outreach email would
// land with whoever owns the business. Owner-voice copy and personal
// email addresses push the score up; corporate bureaucracy pushes it down.
func ScoreDecisionMakerAccess(pageText string, emails []string, wordCount int) domain.DecisionMaker {
	score := 0
	var indicators []string

	for _, re := range decisionMakerRes {
		if re.MatchString(pageText) {
			score += dmPatternScore
			indicators = append(indicators, "owner_voice:"+re.String())
		}
	}
	for _, keyword := range decisionMakerKeywords {
		if strings.Contains(pageText, keyword) {
			score += dmKeywordScore
			indicators = append(indicators, "keyword:"+keyword)
		}
	}
	for _, email := range emails {
		if isPersonalEmail(email) {
			score += dmPersonalEmailScore
			indicators = append(indicators, "personal_email:"+email)
		}
	}
	for _, keyword := range decisionMakerNegativeKeywords {
		if strings.Contains(pageText, keyword) {
			score += dmNegativeScore
		}
	}
	for _, keyword := range corporateContactKeywords {
		if strings.Contains(pageText, keyword) {
			score += dmCorporateScore
		}
	}
	if wordCount > 0 && wordCount < dmSmallSiteWordCap {
		score += dmSmallSiteScore
		indicators = append(indicators, "small_site")
	}

	level := "low"
	switch {
	case score > dmHighThreshold:
		level = "high"
	case score > 0:
		level = "medium"
	}
	confidence := score
	if confidence < 0 {
		confidence = -confidence
	}
	return domain.DecisionMaker{
		Score:      score,
		Confidence: min(domain.MaxConfidence, confidence),
		Level:      level,
		Indicators: indicators,
	}
}

var emailLocalRe = regexp.MustCompile(`^([^@]+)@`)

func isPersonalEmail(email string) bool {
	lower := strings.ToLower(email)
	for _, prefix := range genericEmailPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}
	return emailLocalRe.MatchString(lower)
}
