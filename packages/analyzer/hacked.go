package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"domaincheck/packages/domain"
)

// spamKeywords covers the payload categories commonly injected into
// compromised small-business sites.
var spamKeywords = []string{
	// pharmacy spam
	"viagra", "cialis", "levitra", "pharmacy", "prescription drugs",
	"buy pills online", "cheap meds", "online pharmacy", "medications",

	// casino and gambling spam
	"online casino", "poker online", "slots", "gambling", "bet online",
	"play casino", "win money", "jackpot", "betting site",

	// adult content
	"xxx", "porn", "adult content", "sex", "nude", "escorts",

	// loan scams
	"payday loan", "quick loan", "fast cash", "instant approval",
	"bad credit loan", "no credit check", "guaranteed approval",

	// crypto scams
	"bitcoin mining", "crypto investment", "blockchain profit",
	"cryptocurrency trading", "btc doubler", "ethereum giveaway",

	// SEO spam
	"seo services", "backlinks for sale", "link building",
	"google ranking", "first page guaranteed",

	// misc spam
	"replica watches", "fake documents", "essay writing service",
	"weight loss pills", "work from home", "make money online",
}

var suspiciousScriptTerms = []string{"eval(", "base64", "fromcharcode", "unescape"}

var trustedRedirectBrands = []string{"google", "facebook", "microsoft"}

var trustedIframeSources = []string{"youtube", "vimeo", "google", "facebook"}

var hiddenStyleRe = regexp.MustCompile(`display:\s*none|visibility:\s*hidden`)

// Additive scores for each hacked-site signal.
const (
	scoreManyRedirects      = 20
	scoreCrossDomain        = 30
	scoreSpamKeyword        = 10
	scoreHiddenElements     = 15
	scoreSuspiciousScripts  = 20
	scoreHiddenIframes      = 25
	scoreTitleMismatch      = 30
	manyRedirectsThreshold  = 2
	hiddenElementsThreshold = 5
	suspiciousScriptsMin    = 2
)

// DetectHacked scores a page for compromise indicators. The score is
// additive across independent signals; at or above threshold the site is
// flagged and excluded from business classification.
func DetectHacked(fetch *domain.FetchOutcome, signals *domain.ContentSignals, threshold int) domain.HackedResult {
	score := 0
	var indicators []string
	textLower := strings.ToLower(signals.FullText)

	if fetch.RedirectCount > manyRedirectsThreshold {
		score += scoreManyRedirects
		indicators = append(indicators, "Multiple suspicious redirects")
	}
	if crossDomainRedirect(fetch) {
		score += scoreCrossDomain
		indicators = append(indicators, fmt.Sprintf("Redirected to different domain: %s", fetch.FinalHost))
	}

	var spamFound []string
	for _, keyword := range spamKeywords {
		if strings.Contains(textLower, keyword) {
			spamFound = append(spamFound, keyword)
			score += scoreSpamKeyword
		}
	}
	if len(spamFound) > 0 {
		sample := spamFound
		if len(sample) > 5 {
			sample = sample[:5]
		}
		indicators = append(indicators, fmt.Sprintf("Spam keywords found: %s", strings.Join(sample, ", ")))
	}

	if signals.Doc != nil {
		hidden := countHiddenElements(signals.Doc)
		if hidden > hiddenElementsThreshold {
			score += scoreHiddenElements
			indicators = append(indicators, fmt.Sprintf("Multiple hidden elements (%d)", hidden))
		}

		suspicious := countSuspiciousScripts(signals.Doc)
		if suspicious > suspiciousScriptsMin {
			score += scoreSuspiciousScripts
			indicators = append(indicators, fmt.Sprintf("Suspicious scripts detected (%d)", suspicious))
		}

		if n := countHiddenIframes(signals.Doc); n > 0 {
			score += scoreHiddenIframes
			indicators = append(indicators, fmt.Sprintf("Hidden iframes detected: %d", n))
		}
	}

	titleLower := strings.ToLower(signals.Title)
	if strings.Contains(titleLower, "vacation rental") {
		for _, spam := range []string{"viagra", "casino", "porn"} {
			if strings.Contains(textLower, spam) {
				score += scoreTitleMismatch
				indicators = append(indicators, "Content doesn't match title/industry")
				break
			}
		}
	}

	return domain.HackedResult{
		IsHacked:   score >= threshold,
		Score:      score,
		Confidence: min(95, score),
		Indicators: indicators,
	}
}

// crossDomainRedirect reports whether the fetch landed on a different
// registrable host than requested. A bare www prefix is not a different
// domain, and redirects into the big platform brands are ignored.
func crossDomainRedirect(fetch *domain.FetchOutcome) bool {
	if fetch.RedirectCount == 0 || fetch.FinalHost == "" || fetch.Domain == "" {
		return false
	}
	final := strings.TrimPrefix(strings.ToLower(fetch.FinalHost), "www.")
	requested := strings.TrimPrefix(fetch.Domain, "www.")
	if final == requested {
		return false
	}
	for _, brand := range trustedRedirectBrands {
		if strings.Contains(final, brand) {
			return false
		}
	}
	return true
}

func countHiddenElements(doc *goquery.Document) int {
	count := 0
	doc.Find("div[style], span[style]").Each(func(i int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		if hiddenStyleRe.MatchString(style) {
			count++
		}
	})
	return count
}

func countSuspiciousScripts(doc *goquery.Document) int {
	count := 0
	doc.Find("script").Each(func(i int, s *goquery.Selection) {
		text := strings.ToLower(s.Text())
		for _, term := range suspiciousScriptTerms {
			if strings.Contains(text, term) {
				count++
				break
			}
		}
	})
	return count
}

func countHiddenIframes(doc *goquery.Document) int {
	count := 0
	doc.Find("iframe[src]").Each(func(i int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		for _, trusted := range trustedIframeSources {
			if strings.Contains(src, trusted) {
				return
			}
		}
		style, _ := s.Attr("style")
		if hiddenStyleRe.MatchString(style) {
			count++
		}
	})
	return count
}
