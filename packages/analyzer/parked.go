// Package analyzer holds the content-health checks that run before
// classification: parked-domain detection, hacked-site detection and
// language detection.
package analyzer

import "strings"

// parkedIndicators is the broad phrase list for registrar landers,
// hosting defaults and for-sale pages.
var parkedIndicators = []string{
	"domain for sale", "buy this domain", "parked domain", "coming soon",
	"under construction", "this domain is for sale", "expired domain",
	"register this domain", "domain parking", "premium domain",
	"inquire about this domain", "make an offer", "domain auction",
	"brandable domain", "great domain", "perfect domain", "domain available",
	"inquire now", "buy now", "purchase this domain", "acquire this domain",
	"godaddy", "namecheap", "sedo", "afternic", "hugedomains", "dan.com",
	"escrow.com", "flippa", "brandpa", "squadhelp", "undeveloped",
	"domain.com", "name.com", "networksolutions", "dynadot",
	"brandable.com", "brandroot", "domainhostingview", "whois.net",
	"domainmarket", "premiumdomains", "brandbucket", "namerific",
	"placeholder page", "temporary page", "site coming soon",
	"website coming soon", "launching soon", "site under development",
	"default page", "apache2 debian default page", "nginx default page",
	"it works!", "apache2 ubuntu default page", "welcome to nginx",
	"cpanel", "whm", "plesk", "directadmin", "hostgator", "bluehost",
	"shared hosting", "web hosting", "hosting account", "server default",
	"this domain is hosted by", "powered by", "hosted on",
	"this site is temporarily unavailable", "account suspended",
	"domain suspended", "hosting account suspended", "service unavailable",
	"bandwidth limit exceeded", "quota exceeded", "site maintenance",
	"temporarily down", "website offline", "server error",
	"suspended domain", "suspended account", "terms of service violation",
	"directory listing", "index of /", "apache directory listing",
	"welcome to your new website", "congratulations on your new domain",
	"this domain has been registered", "domain successfully registered",
	"thank you for registering", "domain registration successful",
	"business for sale", "website for sale", "established domain",
	"traffic included", "seo optimized domain", "keyword rich domain",
	"exact match domain", "premium .com domain", "valuable domain",
	"investment opportunity", "revenue generating", "monetized domain",
	"landing page", "lead capture", "affiliate marketing", "monetization",
	"ppc ready", "adsense ready", "revenue potential", "traffic value",
	"type-in traffic", "direct navigation", "category killer",
	".gallery domain", ".ist domain", ".qa domain", "new tld",
	"premium extension", "new domain extension",
}

// strongParkedIndicators are the only signals trusted when the page also
// reads like a vacation-rental site; minimal legitimate property pages
// trip the broad list far too often.
var strongParkedIndicators = []string{
	"domain for sale", "buy this domain", "this domain is for sale",
	"domain parking", "hugedomains", "godaddy auction",
}

var rentalLeniencyKeywords = []string{
	"vacation rental", "holiday home", "beach house", "cabin",
	"cottage", "villa", "property rental", "book now", "check availability",
}

// minimalPatterns mark a thin page whose few words are all about
// selling the domain itself.
var minimalPatterns = []string{
	"domain", "sale", "buy", "purchase", "available", "premium",
	"coming soon", "under construction", "placeholder",
}

const (
	rentalLeniencyMin  = 2
	minimalWordCount   = 100
	minimalPatternsMin = 3
)

// IsParked reports whether page content is a parked or placeholder page
// rather than a real site. pageText must already be lower-cased.
func IsParked(pageText, title string) bool {
	text := pageText + " " + strings.ToLower(title)

	rentalHits := 0
	for _, keyword := range rentalLeniencyKeywords {
		if strings.Contains(text, keyword) {
			rentalHits++
		}
	}
	if rentalHits >= rentalLeniencyMin {
		for _, indicator := range strongParkedIndicators {
			if strings.Contains(text, indicator) {
				return true
			}
		}
		return false
	}

	if len(strings.Fields(pageText)) < minimalWordCount {
		patternHits := 0
		for _, pattern := range minimalPatterns {
			if strings.Contains(text, pattern) {
				patternHits++
			}
		}
		if patternHits >= minimalPatternsMin {
			return true
		}
	}

	for _, indicator := range parkedIndicators {
		if strings.Contains(text, indicator) {
			return true
		}
	}
	return false
}
