package classifier

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"domaincheck/packages/domain"
)

var (
	emailRe   = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRes  = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`),
		regexp.MustCompile(`\(\d{3}\)\s?\d{3}[-.\s]?\d{4}`),
		regexp.MustCompile(`\+\d{1,3}[-.\s]?\d{3,4}[-.\s]?\d{3,4}[-.\s]?\d{3,4}`),
	}
	usPhoneRe = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
)

var businessIndicators = []string{
	"about us", "contact us", "services", "products", "company",
	"business", "team", "careers", "support", "customer",
	"phone", "email", "address", "location", "hours",
}

var rentalBusinessTerms = []string{
	"vacation rental", "holiday rental", "property rental",
	"beach house", "cabin rental", "vacation home",
}

var rentalBusinessIndicators = []string{
	"contact", "email", "phone", "book", "availability",
	"property", "rental", "rate", "price", "location",
}

// IsBusinessWebsite decides whether a working page represents a real
// business. Rental pages get a lower bar: thin single-property sites are
// exactly the leads being hunted.
func IsBusinessWebsite(doc *goquery.Document, pageText string) bool {
	for _, term := range rentalBusinessTerms {
		if strings.Contains(pageText, term) {
			hits := 0
			for _, indicator := range rentalBusinessIndicators {
				if strings.Contains(pageText, indicator) {
					hits++
				}
			}
			if hits >= 2 {
				return true
			}
			break
		}
	}

	contentHits := 0
	for _, indicator := range businessIndicators {
		if strings.Contains(pageText, indicator) {
			contentHits++
		}
	}

	hasContact := usPhoneRe.MatchString(pageText) || emailRe.MatchString(pageText)
	hasNavigation := doc != nil && doc.Find("nav, menu").Length() > 0

	score := 0
	if hasNavigation {
		score += 2
	}
	if contentHits >= 3 {
		score += 2
	}
	if hasContact {
		score += 2
	}
	if len(strings.Fields(pageText)) > 50 {
		score++
	}
	return score >= 3
}

// ExtractBusinessInfo pulls the contact and location profile out of a
// business page: company name, emails, phones, address, country, cities,
// social links, hours and booking capability.
func ExtractBusinessInfo(doc *goquery.Document) domain.BusinessInfo {
	var info domain.BusinessInfo
	if doc == nil {
		info.SocialMedia = map[string]string{}
		return info
	}
	pageText := doc.Text()
	textLower := strings.ToLower(pageText)

	info.CompanyName = extractCompanyName(doc)
	info.Emails, info.PrimaryEmail = extractEmails(pageText)
	info.Phones, info.PrimaryPhone = extractPhones(pageText)
	info.Address = extractAddress(doc, pageText)

	country, confidence, state := detectCountry(doc, pageText, info.Address)
	info.Country = country
	info.CountryConfidence = confidence
	info.StateProvince = state

	info.City = extractCities(pageText, country)
	info.LocalArea = extractLocalAreas(pageText)
	info.ServesLocations = extractServiceAreas(pageText)
	info.SocialMedia = extractSocialLinks(doc)
	info.BusinessHours = extractBusinessHours(textLower)

	for _, indicator := range []string{"book now", "reserve now", "schedule appointment", "book online", "make reservation"} {
		if strings.Contains(textLower, indicator) {
			info.HasOnlineBooking = true
			break
		}
	}

	info.Metrics = AnalyzeWebsiteMetrics(doc)
	return info
}

func extractCompanyName(doc *goquery.Document) string {
	name := strings.TrimSpace(doc.Find("h1").First().Text())
	if len(name) >= 3 {
		return name
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	for _, suffix := range []string{" - Home", " | Home", " - Welcome", " | Welcome"} {
		title = strings.ReplaceAll(title, suffix, "")
	}
	return title
}

func extractEmails(pageText string) ([]string, string) {
	seen := make(map[string]struct{})
	var emails []string
	for _, email := range emailRe.FindAllString(pageText, -1) {
		lower := strings.ToLower(email)
		if _, dup := seen[lower]; dup {
			continue
		}
		skip := false
		for _, junk := range []string{"noreply", "donotreply", "example", "test", "spam"} {
			if strings.Contains(lower, junk) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		seen[lower] = struct{}{}
		emails = append(emails, email)
		if len(emails) == 5 {
			break
		}
	}
	primary := ""
	if len(emails) > 0 {
		primary = emails[0]
	}
	return emails, primary
}

func extractPhones(pageText string) ([]string, string) {
	seen := make(map[string]struct{})
	var phones []string
	for _, re := range phoneRes {
		for _, phone := range re.FindAllString(pageText, -1) {
			phone = strings.TrimSpace(phone)
			if _, dup := seen[phone]; dup {
				continue
			}
			switch phone {
			case "111-111-1111", "123-456-7890", "000-000-0000":
				continue
			}
			seen[phone] = struct{}{}
			phones = append(phones, phone)
			if len(phones) == 3 {
				return phones, phones[0]
			}
		}
	}
	primary := ""
	if len(phones) > 0 {
		primary = phones[0]
	}
	return phones, primary
}

var addressRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\d+\s+[A-Za-z0-9\s,.-]+(?:Street|St|Avenue|Ave|Road|Rd|Drive|Dr|Lane|Ln|Boulevard|Blvd|Way|Court|Ct|Place|Pl)\s*,?\s*[A-Za-z\s]+,?\s*[A-Z]{2}\s+\d{5}`),
	regexp.MustCompile(`(?i)P\.?O\.?\s+Box\s+\d+,?\s*[A-Za-z\s]+,?\s*[A-Z]{2}\s+\d{5}`),
}

func extractAddress(doc *goquery.Document, pageText string) string {
	for _, re := range addressRes {
		for _, match := range re.FindAllString(pageText, -1) {
			if len(match) > 20 {
				return strings.TrimSpace(match)
			}
		}
	}
	address := ""
	doc.Find("div, section").EachWithBreak(func(i int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if !strings.Contains(strings.ToLower(class), "contact") && !strings.Contains(strings.ToLower(class), "address") {
			return true
		}
		for _, re := range addressRes {
			if match := re.FindString(s.Text()); match != "" {
				address = strings.TrimSpace(match)
				return false
			}
		}
		return true
	})
	return address
}

type countryProfile struct {
	name       string
	patterns   []*regexp.Regexp
	indicators []string
	regions    []string
	tlds       []string
}

var countryProfiles = []countryProfile{
	{
		name: "United States",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:USA|United States|America)\b`),
			regexp.MustCompile(`\b[A-Z]{2}\s+\d{5}(?:-\d{4})?\b`),
		},
		indicators: []string{"usd", "dollars", "zip", "county"},
		regions: []string{"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado",
			"Connecticut", "Delaware", "Florida", "Georgia", "Hawaii", "Idaho", "Illinois",
			"Indiana", "Iowa", "Kansas", "Kentucky", "Louisiana", "Maine", "Maryland",
			"Massachusetts", "Michigan", "Minnesota", "Mississippi", "Missouri", "Montana",
			"Nebraska", "Nevada", "New Hampshire", "New Jersey", "New Mexico", "New York",
			"North Carolina", "North Dakota", "Ohio", "Oklahoma", "Oregon", "Pennsylvania",
			"Rhode Island", "South Carolina", "South Dakota", "Tennessee", "Texas", "Utah",
			"Vermont", "Virginia", "Washington", "West Virginia", "Wisconsin", "Wyoming"},
	},
	{
		name: "Canada",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bCanada\b`),
			regexp.MustCompile(`\b[A-Z]\d[A-Z]\s*\d[A-Z]\d\b`),
		},
		indicators: []string{"cad", "canadian", "province", "postal code"},
		regions: []string{"Alberta", "British Columbia", "Manitoba", "New Brunswick",
			"Newfoundland and Labrador", "Nova Scotia", "Ontario", "Prince Edward Island",
			"Quebec", "Saskatchewan", "Yukon"},
		tlds: []string{".ca"},
	},
	{
		name: "United Kingdom",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:UK|United Kingdom|Britain|England|Scotland|Wales|Northern Ireland)\b`),
			regexp.MustCompile(`\b[A-Z]{1,2}\d[A-Z\d]?\s*\d[A-Z]{2}\b`),
		},
		indicators: []string{"£", "gbp", "pounds", "postcode", "shire"},
		regions:    []string{"England", "Scotland", "Wales", "Northern Ireland"},
		tlds:       []string{".uk", ".co.uk"},
	},
	{
		name: "Australia",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bAustralia\b`),
			regexp.MustCompile(`\b\d{4}\s*(?:NSW|VIC|QLD|WA|SA|TAS|ACT|NT)\b`),
		},
		indicators: []string{"aud", "australian"},
		regions: []string{"New South Wales", "Victoria", "Queensland", "Western Australia",
			"South Australia", "Tasmania", "Northern Territory"},
		tlds: []string{".au", ".com.au"},
	},
	{
		name:       "Germany",
		patterns:   []*regexp.Regexp{regexp.MustCompile(`\bDeutschland\b|\bGermany\b`)},
		indicators: []string{"eur", "€", "euros", "german"},
		regions:    []string{"Bavaria", "Baden-Württemberg", "North Rhine-Westphalia", "Berlin", "Hamburg"},
		tlds:       []string{".de"},
	},
	{
		name:       "France",
		patterns:   []*regexp.Regexp{regexp.MustCompile(`\bFrance\b|\bFrançais\b`)},
		indicators: []string{"eur", "€", "euros", "french"},
		regions:    []string{"Paris", "Lyon", "Marseille", "Toulouse", "Nice"},
		tlds:       []string{".fr"},
	},
	{
		name:       "Spain",
		patterns:   []*regexp.Regexp{regexp.MustCompile(`\bSpain\b|\bEspaña\b`)},
		indicators: []string{"eur", "€", "euros", "spanish"},
		regions:    []string{"Madrid", "Barcelona", "Valencia", "Seville", "Bilbao"},
		tlds:       []string{".es"},
	},
	{
		name:       "Italy",
		patterns:   []*regexp.Regexp{regexp.MustCompile(`\bItaly\b|\bItalia\b`)},
		indicators: []string{"eur", "€", "euros", "italian"},
		regions:    []string{"Rome", "Milan", "Naples", "Turin", "Florence"},
		tlds:       []string{".it"},
	},
	{
		name:       "Netherlands",
		patterns:   []*regexp.Regexp{regexp.MustCompile(`\bNetherlands\b|\bHolland\b`)},
		indicators: []string{"eur", "€", "euros", "dutch"},
		regions:    []string{"Amsterdam", "Rotterdam", "The Hague", "Utrecht"},
		tlds:       []string{".nl"},
	},
	{
		name:       "Mexico",
		patterns:   []*regexp.Regexp{regexp.MustCompile(`\bMexico\b|\bMéxico\b`)},
		indicators: []string{"mxn", "pesos", "mexican"},
		regions:    []string{"Mexico City", "Guadalajara", "Monterrey", "Cancun", "Puerto Vallarta"},
		tlds:       []string{".mx", ".com.mx"},
	},
}

func detectCountry(doc *goquery.Document, pageText, address string) (string, int, string) {
	textLower := strings.ToLower(pageText)
	scores := make(map[string]int)
	statePerCountry := make(map[string]string)

	for _, profile := range countryProfiles {
		score := 0
		for _, re := range profile.patterns {
			if matches := len(re.FindAllString(pageText, -1)); matches > 0 {
				score += matches * 10
			}
		}
		for _, indicator := range profile.indicators {
			if strings.Contains(textLower, indicator) {
				score += 5
			}
		}
		for _, region := range profile.regions {
			if strings.Contains(textLower, strings.ToLower(region)) {
				score += 8
				statePerCountry[profile.name] = region
			}
		}
		if address != "" {
			for _, re := range profile.patterns {
				if re.MatchString(address) {
					score += 15
				}
			}
		}
		if score > 0 {
			scores[profile.name] = score
		}
	}

	// The canonical link carries the TLD hint when present.
	if canonical, ok := doc.Find("link[rel='canonical']").Attr("href"); ok {
		for _, profile := range countryProfiles {
			for _, tld := range profile.tlds {
				if strings.Contains(canonical, tld) {
					scores[profile.name] += 12
				}
			}
		}
	}

	if len(scores) == 0 {
		return "", 0, ""
	}
	best, bestScore, total := "", 0, 0
	for _, profile := range countryProfiles {
		score := scores[profile.name]
		total += score
		if score > bestScore {
			best, bestScore = profile.name, score
		}
	}
	confidence := 0
	if total > 0 {
		confidence = min(95, bestScore*100/total)
	}
	return best, confidence, statePerCountry[best]
}

var cityDatabases = map[string][]string{
	"United States": {
		"New York", "Los Angeles", "Chicago", "Houston", "Phoenix", "Philadelphia",
		"San Antonio", "San Diego", "Dallas", "San Jose", "Austin", "Jacksonville",
		"Fort Worth", "Columbus", "Charlotte", "San Francisco", "Indianapolis",
		"Seattle", "Denver", "Washington", "Boston", "El Paso", "Nashville",
		"Detroit", "Oklahoma City", "Portland", "Las Vegas", "Memphis", "Louisville",
		"Baltimore", "Milwaukee", "Albuquerque", "Tucson", "Fresno", "Sacramento",
		"Mesa", "Kansas City", "Atlanta", "Long Beach", "Colorado Springs", "Raleigh",
		"Miami", "Virginia Beach", "Omaha", "Oakland", "Minneapolis", "Tulsa",
		"Arlington", "Tampa", "New Orleans", "Wichita", "Cleveland", "Bakersfield",
	},
	"Canada": {
		"Toronto", "Montreal", "Vancouver", "Calgary", "Edmonton", "Ottawa",
		"Winnipeg", "Quebec City", "Hamilton", "Kitchener", "London", "Victoria",
		"Halifax", "Windsor", "Saskatoon", "Regina", "Kelowna", "Barrie", "Guelph",
	},
	"United Kingdom": {
		"London", "Birmingham", "Manchester", "Glasgow", "Liverpool", "Edinburgh",
		"Leeds", "Sheffield", "Bristol", "Cardiff", "Leicester", "Belfast",
		"Nottingham", "Newcastle", "Brighton", "Hull", "Plymouth", "Southampton", "Aberdeen",
	},
	"Australia": {
		"Sydney", "Melbourne", "Brisbane", "Perth", "Adelaide", "Gold Coast",
		"Newcastle", "Canberra", "Sunshine Coast", "Wollongong", "Geelong",
		"Hobart", "Townsville", "Cairns", "Darwin",
	},
}

var cityContextRes = []*regexp.Regexp{
	regexp.MustCompile(`\blocated\s+in\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`),
	regexp.MustCompile(`\bserving\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`),
	regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?),\s*[A-Z]{2}\b`),
}

func extractCities(pageText, country string) string {
	var cities []string
	seen := make(map[string]struct{})
	add := func(city string) {
		if len(city) <= 2 || len(cities) >= 3 {
			return
		}
		if _, dup := seen[city]; dup {
			return
		}
		seen[city] = struct{}{}
		cities = append(cities, city)
	}

	textLower := strings.ToLower(pageText)
	for _, city := range cityDatabases[country] {
		if strings.Contains(textLower, strings.ToLower(city)) {
			add(city)
		}
	}
	for _, re := range cityContextRes {
		for _, match := range re.FindAllStringSubmatch(pageText, -1) {
			add(match[1])
		}
	}
	return strings.Join(cities, ", ")
}

var localAreaRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bdowntown\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`),
	regexp.MustCompile(`(?i)\bminutes\s+from\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`),
	regexp.MustCompile(`(?i)\bin\s+the\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s+area\b`),
	regexp.MustCompile(`(?i)\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s+neighborhood\b`),
}

func extractLocalAreas(pageText string) string {
	var areas []string
	seen := make(map[string]struct{})
	for _, re := range localAreaRes {
		for _, match := range re.FindAllStringSubmatch(pageText, -1) {
			area := match[1]
			if len(area) <= 2 {
				continue
			}
			if _, dup := seen[area]; dup {
				continue
			}
			seen[area] = struct{}{}
			areas = append(areas, area)
			if len(areas) == 3 {
				return strings.Join(areas, ", ")
			}
		}
	}
	return strings.Join(areas, ", ")
}

var serviceAreaRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bserving\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?(?:,\s*[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)*)`),
	regexp.MustCompile(`(?i)\bwe\s+serve\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?(?:,\s*[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)*)`),
	regexp.MustCompile(`(?i)\bavailable\s+in\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?(?:,\s*[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)*)`),
}

func extractServiceAreas(pageText string) []string {
	seen := make(map[string]struct{})
	var areas []string
	for _, re := range serviceAreaRes {
		for _, match := range re.FindAllStringSubmatch(pageText, -1) {
			for _, area := range strings.Split(match[1], ",") {
				area = strings.TrimSpace(area)
				if area == "" {
					continue
				}
				if _, dup := seen[area]; dup {
					continue
				}
				seen[area] = struct{}{}
				areas = append(areas, area)
				if len(areas) == 5 {
					return areas
				}
			}
		}
	}
	return areas
}

var socialPlatformDomains = map[string][]string{
	"facebook":  {"facebook.com", "fb.com"},
	"twitter":   {"twitter.com", "x.com"},
	"instagram": {"instagram.com"},
	"linkedin":  {"linkedin.com"},
	"youtube":   {"youtube.com", "youtu.be"},
	"tiktok":    {"tiktok.com"},
	"pinterest": {"pinterest.com"},
	"whatsapp":  {"whatsapp.com", "wa.me"},
	"telegram":  {"telegram.me", "t.me"},
}

func extractSocialLinks(doc *goquery.Document) map[string]string {
	links := make(map[string]string)
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		lower := strings.ToLower(href)
		if strings.HasPrefix(lower, "/") && !strings.HasPrefix(lower, "//") {
			return
		}
		for platform, domains := range socialPlatformDomains {
			for _, d := range domains {
				if strings.Contains(lower, d) {
					if strings.HasPrefix(href, "//") {
						href = "https:" + href
					}
					links[platform] = href
					return
				}
			}
		}
	})
	return links
}

var hoursRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:mon|tue|wed|thu|fri|sat|sun)[a-z]*[:\s-]*\s*\d{1,2}[:\s]*\d{0,2}\s*(?:am|pm)?[\s-]*\d{1,2}[:\s]*\d{0,2}\s*(?:am|pm)?`),
	regexp.MustCompile(`(?i)hours?\s*:?\s*\d{1,2}[:\s]*\d{0,2}\s*(?:am|pm)?[\s-]*\d{1,2}[:\s]*\d{0,2}\s*(?:am|pm)?`),
	regexp.MustCompile(`(?i)open\s*:?\s*\d{1,2}[:\s]*\d{0,2}\s*(?:am|pm)?[\s-]*\d{1,2}[:\s]*\d{0,2}\s*(?:am|pm)?`),
}

func extractBusinessHours(textLower string) string {
	seen := make(map[string]struct{})
	var hours []string
	for _, re := range hoursRes {
		for _, match := range re.FindAllString(textLower, -1) {
			match = strings.TrimSpace(match)
			if _, dup := seen[match]; dup {
				continue
			}
			seen[match] = struct{}{}
			hours = append(hours, match)
			if len(hours) == 3 {
				return strings.Join(hours, "; ")
			}
		}
	}
	if strings.Contains(textLower, "24/7") || strings.Contains(textLower, "24 hours") {
		hours = append(hours, "24/7")
	}
	return strings.Join(hours, "; ")
}
