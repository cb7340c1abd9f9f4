package classifier

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"domaincheck/packages/domain"
)

// AnalyzeWebsiteMetrics measures page structure. The complexity score is
// reused by both the size classifier and the upgrade scorer: simpler
// sites tend to be smaller businesses.
func AnalyzeWebsiteMetrics(doc *goquery.Document) domain.WebsiteMetrics {
	var m domain.WebsiteMetrics
	if doc == nil {
		return m
	}

	m.TotalLinks = doc.Find("a").Length()
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if strings.HasPrefix(href, "/") || !strings.HasPrefix(href, "http") {
			m.InternalLinks++
		}
	})
	m.ExternalLinks = m.TotalLinks - m.InternalLinks

	m.Images = doc.Find("img").Length()
	m.Forms = doc.Find("form").Length()
	m.Scripts = doc.Find("script").Length()
	m.Stylesheets = doc.Find("link[rel='stylesheet']").Length()

	doc.Find("nav, ul, ol").Each(func(i int, s *goquery.Selection) {
		m.NavigationItems += s.Find("li").Length()
	})

	m.Sections = doc.Find("section").Length()

	text := doc.Text()
	m.WordCount = len(strings.Fields(text))
	m.CharacterCount = len(text)

	m.Videos = doc.Find("video, iframe").Length()
	m.InteractiveElements = doc.Find("button, input, select, textarea").Length()

	score := 0
	switch {
	case m.WordCount > 5000:
		score += 15
	case m.WordCount > 2000:
		score += 10
	case m.WordCount > 500:
		score += 5
	}
	switch {
	case m.TotalLinks > 100:
		score += 10
	case m.TotalLinks > 50:
		score += 5
	}
	switch {
	case m.NavigationItems > 50:
		score += 8
	case m.NavigationItems > 20:
		score += 4
	}
	if m.Forms > 5 {
		score += 6
	}
	if m.Scripts > 20 {
		score += 8
	}
	if m.Images > 50 {
		score += 6
	}
	m.ComplexityScore = score
	return m
}

var socialPlatformNames = []string{
	"facebook", "twitter", "linkedin", "instagram", "youtube",
	"tiktok", "pinterest", "snapchat", "telegram", "whatsapp",
}

// analyzeSocialPresence counts distinct social platforms linked from the
// page plus sharing vocabulary in the text.
func analyzeSocialPresence(doc *goquery.Document, text string) int {
	score := 0
	if doc != nil {
		platforms := make(map[string]struct{})
		doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
			href, _ := s.Attr("href")
			href = strings.ToLower(href)
			for _, platform := range socialPlatformNames {
				if strings.Contains(href, platform) {
					platforms[platform] = struct{}{}
				}
			}
		})
		score += len(platforms) * 2
	}
	for _, indicator := range []string{"share", "tweet", "like", "follow"} {
		if strings.Contains(text, indicator) {
			score++
		}
	}
	return score
}

var employeeCountRes = []*regexp.Regexp{
	regexp.MustCompile(`(\d[\d,]*)\+?\s*employees`),
	regexp.MustCompile(`over\s+(\d[\d,]*)\s*employees`),
	regexp.MustCompile(`more than\s+(\d[\d,]*)\s*employees`),
	regexp.MustCompile(`(\d[\d,]*)\+?\s*team members`),
	regexp.MustCompile(`(\d[\d,]*)\+?\s*staff`),
}

// detectEmployeeTier extracts an employee headcount and maps it to a size
// tier: <50 small, 50-999 medium, >=1000 large.
func detectEmployeeTier(text string) string {
	for _, re := range employeeCountRes {
		for _, match := range re.FindAllStringSubmatch(text, -1) {
			count, err := strconv.Atoi(strings.ReplaceAll(match[1], ",", ""))
			if err != nil {
				continue
			}
			switch {
			case count >= 1000:
				return "large"
			case count >= 50:
				return "medium"
			case count >= 1:
				return "small"
			}
		}
	}
	switch {
	case strings.Contains(text, "thousands of employees") || strings.Contains(text, "million employees"):
		return "large"
	case strings.Contains(text, "hundreds of employees") || strings.Contains(text, "large team"):
		return "medium"
	case strings.Contains(text, "small team") || strings.Contains(text, "boutique") || strings.Contains(text, "family business"):
		return "small"
	}
	return ""
}

var locationCountRe = regexp.MustCompile(`(\d+)\s*(?:offices?|locations?|branches?|stores?|facilities|countries|states)`)

var globalPresenceIndicators = []string{
	"worldwide", "global presence", "international offices",
	"offices around the world", "global locations",
}

// scoreLocations scores multi-location language: more locations means a
// bigger business.
func scoreLocations(text string) int {
	score := 0
	for _, match := range locationCountRe.FindAllStringSubmatch(text, -1) {
		count, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		switch {
		case count >= 100:
			score += 8
		case count >= 50:
			score += 6
		case count >= 10:
			score += 4
		case count >= 5:
			score += 2
		case count >= 2:
			score++
		}
	}
	for _, indicator := range globalPresenceIndicators {
		if strings.Contains(text, indicator) {
			score += 3
		}
	}
	return score
}
