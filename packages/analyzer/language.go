package analyzer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/abadojack/whatlanggo"

	"domaincheck/packages/domain"
)

// iso639Names maps two-letter html lang codes to the language names used
// in result records.
var iso639Names = map[string]string{
	"en": "english", "es": "spanish", "fr": "french",
	"de": "german", "it": "italian", "pt": "portuguese",
	"nl": "dutch", "zh": "chinese", "ja": "japanese",
	"ar": "arabic", "ru": "russian",
}

// Confidence contributions per detection method. The html lang attribute
// is authoritative: it both contributes and overrides the lexical guess.
const (
	confHTMLLang   = 30
	confMetaLang   = 20
	confLexicalMax = 50
	confHTMLBonus  = 20
	maxConfidence  = 95
)

// DetectLanguage determines the primary language of a page by combining
// declared metadata with statistical detection of the visible text.
func DetectLanguage(doc *goquery.Document, pageText string) domain.LanguageResult {
	confidence := 0.0
	primary := "unknown"

	var htmlLang string
	if doc != nil {
		if lang, ok := doc.Find("html").Attr("lang"); ok && len(lang) >= 2 {
			htmlLang = strings.ToLower(lang[:2])
			confidence += confHTMLLang
		}
		doc.Find("meta[http-equiv]").Each(func(i int, s *goquery.Selection) {
			if equiv, _ := s.Attr("http-equiv"); !strings.EqualFold(equiv, "content-language") {
				return
			}
			if content, _ := s.Attr("content"); len(content) >= 2 {
				confidence += confMetaLang
			}
		})
	}

	snippet := detectionSnippet(pageText)
	if snippet != "" {
		info := whatlanggo.Detect(snippet)
		if name := info.Lang.String(); name != "" {
			primary = strings.ToLower(name)
			confidence += info.Confidence * confLexicalMax
		}
	}

	if name, ok := iso639Names[htmlLang]; ok {
		primary = name
		confidence = minF(maxConfidence, confidence+confHTMLBonus)
	}

	return domain.LanguageResult{
		Primary:      primary,
		IsNonEnglish: primary != "english" && primary != "unknown",
		Confidence:   int(minF(maxConfidence, confidence)),
	}
}

// detectionSnippet bounds the text handed to the statistical detector to
// the first few hundred words.
func detectionSnippet(pageText string) string {
	words := strings.Fields(pageText)
	if len(words) > 300 {
		words = words[:300]
	}
	return strings.Join(words, " ")
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
