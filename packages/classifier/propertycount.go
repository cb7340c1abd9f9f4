package classifier

import (
	"regexp"
	"strconv"
	"strings"

	"domaincheck/packages/domain"
)

const (
	exactCountConfidence = 90
	rangeCountConfidence = 80
	estimateConfidence   = 60
	minPropertyCount     = 1
	maxPropertyCount     = 10000
)

var exactCountRes = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d+)\s+(?:vacation\s+)?(?:rental\s+)?propert(?:y|ies)\b`),
	regexp.MustCompile(`\b(\d+)\s+(?:vacation\s+)?(?:rental\s+)?(?:homes?|houses?|units?|cabins?|condos?|villas?|cottages?|apartments?)\b`),
	regexp.MustCompile(`\bmanage\s+(\d+)\b`),
	regexp.MustCompile(`\bportfolio\s+of\s+(\d+)\b`),
}

var rangeCountRes = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d+)\s*(?:-|to)\s*(\d+)\s+propert(?:y|ies)\b`),
	regexp.MustCompile(`\b(\d+)\s*(?:-|to)\s*(\d+)\s+(?:homes?|units?|rentals?)\b`),
}

var descriptiveCounts = []struct {
	phrase string
	count  int
}{
	{"a handful of", 3},
	{"a few", 5},
	{"several", 8},
	{"multiple", 12},
	{"dozens of", 36},
	{"hundreds of", 200},
	{"thousands of", 2000},
}

// EstimatePropertyCount looks for a stated or implied portfolio size.
// Ranges are tried before exact numbers so "10-20 properties" does not
// read as exactly 20; hedged phrases come last.
func EstimatePropertyCount(pageText string) domain.PropertyCount {
	for _, re := range rangeCountRes {
		for _, match := range re.FindAllStringSubmatch(pageText, -1) {
			low, err1 := strconv.Atoi(match[1])
			high, err2 := strconv.Atoi(match[2])
			if err1 != nil || err2 != nil {
				continue
			}
			mid := (low + high) / 2
			if mid >= minPropertyCount && mid <= maxPropertyCount {
				return domain.PropertyCount{Count: mid, Confidence: rangeCountConfidence, Type: "range"}
			}
		}
	}
	for _, re := range exactCountRes {
		for _, match := range re.FindAllStringSubmatch(pageText, -1) {
			if n, err := strconv.Atoi(match[1]); err == nil && n >= minPropertyCount && n <= maxPropertyCount {
				return domain.PropertyCount{Count: n, Confidence: exactCountConfidence, Type: "exact"}
			}
		}
	}
	for _, dc := range descriptiveCounts {
		if strings.Contains(pageText, dc.phrase+" propert") ||
			strings.Contains(pageText, dc.phrase+" vacation") ||
			strings.Contains(pageText, dc.phrase+" rental") ||
			strings.Contains(pageText, dc.phrase+" home") {
			return domain.PropertyCount{Count: dc.count, Confidence: estimateConfidence, Type: "estimate"}
		}
	}
	return domain.PropertyCount{}
}
