package classifier

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domaincheck/packages/domain"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestClassifyIndustryVacationRental(t *testing.T) {
	text := "we offer vacation rental beach house stays with nightly rate options, check-in at 3pm, airbnb listed"
	result := ClassifyIndustry(text, "oceanside vacation rentals", "book your vacation rental")
	assert.Equal(t, domain.IndustryVacationRental, result.Industry)
	assert.Greater(t, result.Confidence, 0)
	assert.LessOrEqual(t, result.Confidence, domain.MaxConfidence)
}

func TestClassifyIndustryDefaultsToGeneral(t *testing.T) {
	result := ClassifyIndustry("nothing notable on this page at all", "", "")
	assert.Equal(t, "general_business", result.Industry)
	assert.Equal(t, 0, result.Confidence)
}

func TestEstimatePropertyCountExact(t *testing.T) {
	count := EstimatePropertyCount("our family business: we manage 12 properties across the coast")
	assert.Equal(t, domain.PropertyCount{Count: 12, Confidence: 90, Type: "exact"}, count)
}

func TestEstimatePropertyCountEstimate(t *testing.T) {
	count := EstimatePropertyCount("we rent out several vacation homes near the lake")
	assert.Equal(t, domain.PropertyCount{Count: 8, Confidence: 60, Type: "estimate"}, count)
}

func TestEstimatePropertyCountRange(t *testing.T) {
	count := EstimatePropertyCount("choose from 10-20 properties in the valley")
	assert.Equal(t, "range", count.Type)
	assert.Equal(t, 15, count.Count)
	assert.Equal(t, 80, count.Confidence)
}

func TestEstimatePropertyCountNothing(t *testing.T) {
	count := EstimatePropertyCount("welcome to our accounting firm")
	assert.Equal(t, domain.PropertyCount{}, count)
}

func TestVerticalMarketplaceURL(t *testing.T) {
	doc := parseDoc(t, "<html><body><p>rooms</p></body></html>")
	model := ClassifyVerticalModel(doc, "vacation rentals", "https://www.airbnb.com/rooms/12345",
		domain.PropertyCount{}, domain.DecisionMaker{}, domain.UpgradeNeed{},
		domain.GeographicScope{}, domain.SizeResult{})
	assert.Equal(t, domain.ModelMarketplacePlatform, model.Model)
	assert.Equal(t, 95, model.Confidence)
	assert.Equal(t, domain.ExclusionMarketplace, model.ExclusionReason)
	assert.False(t, model.IsTarget)
}

func TestVerticalOperatorBanding(t *testing.T) {
	doc := parseDoc(t, "<html><body></body></html>")
	text := "our properties are family owned vacation homes located in the mountains, personal service, no booking fees"

	cases := []struct {
		count int
		model string
		prio  string
	}{
		{3, domain.ModelDirectOwnerSmall, domain.PriorityHigh},
		{12, domain.ModelDirectOwnerMedium, domain.PriorityHigh},
		{40, domain.ModelPropertyManagerSmall, domain.PriorityHigh},
		{150, domain.ModelPropertyManagerMedium, domain.PriorityMedium},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("count_%d", tc.count), func(t *testing.T) {
			model := ClassifyVerticalModel(doc, text, "https://example.com",
				domain.PropertyCount{Count: tc.count, Confidence: 90, Type: "exact"},
				domain.DecisionMaker{}, domain.UpgradeNeed{}, domain.GeographicScope{}, domain.SizeResult{})
			assert.Equal(t, tc.model, model.Model)
			assert.Equal(t, tc.prio, model.Priority)
			assert.True(t, model.IsTarget)
			assert.Empty(t, model.ExclusionReason)
		})
	}
}

func TestVerticalLargeManagerExcluded(t *testing.T) {
	doc := parseDoc(t, "<html><body></body></html>")
	text := "our properties are family owned vacation homes located in aspen"
	model := ClassifyVerticalModel(doc, text, "https://example.com",
		domain.PropertyCount{Count: 500, Confidence: 90, Type: "exact"},
		domain.DecisionMaker{}, domain.UpgradeNeed{}, domain.GeographicScope{}, domain.SizeResult{})
	assert.Equal(t, domain.ModelPropertyManagerLarge, model.Model)
	assert.Equal(t, domain.ExclusionTooLarge, model.ExclusionReason)
	assert.False(t, model.IsTarget)
}

func TestVerticalUnknownCountStaysHighPriority(t *testing.T) {
	doc := parseDoc(t, "<html><body></body></html>")
	text := "our properties are family owned vacation homes located in tahoe, personal service"
	model := ClassifyVerticalModel(doc, text, "https://example.com",
		domain.PropertyCount{}, domain.DecisionMaker{}, domain.UpgradeNeed{},
		domain.GeographicScope{}, domain.SizeResult{})
	assert.Equal(t, domain.ModelDirectRentalOperator, model.Model)
	assert.Equal(t, domain.PriorityHigh, model.Priority)
	assert.True(t, model.IsTarget)
}

func TestScoreCategoryCountsRepeatedMentions(t *testing.T) {
	once := scoreCategory("our properties", weighted{operatorStrongScore, operatorKeywordsStrong})
	thrice := scoreCategory("our properties, our properties, our properties",
		weighted{operatorStrongScore, operatorKeywordsStrong})
	assert.Equal(t, operatorStrongScore, once)
	assert.Equal(t, 3*operatorStrongScore, thrice)
	assert.Greater(t, thrice, once)
}

func TestScoreCategoryWeightsKeywordOnceAcrossTiers(t *testing.T) {
	// "pms" sits in both the strong tier and the catch-all list; only the
	// strong weight may count.
	score := scoreCategory("pms",
		weighted{b2bStrongScore, b2bKeywordsStrong},
		weighted{b2bMediumScore, b2bKeywordsMedium},
		weighted{b2bWeakScore, b2bKeywords})
	assert.Equal(t, b2bStrongScore, score)
}

func TestVerticalConfidenceIsShareOfTotal(t *testing.T) {
	doc := parseDoc(t, "<html><body></body></html>")
	// marketplace 2x10=20, operator 1x10=10, so the winner carries 20/30.
	model := ClassifyVerticalModel(doc, "airbnb airbnb our properties", "https://example.com",
		domain.PropertyCount{}, domain.DecisionMaker{}, domain.UpgradeNeed{},
		domain.GeographicScope{}, domain.SizeResult{})
	assert.Equal(t, domain.ModelMarketplacePlatform, model.Model)
	assert.Equal(t, 67, model.Confidence)
	assert.False(t, model.IsTarget)
}

func TestVerticalTieBreaksTowardMarketplace(t *testing.T) {
	doc := parseDoc(t, "<html><body></body></html>")
	model := ClassifyVerticalModel(doc, "airbnb our properties", "https://example.com",
		domain.PropertyCount{}, domain.DecisionMaker{}, domain.UpgradeNeed{},
		domain.GeographicScope{}, domain.SizeResult{})
	assert.Equal(t, domain.ModelMarketplacePlatform, model.Model)
	assert.Equal(t, 50, model.Confidence)
	assert.False(t, model.IsTarget)
}

func TestVerticalThirdPartyListingShortCircuit(t *testing.T) {
	html := `<html><body>
		<div class="booking-widget"><form class="reserve"></form></div>
		<div class="calendar"></div>
		<div class="review">great</div><div class="review">super</div><div class="review">wow</div>
		<div class="gallery"></div>
		<div class="host-profile"></div><div class="host-bio"></div>
		<div class="similar-properties"></div>
	</body></html>`
	doc := parseDoc(t, html)
	text := "3 bedrooms 2 bathrooms sleeps 8 guests 1500 sq ft. contact host through our secure messaging. " +
		"response rate 98%. superhost since 2019. check availability. per night. " +
		"powered by airbnb. view more properties from this host"
	model := ClassifyVerticalModel(doc, text, "https://platform.example.com/listing/99231",
		domain.PropertyCount{}, domain.DecisionMaker{}, domain.UpgradeNeed{},
		domain.GeographicScope{}, domain.SizeResult{})
	assert.Equal(t, domain.ModelThirdPartyListing, model.Model)
	assert.Equal(t, domain.ExclusionListing, model.ExclusionReason)
	assert.GreaterOrEqual(t, model.Confidence, 70)
}

func TestDetectThirdPartyListingURLAlone(t *testing.T) {
	doc := parseDoc(t, "<html><body></body></html>")
	ev := detectThirdPartyListing(doc, "a simple page", "https://rentals.example.com/property/4471")
	assert.GreaterOrEqual(t, ev.URLScore, listingURLScore)
	assert.GreaterOrEqual(t, ev.Confidence, 90)
}

func TestDetectThirdPartyListingOwnerSite(t *testing.T) {
	doc := parseDoc(t, "<html><body><nav>home about contact</nav></body></html>")
	ev := detectThirdPartyListing(doc, "welcome to our family cabin, family owned since 1985", "https://smithcabin.com")
	assert.Equal(t, 0, ev.URLScore)
	assert.Less(t, ev.Confidence, 70)
}

func TestScoreDecisionMakerOwnerSite(t *testing.T) {
	text := "hi, i started this business in 2015. i personally manage every booking. call me anytime. owner operated, family business"
	dm := ScoreDecisionMakerAccess(text, []string{"sarah@smithcabins.com"}, 400)
	assert.Equal(t, "high", dm.Level)
	assert.Greater(t, dm.Score, 30)
	assert.LessOrEqual(t, dm.Confidence, domain.MaxConfidence)
	assert.NotEmpty(t, dm.Indicators)
}

func TestScoreDecisionMakerCorporate(t *testing.T) {
	text := "contact our customer service department. our corporate headquarters handles press inquiries. media relations team available"
	dm := ScoreDecisionMakerAccess(text, []string{"info@bigcorp.com"}, 5000)
	assert.Equal(t, "low", dm.Level)
	assert.LessOrEqual(t, dm.Score, 0)
}

func TestGenericEmailNotPersonal(t *testing.T) {
	assert.False(t, isPersonalEmail("info@example.com"))
	assert.False(t, isPersonalEmail("contact@example.com"))
	assert.True(t, isPersonalEmail("jane.doe@example.com"))
}

func TestAssessUpgradeNeedDatedSite(t *testing.T) {
	html := `<html><body>
		<table><tr><td>a</td></tr></table><table><tr><td>b</td></tr></table>
		<table><tr><td>c</td></tr></table><table><tr><td>d</td></tr></table>
		<table><tr><td>e</td></tr></table><table><tr><td>f</td></tr></table>
		<p>copyright 2012 smith cabins</p>
	</body></html>`
	doc := parseDoc(t, html)
	text := "copyright 2012 smith cabins. a small cabin in the woods."
	result := AssessUpgradeNeed(doc, text, "http://smithcabins.com", 120, 40)
	assert.True(t, result.NeedsUpgrade)
	assert.Greater(t, result.Score, 40)
	assert.LessOrEqual(t, result.Confidence, domain.MaxConfidence)
	assert.Contains(t, result.Indicators, "dated_copyright:2012")
	assert.Contains(t, result.Indicators, "no_ssl")
}

func TestAssessUpgradeNeedModernSite(t *testing.T) {
	html := `<html><head><meta name="viewport" content="width=device-width">
		</head><body><form><button>Contact</button></form>
		<p>mobile responsive design with secure checkout and real-time availability, online payment supported, instant booking</p>
	</body></html>`
	doc := parseDoc(t, html)
	text := strings.Repeat("plenty of rich descriptive content about our rentals and contact details ", 80)
	result := AssessUpgradeNeed(doc, strings.ToLower(text), "https://modern.example.com", 800, 40)
	assert.False(t, result.NeedsUpgrade)
}

func TestClassifyPropertyTypeBeach(t *testing.T) {
	text := "oceanfront beach house with beach access and ocean view, steps from the sand and surf, summer rentals available"
	result := ClassifyPropertyType(text)
	assert.Equal(t, "beach", result.Type)
	assert.Greater(t, result.Confidence, 0)
	assert.LessOrEqual(t, result.Confidence, domain.MaxConfidence)
}

func TestClassifyPropertyTypeGeneral(t *testing.T) {
	result := ClassifyPropertyType("a plain rental unit with no particular setting")
	assert.Equal(t, "general", result.Type)
}

func TestDetectGeographicScope(t *testing.T) {
	national := DetectGeographicScope("we operate nationwide with properties in multiple states coast to coast")
	assert.Equal(t, "national", national.Scope)

	fallback := DetectGeographicScope("a cabin you will love")
	assert.Equal(t, "local", fallback.Scope)
	assert.Equal(t, 50, fallback.Confidence)
}

func TestIsBusinessWebsiteRentalLeniency(t *testing.T) {
	doc := parseDoc(t, "<html><body><p>welcome</p></body></html>")
	text := "our vacation rental is available year round. contact us by phone to book. check availability and rates"
	assert.True(t, IsBusinessWebsite(doc, text))
}

func TestIsBusinessWebsiteGeneric(t *testing.T) {
	doc := parseDoc(t, "<html><body><nav>menu</nav></body></html>")
	text := strings.ToLower("About us: our company provides services to customers. Contact us at support@example.com or 555-123-4567. " +
		strings.Repeat("we deliver products and support for every business customer location ", 10))
	assert.True(t, IsBusinessWebsite(doc, text))
}

func TestIsBusinessWebsiteBlogIsNot(t *testing.T) {
	doc := parseDoc(t, "<html><body><p>post</p></body></html>")
	assert.False(t, IsBusinessWebsite(doc, "my thoughts on birds today"))
}

func TestExtractBusinessInfo(t *testing.T) {
	html := `<html><head><title>Smith Cabins - Home</title>
		<link rel="canonical" href="https://smithcabins.com/">
		</head><body>
		<h1>Smith Mountain Cabins</h1>
		<p>Located in Asheville, North Carolina. Email sarah@smithcabins.com or call 828-555-1234.</p>
		<p>123 Ridge Road, Asheville, NC 28801</p>
		<p>Book now for your next stay. Hours: 9:00 am - 5:00 pm</p>
		<a href="https://facebook.com/smithcabins">Facebook</a>
		<a href="//instagram.com/smithcabins">Instagram</a>
	</body></html>`
	doc := parseDoc(t, html)
	info := ExtractBusinessInfo(doc)

	assert.Equal(t, "Smith Mountain Cabins", info.CompanyName)
	assert.Equal(t, "sarah@smithcabins.com", info.PrimaryEmail)
	assert.Equal(t, "828-555-1234", info.PrimaryPhone)
	assert.Contains(t, info.Address, "123 Ridge Road")
	assert.Equal(t, "United States", info.Country)
	assert.Equal(t, "North Carolina", info.StateProvince)
	assert.True(t, info.HasOnlineBooking)
	assert.Equal(t, "https://facebook.com/smithcabins", info.SocialMedia["facebook"])
	assert.Equal(t, "https://instagram.com/smithcabins", info.SocialMedia["instagram"])
	assert.NotEmpty(t, info.BusinessHours)
}

func TestExtractEmailsFiltersJunk(t *testing.T) {
	emails, primary := extractEmails("reach us: owner@real.com noreply@real.com test@example.com owner@real.com")
	assert.Equal(t, []string{"owner@real.com"}, emails)
	assert.Equal(t, "owner@real.com", primary)
}

func TestClassifySizeSmallBusiness(t *testing.T) {
	doc := parseDoc(t, `<html><body><nav><li>home</li><li>about</li><li>contact</li></nav>
		<p>content</p></body></html>`)
	text := "family owned and operated small business, mom and pop shop, owner operated, locally owned, family business, personal service since 1995"
	result := ClassifySize(doc, text, "smith cabins", "a family owned cabin business")
	assert.Equal(t, domain.SizeSmall, result.Size)
	assert.Greater(t, result.Confidence, 0)
	assert.LessOrEqual(t, result.Confidence, domain.MaxConfidence)
}

func TestClassifySizeBarePageDefaultsSmall(t *testing.T) {
	// A page with no size evidence at all still picks up the structural
	// small signals (low complexity, thin nav, few words).
	doc := parseDoc(t, "<html><body></body></html>")
	result := ClassifySize(doc, "", "", "")
	assert.Equal(t, domain.SizeSmall, result.Size)
	assert.Equal(t, 0, result.Breakdown.LargeScore)
}

func TestClassifyDeterministic(t *testing.T) {
	doc := parseDoc(t, "<html><body><p>our properties</p></body></html>")
	text := "our properties are family owned vacation homes, personal service, located in the mountains"
	first := ClassifyVerticalModel(doc, text, "https://example.com",
		domain.PropertyCount{Count: 4, Confidence: 90, Type: "exact"},
		domain.DecisionMaker{Level: "high"}, domain.UpgradeNeed{NeedsUpgrade: true},
		domain.GeographicScope{Scope: "local"}, domain.SizeResult{Size: domain.SizeSmall})
	for i := 0; i < 5; i++ {
		again := ClassifyVerticalModel(doc, text, "https://example.com",
			domain.PropertyCount{Count: 4, Confidence: 90, Type: "exact"},
			domain.DecisionMaker{Level: "high"}, domain.UpgradeNeed{NeedsUpgrade: true},
			domain.GeographicScope{Scope: "local"}, domain.SizeResult{Size: domain.SizeSmall})
		assert.Equal(t, first, again)
	}
	assert.Equal(t, domain.ModelDirectOwnerSmall, first.Model)
	assert.Equal(t, 100, first.TargetScore)
	assert.ElementsMatch(t, []string{
		"decision_maker_high", "needs_upgrade", "small_fleet", "local_operator", "small_business",
	}, first.TargetFactors)
}
