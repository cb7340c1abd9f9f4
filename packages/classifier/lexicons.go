// Package classifier derives business labels from fetched page content.
// All sub-classifiers are pure functions of the combined lower-cased text
// plus markup structure, so results are reproducible for a given page.
package classifier

// weightedKeywords pairs a keyword list with the per-occurrence weight it
// contributes to a score bucket.
type weightedKeywords struct {
	weight   int
	keywords []string
}

// largeCompanyIndicators are red flags for the lead-generation use case:
// corporate scale language that disqualifies a site as a small operator.
var largeCompanyIndicators = []weightedKeywords{
	{15, []string{ // listing platform language
		"thousands of listings", "millions of properties", "search properties",
		"browse listings", "property listings", "rental listings", "accommodation listings",
		"booking platform", "reservation platform", "marketplace", "directory",
		"find properties", "compare properties", "property search engine",
		"listing database", "property database", "inventory of", "catalog of",
	}},
	{12, []string{ // headquarters
		"headquarters", "corporate headquarters", "global headquarters", "hq",
		"head office", "corporate office", "main office", "principal office",
		"executive offices", "corporate campus", "world headquarters",
	}},
	{10, []string{ // public company
		"fortune 500", "fortune 1000", "nasdaq", "nyse", "stock exchange",
		"publicly traded", "shareholders", "investor relations", "sec filings",
		"annual report", "quarterly earnings", "market cap", "ticker symbol",
		"s&p 500", "dow jones", "public company", "publicly held",
	}},
	{8, []string{ // corporate communications
		"press releases", "media center", "news room", "newsroom", "press center",
		"media kit", "brand assets", "corporate communications", "public relations",
		"investor center", "corporate governance", "sustainability report",
		"corporate responsibility", "annual reports", "quarterly reports",
	}},
	{6, []string{ // scale
		"global", "worldwide", "international", "multinational", "enterprise",
		"corporation", "corporate", "offices worldwide", "global presence",
		"international offices", "regional offices", "subsidiaries", "divisions",
		"business units", "operating companies", "franchise locations",
		"nationwide", "countrywide", "multi-state", "multi-national",
	}},
	{4, []string{ // corporate structure
		"chief executive officer", "chief financial officer", "chief technology officer",
		"board of directors", "executive team", "leadership team", "senior management",
		"c-suite", "executive committee", "advisory board", "board members",
		"vice president", "senior vice president", "executive vice president",
		"managing director", "general manager", "regional manager",
	}},
	{3, []string{ // size claims
		"thousands of employees", "million employees", "billion", "millions of customers",
		"fortune", "largest", "leading provider", "market leader", "industry leader",
		"global leader", "worldwide leader", "established 18", "established 19",
		"since 18", "since 19", "founded 18", "founded 19", "over 100 years",
		"billions in revenue", "millions in revenue", "market capitalization",
	}},
	{3, []string{ // compliance surface
		"privacy policy", "terms of service", "cookie policy", "gdpr", "ccpa",
		"compliance", "regulatory", "sox compliance", "iso certified",
		"quality management", "certifications", "accreditation", "legal disclaimer",
		"terms and conditions", "user agreement", "service agreement",
	}},
	{3, []string{ // enterprise services
		"enterprise solutions", "b2b", "business solutions", "enterprise grade",
		"scalable solutions", "white paper", "case studies", "implementation",
		"professional services", "consulting", "support portal", "api documentation",
		"enterprise clients", "corporate clients", "institutional clients",
	}},
}

var mediumCompanyIndicators = []weightedKeywords{
	{4, []string{
		"regional leader", "local market leader", "growing business",
		"expanding operations", "multiple departments", "dedicated team",
		"specialized services", "full-service", "comprehensive solutions",
	}},
	{3, []string{
		"regional", "multi-location", "multiple offices", "branch offices",
		"locations", "established", "growing company", "expanding",
		"several locations", "multiple branches", "regional service",
		"serving multiple cities", "multiple markets",
	}},
	{3, []string{
		"professional", "certified", "licensed", "accredited", "experienced team",
		"expert", "specialists", "consultants", "advisors", "professional staff",
		"qualified team", "industry experts", "certified professionals",
	}},
	{3, []string{
		"years of experience", "established business", "trusted partner",
		"proven track record", "industry expertise", "comprehensive services",
		"experienced company", "established reputation", "trusted provider",
	}},
}

// smallCompanyIndicators carry the highest weights: small operators are
// the leads this pipeline exists to find.
var smallCompanyIndicators = []weightedKeywords{
	{8, []string{
		"family tradition", "generations", "local family", "small team",
		"intimate setting", "cozy", "welcoming", "friendly staff",
		"know your name", "personal relationships", "community member",
		"local knowledge", "neighborhood expert", "personal touch",
	}},
	{6, []string{
		"local", "family owned", "family business", "locally owned",
		"community", "neighborhood", "hometown", "serving [city]",
		"local service", "neighborhood business", "community focused",
		"locally operated", "hometown favorite", "local expertise",
	}},
	{6, []string{
		"personal service", "personalized", "one-on-one", "direct contact",
		"owner operated", "small business", "boutique", "specialized",
		"personal attention", "individual service", "custom service",
		"tailored solutions", "hands-on approach", "direct owner involvement",
	}},
	{5, []string{
		"our location", "visit us at", "stop by", "come see us",
		"our shop", "our store", "our office", "single location",
		"one location", "locally based", "conveniently located",
	}},
	{4, []string{
		"contact us", "call us", "email us", "get in touch", "reach out",
		"call today", "contact owner", "speak directly", "personal consultation",
	}},
}

var enterpriseTech = []string{
	"salesforce", "oracle", "sap", "microsoft dynamics", "workday",
	"servicenow", "tableau", "adobe experience", "marketo", "hubspot enterprise",
}

var enterpriseHosting = []string{
	"akamai", "cloudflare enterprise", "aws enterprise", "azure enterprise",
	"google cloud enterprise", "cdn", "load balancer", "redundancy",
}

var smallBusinessTech = []string{
	"wix", "squarespace", "wordpress.com", "weebly", "shopify basic",
	"godaddy website builder", "site123",
}

var largeBusinessRedFlags = []string{
	"api integration", "enterprise api", "developer portal", "white label",
	"franchise opportunities", "investor relations", "press releases",
	"corporate partnerships", "global expansion", "ipo", "acquisition",
}

// industryKeywords defines the industry categories in declaration order;
// ties break toward the earlier category.
var industryKeywords = []struct {
	name     string
	keywords []string
}{
	{"vacation_rental", []string{
		"vacation rental", "holiday rental", "vacation home", "holiday home",
		"short term rental", "vacation property", "rental property",
		"beach house", "cabin rental", "cottage rental", "villa rental",
		"vacation accommodation", "holiday accommodation", "getaway",
		"book now", "check availability", "nightly rate", "per night",
		"airbnb", "vrbo", "homeaway", "booking.com", "expedia",
		"resort", "lodge", "retreat", "bed and breakfast", "b&b",
		"oceanfront", "beachfront", "lakefront", "mountain view",
		"private pool", "hot tub", "fireplace", "kitchen", "wifi",
	}},
	{"real_estate", []string{
		"real estate", "property", "homes for sale", "houses for sale",
		"buy home", "sell home", "realtor", "real estate agent",
		"mls", "multiple listing", "property search", "home search",
		"mortgage", "loan", "financing", "closing", "escrow",
		"square feet", "sq ft", "bedroom", "bathroom", "garage",
		"lot size", "acre", "price reduced", "new listing", "sold",
	}},
	{"dental", []string{
		"dentist", "dental", "teeth", "tooth", "oral health",
		"dental care", "dental office", "dental practice", "orthodontist",
		"oral surgeon", "periodontist", "endodontist", "hygienist",
		"cleaning", "filling", "crown", "bridge", "implant",
		"whitening", "braces", "invisalign", "root canal", "extraction",
	}},
	{"home_services", []string{
		"plumber", "plumbing", "electrician", "electrical", "hvac",
		"heating", "cooling", "air conditioning", "contractor",
		"construction", "renovation", "remodeling", "roofing",
		"painting", "flooring", "landscaping", "cleaning service",
		"handyman", "repair", "installation", "maintenance",
	}},
	{"legal", []string{
		"lawyer", "attorney", "legal", "law firm", "legal services",
		"personal injury", "divorce", "criminal defense", "bankruptcy",
		"estate planning", "wills", "probate", "litigation",
		"consultation", "legal advice", "court", "settlement",
	}},
	{"financial", []string{
		"bank", "banking", "credit union", "financial", "loan",
		"mortgage", "insurance", "investment", "financial advisor",
		"accounting", "tax", "cpa", "bookkeeping", "payroll",
		"retirement", "401k", "ira", "wealth management", "portfolio",
	}},
	{"restaurant_food", []string{
		"restaurant", "cafe", "bar", "dining", "menu", "food",
		"catering", "delivery", "takeout", "reservation", "chef",
		"cuisine", "breakfast", "lunch", "dinner", "pizza",
		"burger", "coffee", "bakery", "deli", "grill",
	}},
	{"healthcare_medical", []string{
		"doctor", "physician", "medical", "clinic", "hospital",
		"health", "patient", "appointment", "treatment", "surgery",
		"therapy", "diagnosis", "prescription", "insurance",
		"medicare", "medicaid", "emergency", "urgent care",
	}},
}

// Marketplace platform detection.
var marketplaceKeywordsStrong = []string{"airbnb", "vrbo", "booking.com", "expedia"}

var marketplaceKeywords = []string{
	"airbnb", "vrbo", "booking.com", "expedia", "tripadvisor rentals",
	"homeaway", "vacasa", "hometogo", "flipkey", "vacationrenter",
	"rentals.com", "redawning", "turnkey", "awaze", "novasol",
	"marketplace", "platform", "book now", "search rentals",
	"find vacation rentals", "browse properties", "compare prices",
	"book direct", "instant book", "millions of rentals",
	"thousands of properties", "rental marketplace",
}

var marketplaceURLIndicators = []string{
	"airbnb.com", "vrbo.com", "booking.com", "expedia.com",
	"tripadvisor.com", "homeaway.com", "vacasa.com", "hometogo.com",
}

var b2bKeywordsStrong = []string{"property management software", "vacation rental software", "pms"}

var b2bKeywordsMedium = []string{"tools", "software", "platform", "solution"}

var b2bKeywords = []string{
	"property management software", "vacation rental software",
	"channel manager", "pms", "property management system",
	"rental management platform", "booking engine", "reservation system",
	"dynamic pricing", "revenue management", "pricing tool",
	"cleaning management", "maintenance software", "guest messaging",
	"automation tools", "rental tools", "property manager tools",
	"vacation rental management", "short term rental software",
	"airbnb management", "rental automation", "hospitality software",
	"directory of tools", "tools and resources", "software solutions",
	"service provider", "technology partner", "integration",
	"api", "white label", "enterprise solution", "saas",
	"subscription", "pricing plans", "free trial", "demo",
	"for property managers", "for hosts", "for owners",
}

var marketingKeywords = []string{
	"leads", "lead generation", "marketing services", "seo services",
	"website design", "digital marketing", "social media marketing",
	"advertising", "promotion", "marketing platform", "generate bookings",
	"increase revenue", "boost occupancy", "marketing tools",
	"listing optimization", "rank higher", "more visibility",
	"marketing agency", "consulting", "growth services",
}

var aggregatorKeywords = []string{
	"compare", "search all sites", "aggregator", "find deals",
	"best prices", "price comparison", "all vacation rentals",
	"search engine", "rental search", "compare rentals",
	"find rentals", "rental finder", "vacation rental search",
	"browse all", "search properties", "rental listings",
	"property search", "vacation search",
}

var operatorKeywordsStrong = []string{
	"our properties", "our rentals", "our vacation homes", "direct owner", "property owner",
}

var operatorKeywordsMedium = []string{
	"family owned", "locally owned", "personal service", "no booking fees",
}

var operatorKeywords = []string{
	"our properties", "our rentals", "our vacation homes",
	"family owned", "locally owned", "established", "since",
	"years of experience", "personal service", "local knowledge",
	"property portfolio", "rental portfolio", "vacation homes",
	"beach houses", "mountain cabins", "lake houses",
	"contact us", "call us", "email us", "visit us",
	"based in", "located in", "serving", "specializing in",
	"luxury rentals", "premium properties", "exclusive rentals",
	"hand-picked", "carefully selected", "curated collection",
	"direct owner", "property owner", "private owner",
	"no booking fees", "no service fees", "book direct",
	"personal attention", "concierge service", "local host",
}

var operatorPropertyTypes = []string{
	"beach house", "mountain cabin", "lake house", "ski chalet", "downtown condo",
}

var operatorLocationPhrases = []string{
	"located in", "based in", "serving", "minutes from", "close to", "near",
}

// Third-party-listing detection data.
var listingURLPatterns = []string{
	`/property/\d+`,
	`/listing/\d+`,
	`/rental/\d+`,
	`/room/\d+`,
	`/accommodation/\d+`,
	`/p/\d+`,
	`/r/\d+`,
	`/l/\d+`,
	`/properties/\d+`,
	`/rentals/\d+`,
	`/units?/\d+`,
	`/homes?/\d+`,
	`\?.*(?:property|listing|rental)_?id=\d+`,
	`\?.*id=\d+.*(?:property|listing|rental)`,
	`/detail/\d+`,
	`/view/\d+`,
	`/show/\d+`,
	`property\..*\.com`,
	`listing\..*\.com`,
	`rental\..*\.com`,
}

var listingContentIndicators = []string{
	"property id", "listing id", "rental id", "property #", "listing #",
	"property number", "listing number", "id:", "ref:", "reference:",
	"book this property", "reserve this listing", "property details",
	"listing details", "view more properties", "browse more rentals",
	"similar properties", "more listings like this", "other properties",
	"property amenities", "listing amenities", "check availability",
	"booking calendar", "reservation system", "instant booking",
	"property photos", "listing photos", "property gallery",
	"hosted by", "managed by", "listed by", "property owner:",
	"contact host", "message host", "call host", "property manager",
	"booking fee", "service fee", "cleaning fee", "security deposit",
	"cancellation policy", "house rules", "guest reviews",
	"verified listing", "verified property", "trust & safety",
}

var listingTemplateIndicators = []string{
	"check-in:", "check-out:", "guests:", "bedrooms:", "bathrooms:",
	"sleeps up to", "accommodates", "maximum occupancy",
	"wifi included", "parking included", "pet friendly",
	"smoking policy", "minimum stay", "maximum stay",
	"property type:", "accommodation type:", "rental type:",
	"neighborhood:", "area:", "location:", "address:",
	"price per night", "nightly rate", "weekly rate", "monthly rate",
	"total price", "taxes and fees", "additional charges",
}

var listingNavigationIndicators = []string{
	"browse properties", "search rentals", "find accommodation",
	"property search", "rental search", "advanced search",
	"filter results", "sort by", "map view", "list view",
	"saved properties", "favorite listings", "compare properties",
	"recently viewed", "recommended for you", "popular destinations",
	"top-rated properties", "new listings", "last minute deals",
}

var listingGenericContactIndicators = []string{
	"customer service", "customer support", "help center",
	"support team", "booking support", "contact us",
	"help desk", "call center", "1-800-", "1-888-", "1-877-",
	"toll free", "support@", "help@", "booking@", "reservations@",
	"info@", "contact@", "customer@", "service@",
}

var knownListingPlatforms = []string{
	"airbnb", "vrbo", "booking", "expedia", "tripadvisor", "homeaway",
	"vacasa", "turnkey", "awaze", "novasol", "rentals.com", "flipkey",
	"redawning", "vacationrenter", "hometogo", "rentbyowner",
	"holidaylettings", "homelidays", "wimdu", "citybase", "uktvillas",
	"luxuryretreats", "onefinestay", "sonder", "vacationhomerentals",
}

var platformBrandingIndicators = []string{
	"powered by airbnb", "vrbo listing", "booking.com property",
	"tripadvisor rental", "homeaway property", "vacasa managed",
	"listed on", "featured on", "available on", "book through",
	"reserve on", "property management by", "managed by",
}

// Decision-maker accessibility data.
var decisionMakerPatterns = []string{
	`\b(call|contact|text)\s+\w+\s+(directly|personally)`,
	`owner[\s\-]?(direct|operated)`,
	`ask for \w+`,
	`speak (to|with) \w+`,
	`my (name is|cell|phone|direct)`,
	`i (started|founded|own|manage)`,
	`(family|locally) owned and operated`,
}

var decisionMakerKeywords = []string{
	"owner direct", "call me", "text me", "personally manage",
	"family owned", "owner operated", "ask for", "speak to",
	"direct line", "cell phone", "mobile number", "personal service",
}

var decisionMakerNegativeKeywords = []string{
	"corporate", "headquarters", "investor relations", "press inquiries",
	"human resources", "legal department", "compliance",
}

var corporateContactKeywords = []string{
	"corporate office", "headquarters", "investor relations",
	"press inquiries", "media contact", "hr department",
	"legal counsel", "board of directors", "shareholders",
	"publicly traded", "stock symbol", "sec filings",
}

var genericEmailPrefixes = []string{"info@", "contact@", "support@", "hello@", "admin@"}

// Website-quality data.
var upgradeTechnicalIndicators = []string{
	"last updated", "under construction", "coming soon",
	"best viewed in internet explorer", "requires flash",
	"site best viewed at", "enable javascript", "frames version",
	"text only version", "low bandwidth version",
}

var upgradeFunctionalIndicators = []string{
	"email for availability", "call for rates", "contact for pricing",
	"inquire about dates", "check availability by phone",
	"no online booking", "email to reserve", "call to book",
	"fax your request", "mail check", "money order accepted",
}

var upgradeDesignIndicators = []string{
	"welcome to my website", "thanks for visiting", "you are visitor number",
	"page counter", "guestbook", "sign my guestbook", "web ring",
	"site map", "frames", "table layout", "animated gif",
	"under construction gif", "spinning logo", "marquee text",
}

var modernTechnicalIndicators = []string{
	"mobile responsive", "ssl secure", "instant booking",
	"real-time availability", "online payment", "secure checkout",
	"api integration", "channel sync", "dynamic pricing",
}

// Property type and geographic scope data.
var propertyTypePatterns = []struct {
	name      string
	keywords  []string
	seasonal  []string
	amenities []string
}{
	{"beach",
		[]string{"beach", "ocean", "oceanfront", "beachfront", "coastal",
			"seaside", "shore", "gulf", "atlantic", "pacific",
			"sand", "surf", "waves", "tides", "dunes"},
		[]string{"summer rentals", "spring break", "off-season rates"},
		[]string{"beach access", "ocean view", "beach chairs", "umbrellas"}},
	{"mountain",
		[]string{"mountain", "ski", "alpine", "cabin", "chalet",
			"elevation", "peaks", "slopes", "trails", "hiking",
			"ski-in", "ski-out", "lodge", "retreat"},
		[]string{"ski season", "summer hiking", "fall colors"},
		[]string{"hot tub", "fireplace", "ski storage", "4wd required"}},
	{"lake",
		[]string{"lake", "lakefront", "waterfront", "dock", "boat",
			"fishing", "swimming", "water sports", "marina"},
		[]string{"summer season", "boating season"},
		[]string{"private dock", "boat launch", "fishing gear", "kayaks"}},
	{"urban",
		[]string{"downtown", "city center", "metro", "urban", "walkable",
			"transit", "nightlife", "restaurants", "shopping"},
		[]string{"event pricing", "convention rates"},
		[]string{"parking included", "walk to", "public transit", "wifi"}},
	{"rural",
		[]string{"country", "rural", "farm", "ranch", "secluded",
			"private", "acres", "peaceful", "quiet", "nature"},
		[]string{"harvest season", "hunting season"},
		[]string{"acreage", "privacy", "wildlife", "stargazing"}},
}

var geoScopePatterns = []struct {
	scope    string
	keywords []string
	patterns []string
}{
	{"local",
		[]string{"local", "locally owned", "area", "neighborhood", "community", "hometown"},
		[]string{`serving\s+\w+\s*(?:area|region|community)`}},
	{"regional",
		[]string{"regional", "multiple cities", "statewide"},
		[]string{`(?:throughout|across)\s+\w+`}},
	{"national",
		[]string{"nationwide", "national", "coast to coast", "multiple states", "across america", "usa wide"},
		[]string{`(?:nationwide|national|multiple states)`}},
	{"international",
		[]string{"international", "global", "worldwide", "multiple countries", "globally"},
		[]string{`(?:international|global|worldwide)`}},
}
