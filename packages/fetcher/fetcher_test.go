package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domaincheck/packages/connectivity"
)

func testMonitor() *connectivity.Monitor {
	return connectivity.New(connectivity.Options{
		ProbeTimeout:   time.Second,
		Quorum:         1,
		CacheTTL:       time.Minute,
		FailureTrigger: 100,
		BackoffBase:    time.Second,
		BackoffCap:     time.Second,
	})
}

func testFetcher(deepCrawl bool) *Fetcher {
	return New(Options{
		Timeout:      2 * time.Second,
		DeepCrawl:    deepCrawl,
		DeepCrawlCap: 5,
		CrawlTimeout: 2 * time.Second,
	}, testMonitor())
}

func businessPage(title, body string) string {
	return fmt.Sprintf(`<html><head><title>%s</title>
<meta name="description" content="Family run vacation rentals on the coast"></head>
<body><h1>%s</h1><p>%s</p></body></html>`, title, title, body)
}

var sampleBody = strings.Repeat("We rent beautiful beach cottages to families every summer season. ", 5)

func TestFetchFallsBackToHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, businessPage("Seaside Cottages", sampleBody))
	}))
	defer srv.Close()

	outcome, signals := testFetcher(false).Fetch(context.Background(), strings.TrimPrefix(srv.URL, "http://"))
	require.True(t, outcome.Working)
	require.NotNil(t, signals)
	assert.Equal(t, "http", outcome.Protocol)
	assert.Equal(t, http.StatusOK, outcome.StatusCode)
	assert.Equal(t, "Seaside Cottages", signals.Title)
	assert.Equal(t, "Family run vacation rentals on the coast", signals.Description)
	assert.Contains(t, signals.FullText, "beach cottages")
}

func TestFetchPrefersHTTPS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, businessPage("Mountain Lodge", sampleBody))
	}))
	defer srv.Close()

	outcome, signals := testFetcher(false).Fetch(context.Background(), strings.TrimPrefix(srv.URL, "https://"))
	require.True(t, outcome.Working)
	require.NotNil(t, signals)
	assert.Equal(t, "https", outcome.Protocol)
}

func TestFetchRejectsThinContent(t *testing.T) {
	cases := map[string]string{
		"tiny body":     "<html><body>hi</body></html>",
		"launching":     businessPage("New Site", "We are launching soon with an amazing experience for all of our future guests and visitors, stay tuned for more."),
		"error page":    businessPage("Error", "The requested page not found on this server. Please check the address you typed and try again later or go back."),
		"too few words": "<html><body>" + strings.Repeat("a", 150) + "</body></html>",
	}
	for name, page := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				fmt.Fprint(w, page)
			}))
			defer srv.Close()

			outcome, signals := testFetcher(false).Fetch(context.Background(), strings.TrimPrefix(srv.URL, "http://"))
			assert.False(t, outcome.Working)
			assert.Nil(t, signals)
		})
	}
}

func TestFetchRejectsNonTextContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, strings.Repeat("binarylike content ", 20))
	}))
	defer srv.Close()

	outcome, signals := testFetcher(false).Fetch(context.Background(), strings.TrimPrefix(srv.URL, "http://"))
	assert.False(t, outcome.Working)
	assert.Nil(t, signals)
}

func TestFetchCountsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/home", http.StatusFound)
	})
	mux.HandleFunc("/home", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, businessPage("Lake House", sampleBody))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	outcome, _ := testFetcher(false).Fetch(context.Background(), strings.TrimPrefix(srv.URL, "http://"))
	require.True(t, outcome.Working)
	assert.Equal(t, 1, outcome.RedirectCount)
	assert.True(t, strings.HasSuffix(outcome.FinalURL, "/home"))
}

func TestFetchConnectionErrorFlagsConnectivity(t *testing.T) {
	monitor := connectivity.New(connectivity.Options{
		ProbeTimeout:   time.Second,
		Quorum:         1,
		CacheTTL:       time.Minute,
		FailureTrigger: 1,
		BackoffBase:    time.Second,
		BackoffCap:     time.Second,
	})
	f := New(Options{Timeout: time.Second}, monitor)

	// A closed port refuses the connection on both protocols.
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := strings.TrimPrefix(srv.URL, "http://")
	srv.Close()

	outcome, signals := f.Fetch(context.Background(), addr)
	assert.False(t, outcome.Working)
	assert.Nil(t, signals)
	assert.True(t, outcome.ConnectivityIssue)
	assert.Equal(t, "Connection error - possible connectivity issue", outcome.Err)
}

func TestDeepCrawlCollectsLinkedPages(t *testing.T) {
	detail := strings.Repeat("Each of our oceanfront properties sleeps eight guests comfortably with private decks and full kitchens. ", 10)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>Coastal Rentals</title></head><body>
<p>`+sampleBody+`</p>
<a href="/properties">Our Properties</a>
<a href="/blog">Blog</a>
</body></html>`)
	})
	mux.HandleFunc("/properties", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><p>"+detail+"</p></body></html>")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	outcome, signals := testFetcher(true).Fetch(context.Background(), strings.TrimPrefix(srv.URL, "http://"))
	require.True(t, outcome.Working)
	require.NotNil(t, signals)
	assert.Contains(t, signals.CrawledText, "oceanfront properties")
}

func TestNormalizedDomainCarriedOnOutcome(t *testing.T) {
	f := New(Options{Timeout: 200 * time.Millisecond}, testMonitor())
	outcome, _ := f.Fetch(context.Background(), "  HTTPS://Example.Invalid/path  ")
	assert.Equal(t, "example.invalid", outcome.Domain)
	assert.False(t, outcome.Working)
}
