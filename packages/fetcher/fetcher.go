// Package fetcher retrieves and parses homepage content for candidate
// domains. It owns protocol fallback, response validation and the
// optional deep crawl of linked pages.
package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"domaincheck/packages/connectivity"
	"domaincheck/packages/domain"
	"domaincheck/packages/metrics"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

const (
	minBodyBytes = 50
	minTextChars = 100
	minTextWords = 5
	maxRedirects = 10
)

// Many small rental sites run expired or self-signed certificates, so
// certificate verification is deliberately relaxed.
var relaxedTransport = &http.Transport{
	TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	Proxy:           http.ProxyFromEnvironment,
}

var launchingPhrases = []string{
	"launching soon", "coming soon", "under construction",
	"be right back", "website will be available",
}

var errorPagePhrases = []string{
	"page not found", "404 not found", "403 forbidden",
	"500 internal server error", "bad gateway",
}

// anchor keywords that mark pages worth crawling beyond the homepage.
var crawlKeywords = []string{
	"properties", "rentals", "rates", "availability",
	"amenities", "gallery", "photos", "about", "contact",
	"our home", "our property", "the house", "the property",
}

type Options struct {
	Timeout       time.Duration
	DeepCrawl     bool
	DeepCrawlCap  int
	CrawlTimeout  time.Duration
	BaseTransport http.RoundTripper
}

type Fetcher struct {
	opts      Options
	transport http.RoundTripper
	monitor   *connectivity.Monitor
}

func New(opts Options, monitor *connectivity.Monitor) *Fetcher {
	transport := opts.BaseTransport
	if transport == nil {
		transport = relaxedTransport
	}
	return &Fetcher{opts: opts, transport: transport, monitor: monitor}
}

// Fetch resolves a domain to usable page content, trying https first and
// falling back to http. It never returns a Go error: failures are carried
// on the outcome so a broken domain is a result, not an abort. The second
// return value is non-nil only when the outcome is working.
func (f *Fetcher) Fetch(ctx context.Context, rawDomain string) (*domain.FetchOutcome, *domain.ContentSignals) {
	name := domain.NormalizeDomain(rawDomain)
	outcome := &domain.FetchOutcome{Domain: name}

	for _, protocol := range []string{"https", "http"} {
		target := fmt.Sprintf("%s://%s", protocol, name)
		start := time.Now()
		signals, err := f.fetchOnce(ctx, protocol, target, outcome)
		metrics.FetchDuration.WithLabelValues(protocol).Observe(time.Since(start).Seconds())

		if err == nil && signals != nil {
			f.monitor.NoteSuccess()
			return outcome, signals
		}
		if err != nil {
			f.recordError(outcome, err)
			if ctx.Err() != nil {
				return outcome, nil
			}
		}
	}
	return outcome, nil
}

// fetchOnce issues one GET and validates the response. A nil error with a
// nil signals value means the response arrived but was not usable content.
func (f *Fetcher) fetchOnce(ctx context.Context, protocol, target string, outcome *domain.FetchOutcome) (*domain.ContentSignals, error) {
	var redirects int
	client := &http.Client{
		Transport: f.transport,
		Timeout:   f.opts.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			redirects = len(via)
			if len(via) >= maxRedirects {
				return errors.New("too many redirects")
			}
			return nil
		},
	}

	req, err := http.NewRequestWithContext(ctx, "GET", target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("Fetch returned non-OK status", "url", target, "status_code", resp.StatusCode)
		return nil, nil
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(bodyBytes) < minBodyBytes {
		slog.Debug("Response body too small", "url", target, "bytes", len(bodyBytes))
		return nil, nil
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(contentType, "text/html") && !strings.Contains(contentType, "text/plain") {
		slog.Debug("Unsupported content type", "url", target, "content_type", contentType)
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(bodyBytes)))
	if err != nil {
		return nil, err
	}

	signals := extractSignals(doc)
	if !validText(signals.FullText) {
		slog.Debug("Content failed validation", "url", target, "words", signals.WordCount)
		return nil, nil
	}

	outcome.Working = true
	outcome.FinalURL = resp.Request.URL.String()
	outcome.FinalHost = resp.Request.URL.Host
	outcome.Protocol = protocol
	outcome.StatusCode = resp.StatusCode
	outcome.RawContent = string(bodyBytes)
	outcome.RedirectCount = redirects
	outcome.Err = ""
	outcome.ConnectivityIssue = false

	if f.opts.DeepCrawl {
		signals.CrawledText = f.crawlAdditionalPages(ctx, outcome.FinalURL, doc)
	}
	return signals, nil
}

// extractSignals pulls the title, meta description and normalized body
// text from a parsed document. Scripts and styles are stripped from a
// clone so the original document stays intact for later inspection.
func extractSignals(doc *goquery.Document) *domain.ContentSignals {
	signals := &domain.ContentSignals{Doc: doc}

	signals.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if val, exists := doc.Find("meta[name='description']").Attr("content"); exists {
		signals.Description = strings.TrimSpace(val)
	}

	stripped := doc.Selection.Clone()
	stripped.Find("script, style, noscript").Remove()
	re := strings.NewReplacer("\n", " ", "\t", " ", "\r", " ")
	signals.FullText = strings.Join(strings.Fields(re.Replace(stripped.Text())), " ")
	signals.WordCount = len(strings.Fields(signals.FullText))
	return signals
}

func validText(text string) bool {
	if len(text) < minTextChars {
		return false
	}
	lower := strings.ToLower(text)
	for _, phrase := range launchingPhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	for _, phrase := range errorPagePhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	return len(strings.Fields(text)) >= minTextWords
}

// recordError classifies a fetch failure. Connection-level errors feed
// the shared failure streak so a dead network is not billed to the
// domain being checked.
func (f *Fetcher) recordError(outcome *domain.FetchOutcome, err error) {
	var opErr *net.OpError
	var urlErr *url.Error
	isConnErr := errors.As(err, &opErr)
	if !isConnErr && errors.As(err, &urlErr) {
		isConnErr = errors.As(urlErr.Err, &opErr)
	}

	if isConnErr {
		if f.monitor.NoteTransportError() {
			outcome.Err = "Connection error - possible connectivity issue"
			outcome.ConnectivityIssue = true
			return
		}
		outcome.Err = fmt.Sprintf("Connection error: %v", err)
		return
	}
	outcome.Err = err.Error()
}

// crawlAdditionalPages follows a handful of same-host links whose anchor
// text or href suggests property or business detail pages, concatenating
// any substantial text it finds.
func (f *Fetcher) crawlAdditionalPages(ctx context.Context, baseURL string, doc *goquery.Document) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}

	seen := map[string]struct{}{baseURL: {}}
	var targets []string
	doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") {
			return true
		}

		lowerHref := strings.ToLower(href)
		lowerText := strings.ToLower(s.Text())
		relevant := false
		for _, keyword := range crawlKeywords {
			if strings.Contains(lowerText, keyword) || strings.Contains(lowerHref, keyword) {
				relevant = true
				break
			}
		}
		if !relevant {
			return true
		}

		resolved, err := base.Parse(href)
		if err != nil || resolved.Host != base.Host {
			return true
		}
		resolved.Fragment = ""
		full := resolved.String()
		if _, dup := seen[full]; dup {
			return true
		}
		seen[full] = struct{}{}
		targets = append(targets, full)
		return len(targets) < f.opts.DeepCrawlCap
	})

	client := &http.Client{Transport: f.transport, Timeout: f.opts.CrawlTimeout}
	var parts []string
	for _, target := range targets {
		req, err := http.NewRequestWithContext(ctx, "GET", target, nil)
		if err != nil {
			continue
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := client.Do(req)
		if err != nil {
			slog.Debug("Failed to crawl additional page", "url", target, "error", err)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			continue
		}
		pageDoc, err := goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			continue
		}
		pageDoc.Find("script, style, noscript").Remove()
		text := strings.Join(strings.Fields(pageDoc.Text()), " ")
		if len(strings.Fields(text)) > 100 {
			parts = append(parts, text)
			slog.Debug("Crawled additional page", "url", target)
		}
	}
	return strings.Join(parts, " ")
}
