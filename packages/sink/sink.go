// Package sink owns all result output: the rolling CSV files, the stats
// aggregate and the optional Postgres mirror. A single goroutine owns
// every file handle and counter; producers hand records over a channel
// and wait for the ack, so a domain is either durably recorded or
// reported as an error, never half-written.
package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"domaincheck/packages/domain"
	"domaincheck/packages/metrics"
)

var csvFields = []string{
	"domain", "working", "final_url", "protocol", "status_code",
	"title", "description", "is_parked", "is_business",
	"is_hacked", "hacked_indicators", "hacked_confidence",
	"primary_language", "is_non_english", "language_confidence",
	"industry_type", "industry_confidence", "company_size", "size_confidence",
	"vr_business_model", "vr_exclusion_reason", "is_target_customer", "vr_model_confidence",
	"vr_priority", "vr_target_score", "vr_target_factors", "vr_property_count",
	"vr_property_count_confidence", "vr_decision_maker_accessible",
	"vr_decision_maker_score", "vr_needs_website_upgrade", "vr_upgrade_indicators",
	"vr_property_type", "vr_geographic_scope",
	"company_name", "primary_email", "primary_phone", "address", "country",
	"country_confidence", "state_province", "city", "local_area", "serves_locations",
	"social_media_links", "website_complexity_score", "word_count", "total_links",
	"has_online_booking", "error", "failed_due_to_connectivity", "processed_at",
}

type writeRequest struct {
	record *domain.ResultRecord
	ack    chan error
}

type snapshotRequest struct {
	reply chan snapshot
}

type snapshot struct {
	stats     domain.Stats
	processed []string
}

// Sink is the single-owner result writer.
type Sink struct {
	queue     chan writeRequest
	snapshots chan snapshotRequest
	done      chan struct{}

	mainFile *os.File
	highFile *os.File
	mainW    *csv.Writer
	highW    *csv.Writer

	stats     domain.Stats
	processed map[string]struct{}

	pool *pgxpool.Pool
	now  func() time.Time
}

// New creates the CSV streams under outputDir and starts the writer
// goroutine. databaseURL is optional; when set, every record is also
// mirrored into Postgres. seed pre-marks domains already processed by an
// earlier run so they are counted exactly once across resumes.
func New(ctx context.Context, outputDir, databaseURL string, seed []string) (*Sink, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	mainFile, err := os.Create(filepath.Join(outputDir, fmt.Sprintf("domain_results_%s.csv", timestamp)))
	if err != nil {
		return nil, fmt.Errorf("unable to create results file: %w", err)
	}
	highFile, err := os.Create(filepath.Join(outputDir, fmt.Sprintf("high_priority_targets_%s.csv", timestamp)))
	if err != nil {
		mainFile.Close()
		return nil, fmt.Errorf("unable to create high-priority file: %w", err)
	}

	s := &Sink{
		queue:     make(chan writeRequest),
		snapshots: make(chan snapshotRequest),
		done:      make(chan struct{}),
		mainFile:  mainFile,
		highFile:  highFile,
		mainW:     csv.NewWriter(mainFile),
		highW:     csv.NewWriter(highFile),
		stats:     domain.NewStats(),
		processed: make(map[string]struct{}, len(seed)),
		now:       time.Now,
	}
	for _, d := range seed {
		s.processed[d] = struct{}{}
	}

	if err := s.mainW.Write(csvFields); err != nil {
		mainFile.Close()
		highFile.Close()
		return nil, fmt.Errorf("unable to write results header: %w", err)
	}
	if err := s.highW.Write(csvFields); err != nil {
		mainFile.Close()
		highFile.Close()
		return nil, fmt.Errorf("unable to write high-priority header: %w", err)
	}
	s.mainW.Flush()
	s.highW.Flush()

	if databaseURL != "" {
		pool, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			mainFile.Close()
			highFile.Close()
			return nil, fmt.Errorf("unable to create connection pool: %w", err)
		}
		s.pool = pool
	}

	go s.writer(ctx)
	slog.Info("Result writer goroutine started",
		"main_file", mainFile.Name(),
		"high_priority_file", highFile.Name())
	return s, nil
}

// Write hands a record to the writer and waits for its ack.
func (s *Sink) Write(ctx context.Context, record *domain.ResultRecord) error {
	req := writeRequest{record: record, ack: make(chan error, 1)}
	select {
	case s.queue <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return fmt.Errorf("result sink closed")
	}
	select {
	case err := <-req.ack:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns a copy of the current stats and the sorted processed
// set, as seen by the writer at the moment of the request.
func (s *Sink) Snapshot(ctx context.Context) (domain.Stats, []string, error) {
	req := snapshotRequest{reply: make(chan snapshot, 1)}
	select {
	case s.snapshots <- req:
	case <-ctx.Done():
		return domain.Stats{}, nil, ctx.Err()
	case <-s.done:
		return domain.Stats{}, nil, fmt.Errorf("result sink closed")
	}
	snap := <-req.reply
	return snap.stats, snap.processed, nil
}

// Seen reports whether a domain was already recorded, including seeds
// from a resumed run. Safe to call before any writes for the same domain
// since the orchestrator never submits a domain twice concurrently.
func (s *Sink) Seen(ctx context.Context, name string) bool {
	_, processed, err := s.Snapshot(ctx)
	if err != nil {
		return false
	}
	for _, d := range processed {
		if d == name {
			return true
		}
	}
	return false
}

// Close stops the writer and releases the files. Pending writes are
// acked with an error.
func (s *Sink) Close() {
	close(s.queue)
	<-s.done
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Sink) writer(ctx context.Context) {
	defer close(s.done)
	defer s.mainFile.Close()
	defer s.highFile.Close()
	for {
		select {
		case req, ok := <-s.queue:
			if !ok {
				s.mainW.Flush()
				s.highW.Flush()
				slog.Info("Result writer: queue closed, exiting")
				return
			}
			req.ack <- s.handle(ctx, req.record)
		case req := <-s.snapshots:
			req.reply <- snapshot{stats: s.copyStats(), processed: s.sortedProcessed()}
		}
	}
}

func (s *Sink) handle(ctx context.Context, record *domain.ResultRecord) error {
	if _, dup := s.processed[record.Domain]; dup {
		slog.Warn("Result writer: duplicate domain dropped", "domain", record.Domain)
		return nil
	}

	record.ProcessedAt = s.now().Format("2006-01-02 15:04:05")
	row := flatten(record)

	if err := s.mainW.Write(row); err != nil {
		return fmt.Errorf("failed to write result row: %w", err)
	}
	s.mainW.Flush()
	if err := s.mainW.Error(); err != nil {
		return fmt.Errorf("failed to flush result row: %w", err)
	}

	if record.Class.Vertical.Priority == domain.PriorityHigh &&
		record.Class.Industry.Industry == domain.IndustryVacationRental {
		if err := s.highW.Write(row); err != nil {
			return fmt.Errorf("failed to write high-priority row: %w", err)
		}
		s.highW.Flush()
		if err := s.highW.Error(); err != nil {
			return fmt.Errorf("failed to flush high-priority row: %w", err)
		}
	}

	s.updateStats(record)
	s.processed[record.Domain] = struct{}{}
	metrics.DomainsProcessed.WithLabelValues(outcomeLabel(record)).Inc()
	if record.Class.Vertical.IsTarget {
		metrics.TargetsFound.WithLabelValues(record.Class.Vertical.Priority).Inc()
	}

	if s.pool != nil {
		s.mirror(ctx, record)
	}
	return nil
}

func (s *Sink) updateStats(record *domain.ResultRecord) {
	class := &record.Class

	s.stats.TotalProcessed++
	if record.Fetch.Working {
		s.stats.Working++
	}
	if class.IsBusiness {
		s.stats.Business++
	}
	if class.IsParked {
		s.stats.Parked++
	}
	if class.Hacked.IsHacked {
		s.stats.Hacked++
	}
	if record.Fetch.Err != "" && !record.Fetch.ConnectivityIssue {
		s.stats.Failed++
	}

	if class.Industry.Industry != "" {
		s.stats.Industries[class.Industry.Industry]++
	}
	if class.Size.Size != "" {
		s.stats.CompanySizes[class.Size.Size]++
	}

	if class.Industry.Industry != domain.IndustryVacationRental {
		return
	}
	if class.Vertical.Model != "" {
		s.stats.VerticalModels[class.Vertical.Model]++
	}
	switch class.Vertical.Priority {
	case domain.PriorityHigh:
		s.stats.HighPriorityTargets++
	case domain.PriorityMedium:
		s.stats.MediumPriorityTargets++
	}
	if class.DecisionMaker.Level == "high" {
		s.stats.DecisionMakerAccessible++
	}
	if class.Upgrade.NeedsUpgrade {
		s.stats.WebsiteNeedsUpgrade++
	}
	if class.PropertyType.Type != "" {
		s.stats.PropertyTypes[class.PropertyType.Type]++
	}
	if class.Vertical.IsTarget {
		s.stats.TargetCustomers++
	} else if class.Vertical.ExclusionReason != "" {
		s.stats.ExcludedBusinesses[class.Vertical.ExclusionReason]++
	}
}

func (s *Sink) copyStats() domain.Stats {
	out := s.stats
	out.Industries = copyMap(s.stats.Industries)
	out.CompanySizes = copyMap(s.stats.CompanySizes)
	out.ExcludedBusinesses = copyMap(s.stats.ExcludedBusinesses)
	out.VerticalModels = copyMap(s.stats.VerticalModels)
	out.PropertyTypes = copyMap(s.stats.PropertyTypes)
	return out
}

func copyMap(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (s *Sink) sortedProcessed() []string {
	out := make([]string, 0, len(s.processed))
	for d := range s.processed {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// mirror is best effort: a database hiccup must not fail the CSV write
// that already succeeded.
func (s *Sink) mirror(ctx context.Context, record *domain.ResultRecord) {
	class := &record.Class
	_, err := s.pool.Exec(ctx, `
		INSERT INTO domain_results
			(domain, working, final_url, industry, company_size, business_model,
			 priority, is_target, target_score, error, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (domain) DO NOTHING`,
		record.Domain, record.Fetch.Working, record.Fetch.FinalURL,
		class.Industry.Industry, class.Size.Size, class.Vertical.Model,
		class.Vertical.Priority, class.Vertical.IsTarget, class.Vertical.TargetScore,
		record.Fetch.Err, record.ProcessedAt)
	if err != nil {
		slog.Error("Result writer: database mirror failed", "domain", record.Domain, "error", err)
	}
}

func flatten(record *domain.ResultRecord) []string {
	class := &record.Class
	biz := &class.Business

	propertyCount := ""
	if class.PropertyCount.Count > 0 {
		propertyCount = strconv.Itoa(class.PropertyCount.Count)
	}
	isTarget := ""
	if class.Vertical.Model != "" {
		isTarget = strconv.FormatBool(class.Vertical.IsTarget)
	}

	var social []string
	for _, platform := range sortedKeys(biz.SocialMedia) {
		social = append(social, fmt.Sprintf("%s: %s", platform, biz.SocialMedia[platform]))
	}

	return []string{
		record.Domain,
		strconv.FormatBool(record.Fetch.Working),
		record.Fetch.FinalURL,
		record.Fetch.Protocol,
		statusCode(record.Fetch.StatusCode),
		record.Title,
		record.Description,
		strconv.FormatBool(class.IsParked),
		strconv.FormatBool(class.IsBusiness),
		strconv.FormatBool(class.Hacked.IsHacked),
		strings.Join(class.Hacked.Indicators, "; "),
		strconv.Itoa(class.Hacked.Confidence),
		class.Language.Primary,
		strconv.FormatBool(class.Language.IsNonEnglish),
		strconv.Itoa(class.Language.Confidence),
		class.Industry.Industry,
		strconv.Itoa(class.Industry.Confidence),
		class.Size.Size,
		strconv.Itoa(class.Size.Confidence),
		class.Vertical.Model,
		class.Vertical.ExclusionReason,
		isTarget,
		strconv.Itoa(class.Vertical.Confidence),
		class.Vertical.Priority,
		strconv.Itoa(class.Vertical.TargetScore),
		strings.Join(class.Vertical.TargetFactors, "; "),
		propertyCount,
		strconv.Itoa(class.PropertyCount.Confidence),
		class.DecisionMaker.Level,
		strconv.Itoa(class.DecisionMaker.Score),
		strconv.FormatBool(class.Upgrade.NeedsUpgrade),
		strings.Join(class.Upgrade.Indicators, "; "),
		class.PropertyType.Type,
		class.GeoScope.Scope,
		biz.CompanyName,
		biz.PrimaryEmail,
		biz.PrimaryPhone,
		biz.Address,
		biz.Country,
		strconv.Itoa(biz.CountryConfidence),
		biz.StateProvince,
		biz.City,
		biz.LocalArea,
		strings.Join(biz.ServesLocations, "; "),
		strings.Join(social, "; "),
		strconv.Itoa(biz.Metrics.ComplexityScore),
		strconv.Itoa(biz.Metrics.WordCount),
		strconv.Itoa(biz.Metrics.TotalLinks),
		strconv.FormatBool(biz.HasOnlineBooking),
		record.Fetch.Err,
		strconv.FormatBool(record.Fetch.ConnectivityIssue),
		record.ProcessedAt,
	}
}

func outcomeLabel(record *domain.ResultRecord) string {
	switch {
	case record.Class.Hacked.IsHacked:
		return "hacked"
	case record.Class.IsParked:
		return "parked"
	case record.Fetch.Working:
		return "working"
	default:
		return "failed"
	}
}

func statusCode(code int) string {
	if code == 0 {
		return ""
	}
	return strconv.Itoa(code)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
