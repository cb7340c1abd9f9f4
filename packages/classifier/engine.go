package classifier

import (
	"fmt"
	"log/slog"

	"domaincheck/packages/analyzer"
	"domaincheck/packages/domain"
)

// Engine runs every classification stage for one fetched page. Stages are
// isolated: a panic in one is logged and leaves that field at its neutral
// zero value instead of losing the whole domain.
type Engine struct {
	hackedThreshold  int
	upgradeThreshold int
	logger           *slog.Logger
}

func NewEngine(hackedThreshold, upgradeThreshold int, logger *slog.Logger) *Engine {
	return &Engine{
		hackedThreshold:  hackedThreshold,
		upgradeThreshold: upgradeThreshold,
		logger:           logger,
	}
}

// Classify produces the full classification for a working page. A hacked
// verdict short-circuits everything past language detection and marks the
// fetch outcome so the domain is reported as compromised rather than as a
// lead.
func (e *Engine) Classify(fetch *domain.FetchOutcome, signals *domain.ContentSignals) domain.ClassificationResult {
	var result domain.ClassificationResult
	pageText := signals.CombinedText()

	e.runStage(fetch.Domain, "hacked_detection", func() {
		result.Hacked = analyzer.DetectHacked(fetch, signals, e.hackedThreshold)
	})
	e.runStage(fetch.Domain, "language_detection", func() {
		result.Language = analyzer.DetectLanguage(signals.Doc, signals.FullText)
	})
	if result.Hacked.IsHacked {
		fetch.Err = "Website appears to be hacked"
		return result
	}

	e.runStage(fetch.Domain, "parked_detection", func() {
		result.IsParked = analyzer.IsParked(pageText, signals.Title)
	})

	// A parked page is never a business, but industry classification and
	// the vertical stages still run on every working page.
	if !result.IsParked {
		e.runStage(fetch.Domain, "business_detection", func() {
			result.IsBusiness = IsBusinessWebsite(signals.Doc, pageText)
		})
	}
	e.runStage(fetch.Domain, "industry_classification", func() {
		result.Industry = ClassifyIndustry(pageText, signals.Title, signals.Description)
	})

	if result.IsBusiness {
		e.runStage(fetch.Domain, "size_classification", func() {
			result.Size = ClassifySize(signals.Doc, pageText, signals.Title, signals.Description)
		})
		e.runStage(fetch.Domain, "business_info", func() {
			result.Business = ExtractBusinessInfo(signals.Doc)
		})
	}

	if result.Industry.Industry != domain.IndustryVacationRental {
		return result
	}

	e.runStage(fetch.Domain, "property_count", func() {
		result.PropertyCount = EstimatePropertyCount(pageText)
	})
	e.runStage(fetch.Domain, "decision_maker", func() {
		result.DecisionMaker = ScoreDecisionMakerAccess(pageText, result.Business.Emails, signals.WordCount)
	})
	e.runStage(fetch.Domain, "upgrade_assessment", func() {
		result.Upgrade = AssessUpgradeNeed(signals.Doc, pageText, fetch.FinalURL, signals.WordCount, e.upgradeThreshold)
	})
	e.runStage(fetch.Domain, "property_type", func() {
		result.PropertyType = ClassifyPropertyType(pageText)
	})
	e.runStage(fetch.Domain, "geographic_scope", func() {
		result.GeoScope = DetectGeographicScope(pageText)
	})
	e.runStage(fetch.Domain, "vertical_model", func() {
		result.Vertical = ClassifyVerticalModel(signals.Doc, pageText, fetch.FinalURL,
			result.PropertyCount, result.DecisionMaker, result.Upgrade, result.GeoScope, result.Size)
	})
	return result
}

func (e *Engine) runStage(domainName, stage string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Classification stage failed",
				"domain", domainName,
				"stage", stage,
				"error", fmt.Sprint(r))
		}
	}()
	fn()
}
