package build

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/vividigit/sitebuilder/internal/export"
	"github.com/vividigit/sitebuilder/internal/linkcheck"
	"github.com/vividigit/sitebuilder/internal/metrics"
	"github.com/vividigit/sitebuilder/internal/version"
)

// Report file names, written into the language output directory.
const (
	ReportJSON = "build-report.json"
	ReportText = "build-report.txt"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// NewBuildReport constructs a new BuildReport.
func NewBuildReport(buildID, site, lang string) *BuildReport {
	return &BuildReport{
		SchemaVersion:   1,
		BuildID:         buildID,
		Site:            site,
		Lang:            lang,
		Start:           time.Now(),
		StageDurations:  make(map[string]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
		Fingerprints:    make(map[string]string),
		Version:         version.Version,
	}
}

// BuildReport captures what one language build did.
type BuildReport struct {
	SchemaVersion   int
	BuildID         string
	Site            string
	Lang            string
	Revision        string // HEAD of the project repository, when it is one
	Start           time.Time
	End             time.Time
	Errors          []error // fatal errors causing build abortion
	Warnings        []error // non-fatal issues
	StageDurations  map[string]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageCounts     map[StageName]StageCount

	Files         int // content files discovered
	Pages         int // pages parsed
	Entities      int // catalog entries
	Associations  int // entities present in the association map
	RelatedBlocks int
	FilterBlocks  int
	Tasks         int
	TaskPickers   int
	Rendered      int
	Exported      int
	AssetsCopied  int
	BrokenLinks   []linkcheck.Broken

	// ContentFingerprint hashes every page fingerprint in URL order; it
	// changes whenever any page's source changes.
	ContentFingerprint string
	Fingerprints       map[string]string // page URL -> content fingerprint

	Outcome BuildOutcome
	Issues  []ReportIssue
	Version string
}

// AddIssue appends a structured issue and mirrors severity into Errors/Warnings slices.
func (r *BuildReport) AddIssue(code ReportIssueCode, stage StageName, severity IssueSeverity, msg string, transient bool, err error) {
	issue := ReportIssue{Code: code, Stage: stage, Severity: severity, Message: msg, Transient: transient}
	r.Issues = append(r.Issues, issue)
	if err != nil {
		switch severity {
		case SeverityError:
			r.Errors = append(r.Errors, err)
		case SeverityWarning:
			r.Warnings = append(r.Warnings, err)
		}
	}
}

// ReportIssueCode enumerates machine-parseable issue identifiers.
type ReportIssueCode string

const (
	IssueDiscoveryFailure  ReportIssueCode = "DISCOVERY_FAILURE"
	IssueNoContent         ReportIssueCode = "NO_CONTENT"
	IssueContentParse      ReportIssueCode = "CONTENT_PARSE"
	IssueMissingBlock      ReportIssueCode = "MISSING_BLOCK_TEMPLATE"
	IssueBlockWithoutDemo  ReportIssueCode = "BLOCK_WITHOUT_DEMO"
	IssueMissingTemplate   ReportIssueCode = "MISSING_TEMPLATE"
	IssueRenderFailure     ReportIssueCode = "RENDER_FAILURE"
	IssueExportFailure     ReportIssueCode = "EXPORT_FAILURE"
	IssueBrokenLinks       ReportIssueCode = "BROKEN_LINKS"
	IssueCanceled          ReportIssueCode = "BUILD_CANCELED"
	IssueGenericStageError ReportIssueCode = "GENERIC_STAGE_ERROR"
)

// IssueSeverity represents normalized severity levels.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// ReportIssue is a structured taxonomy entry describing a discrete problem encountered.
type ReportIssue struct {
	Code      ReportIssueCode `json:"code"`
	Stage     StageName       `json:"stage"`
	Severity  IssueSeverity   `json:"severity"`
	Message   string          `json:"message"`
	Transient bool            `json:"transient"`
}

// StageCount aggregates counts of outcomes for a stage.
type StageCount struct {
	Success  int `json:"success"`
	Warning  int `json:"warning"`
	Fatal    int `json:"fatal"`
	Canceled int `json:"canceled"`
}

// Finish sets the end time of the report.
func (r *BuildReport) Finish() { r.End = time.Now() }

// Duration is the wall time between Start and End.
func (r *BuildReport) Duration() time.Duration { return r.End.Sub(r.Start) }

// RecordStageResult updates BuildReport counters and emits metrics (if recorder non-nil).
func (r *BuildReport) RecordStageResult(stage StageName, res StageResult, recorder metrics.Recorder) {
	if r.StageCounts == nil {
		r.StageCounts = make(map[StageName]StageCount)
	}
	sc := r.StageCounts[stage]
	var label metrics.ResultLabel
	switch res {
	case StageResultSuccess:
		sc.Success++
		label = metrics.ResultSuccess
	case StageResultWarning:
		sc.Warning++
		label = metrics.ResultWarning
	case StageResultFatal:
		sc.Fatal++
		label = metrics.ResultFatal
	case StageResultCanceled:
		sc.Canceled++
		label = metrics.ResultCanceled
	case StageResultSkipped:
		return
	}
	r.StageCounts[stage] = sc
	if recorder != nil {
		recorder.IncStageResult(string(stage), label)
	}
}

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	return fmt.Sprintf("site=%s lang=%s pages=%d entities=%d associations=%d rendered=%d exported=%d broken_links=%d duration=%s errors=%d warnings=%d outcome=%s",
		r.Site, r.Lang, r.Pages, r.Entities, r.Associations, r.Rendered, r.Exported, len(r.BrokenLinks),
		r.Duration().Truncate(time.Millisecond), len(r.Errors), len(r.Warnings), string(r.Outcome))
}

// DeriveOutcome sets the Outcome field based on recorded errors/warnings.
func (r *BuildReport) DeriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			var se *StageError
			if errors.As(e, &se) && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Persist writes build-report.json and build-report.txt atomically into root.
func (r *BuildReport) Persist(root string) error {
	if r.End.IsZero() {
		r.Finish()
		r.DeriveOutcome()
	}
	if err := export.WriteJSON(filepath.Join(root, ReportJSON), r.SanitizedCopy()); err != nil {
		return fmt.Errorf("write report json: %w", err)
	}
	if err := export.WriteFile(filepath.Join(root, ReportText), []byte(r.Summary()+"\n")); err != nil {
		return fmt.Errorf("write report summary: %w", err)
	}
	return nil
}

// SanitizedCopy returns a copy with error fields converted to strings for JSON friendliness.
func (r *BuildReport) SanitizedCopy() *BuildReportSerializable {
	stageCounts := make(map[string]StageCount, len(r.StageCounts))
	for k, v := range r.StageCounts {
		stageCounts[string(k)] = v
	}
	sek := make(map[string]string, len(r.StageErrorKinds))
	for k, v := range r.StageErrorKinds {
		sek[string(k)] = string(v)
	}
	durations := make(map[string]float64, len(r.StageDurations))
	for k, v := range r.StageDurations {
		durations[k] = float64(v.Microseconds()) / 1000
	}
	issues := r.Issues
	if issues == nil {
		issues = []ReportIssue{}
	}
	broken := r.BrokenLinks
	if broken == nil {
		broken = []linkcheck.Broken{}
	}

	s := &BuildReportSerializable{
		SchemaVersion:      r.SchemaVersion,
		BuildID:            r.BuildID,
		Site:               r.Site,
		Lang:               r.Lang,
		Revision:           r.Revision,
		Start:              r.Start,
		End:                r.End,
		DurationMS:         float64(r.Duration().Microseconds()) / 1000,
		Errors:             make([]string, len(r.Errors)),
		Warnings:           make([]string, len(r.Warnings)),
		StageDurationsMS:   durations,
		StageErrorKinds:    sek,
		StageCounts:        stageCounts,
		Files:              r.Files,
		Pages:              r.Pages,
		Entities:           r.Entities,
		Associations:       r.Associations,
		RelatedBlocks:      r.RelatedBlocks,
		FilterBlocks:       r.FilterBlocks,
		Tasks:              r.Tasks,
		TaskPickers:        r.TaskPickers,
		Rendered:           r.Rendered,
		Exported:           r.Exported,
		AssetsCopied:       r.AssetsCopied,
		BrokenLinks:        broken,
		ContentFingerprint: r.ContentFingerprint,
		Fingerprints:       r.Fingerprints,
		Outcome:            string(r.Outcome),
		Issues:             issues,
		Version:            r.Version,
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	return s
}

// BuildReportSerializable mirrors BuildReport but with string errors for JSON output.
type BuildReportSerializable struct {
	SchemaVersion      int                   `json:"schema_version"`
	BuildID            string                `json:"build_id"`
	Site               string                `json:"site"`
	Lang               string                `json:"lang"`
	Revision           string                `json:"revision,omitempty"`
	Start              time.Time             `json:"start"`
	End                time.Time             `json:"end"`
	DurationMS         float64               `json:"duration_ms"`
	Errors             []string              `json:"errors"`
	Warnings           []string              `json:"warnings"`
	StageDurationsMS   map[string]float64    `json:"stage_durations_ms"`
	StageErrorKinds    map[string]string     `json:"stage_error_kinds"`
	StageCounts        map[string]StageCount `json:"stage_counts"`
	Files              int                   `json:"files"`
	Pages              int                   `json:"pages"`
	Entities           int                   `json:"entities"`
	Associations       int                   `json:"associations"`
	RelatedBlocks      int                   `json:"related_blocks"`
	FilterBlocks       int                   `json:"filter_blocks"`
	Tasks              int                   `json:"tasks"`
	TaskPickers        int                   `json:"task_pickers"`
	Rendered           int                   `json:"rendered"`
	Exported           int                   `json:"exported"`
	AssetsCopied       int                   `json:"assets_copied"`
	BrokenLinks        []linkcheck.Broken    `json:"broken_links"`
	ContentFingerprint string                `json:"content_fingerprint,omitempty"`
	Fingerprints       map[string]string     `json:"fingerprints,omitempty"`
	Outcome            string                `json:"outcome"`
	Issues             []ReportIssue         `json:"issues"`
	Version            string                `json:"version,omitempty"`
}
