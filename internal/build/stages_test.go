package build

import (
	"context"
	stdErrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/vividigit/sitebuilder/internal/foundation/errors"
	"github.com/vividigit/sitebuilder/internal/metrics"
)

func TestClassifyStageResult(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		result StageResult
		code   ReportIssueCode
		abort  bool
	}{
		{"success", nil, StageResultSuccess, "", false},
		{"plain error is fatal", stdErrors.New("boom"), StageResultFatal, IssueGenericStageError, true},
		{"context canceled", context.Canceled, StageResultCanceled, IssueCanceled, true},
		{"no content warning", NewWarnStageError(StageDiscover, fmt.Errorf("%w: empty", ErrDiscovery)), StageResultWarning, IssueNoContent, false},
		{"discovery failure", NewFatalStageError(StageDiscover, fmt.Errorf("%w: denied", ErrDiscovery)), StageResultFatal, IssueDiscoveryFailure, true},
		{"parse warning", NewWarnStageError(StageParse, fmt.Errorf("%w: bad toml", ErrContent)), StageResultWarning, IssueContentParse, false},
		{"missing block", NewWarnStageError(StageValidateBlocks, fmt.Errorf("%w: faq", ErrBlocks)), StageResultWarning, IssueMissingBlock, false},
		{"export failure", NewFatalStageError(StageExport, fmt.Errorf("%w: disk", ErrExport)), StageResultFatal, IssueExportFailure, true},
		{"broken links", NewWarnStageError(StageLinkCheck, fmt.Errorf("%w: 1", ErrBrokenLinks)), StageResultWarning, IssueBrokenLinks, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ClassifyStageResult(StageParse, tt.err)
			require.Equal(t, tt.result, out.Result)
			require.Equal(t, tt.code, out.IssueCode)
			require.Equal(t, tt.abort, out.Abort)
		})
	}
}

func TestStageErrorTransient(t *testing.T) {
	retryable := errors.FileSystemError("disk full").Retryable().Build()
	require.True(t, NewFatalStageError(StageExport, retryable).Transient())
	require.False(t, NewFatalStageError(StageParse, retryable).Transient())
	require.False(t, NewCanceledStageError(StageExport, retryable).Transient())
	require.False(t, NewFatalStageError(StageRender, errors.RenderError("bad").Build()).Transient())
}

func TestRunStagesStopsOnFatal(t *testing.T) {
	var ran []StageName
	mark := func(name StageName, err error) Stage {
		return func(context.Context, *BuildState) error {
			ran = append(ran, name)
			return err
		}
	}
	stages := NewPipeline().
		Add(StageDiscover, mark(StageDiscover, nil)).
		Add(StageParse, mark(StageParse, NewWarnStageError(StageParse, ErrContent))).
		Add(StageRender, mark(StageRender, NewFatalStageError(StageRender, ErrRender))).
		Add(StageExport, mark(StageExport, nil)).
		Build()

	rec := metrics.NewPrometheusRecorder(nil)
	bs := &BuildState{Report: NewBuildReport("id", "main", "en"), Recorder: rec, Logger: discardLogger()}
	err := RunStages(context.Background(), bs, stages)

	require.ErrorIs(t, err, ErrRender)
	require.Equal(t, []StageName{StageDiscover, StageParse, StageRender}, ran)
	require.Equal(t, StageCount{Success: 1}, bs.Report.StageCounts[StageDiscover])
	require.Equal(t, StageCount{Warning: 1}, bs.Report.StageCounts[StageParse])
	require.Equal(t, StageCount{Fatal: 1}, bs.Report.StageCounts[StageRender])
	require.Len(t, bs.Report.Warnings, 1)
	require.Len(t, bs.Report.Errors, 1)

	bs.Report.Finish()
	bs.Report.DeriveOutcome()
	require.Equal(t, OutcomeFailed, bs.Report.Outcome)
}

func TestPipelineAddIf(t *testing.T) {
	noop := func(context.Context, *BuildState) error { return nil }
	p := NewPipeline().Add(StageDiscover, noop).AddIf(false, StageAssets, noop).AddIf(true, StageSitemap, noop)
	require.Equal(t, []StageName{StageDiscover, StageSitemap}, p.Names())

	defs := p.Build()
	defs[0].Name = "mutated"
	require.Equal(t, StageDiscover, p.Names()[0])
}

func TestReportDeriveOutcome(t *testing.T) {
	r := NewBuildReport("id", "main", "en")
	r.DeriveOutcome()
	require.Equal(t, OutcomeSuccess, r.Outcome)

	r.AddIssue(IssueBlockWithoutDemo, StageValidateBlocks, SeverityWarning, "no demo", false, nil)
	r.DeriveOutcome()
	require.Equal(t, OutcomeSuccess, r.Outcome)

	r.AddIssue(IssueContentParse, StageParse, SeverityWarning, "bad", false, ErrContent)
	r.DeriveOutcome()
	require.Equal(t, OutcomeWarning, r.Outcome)

	r.AddIssue(IssueCanceled, StageRender, SeverityError, "canceled", false, NewCanceledStageError(StageRender, context.Canceled))
	r.DeriveOutcome()
	require.Equal(t, OutcomeCanceled, r.Outcome)
}

func TestReportPersist(t *testing.T) {
	dir := t.TempDir()
	r := NewBuildReport("abc", "main", "en")
	r.Pages = 3
	r.StageDurations[string(StageParse)] = 1500 * time.Microsecond
	require.NoError(t, r.Persist(dir))

	require.Equal(t, OutcomeSuccess, r.Outcome)
	s := r.SanitizedCopy()
	require.InDelta(t, 1.5, s.StageDurationsMS[string(StageParse)], 0.0001)
	require.NotNil(t, s.Issues)
	require.NotNil(t, s.BrokenLinks)

	text, err := os.ReadFile(filepath.Join(dir, ReportText))
	require.NoError(t, err)
	require.Contains(t, string(text), "site=main lang=en pages=3")
	require.FileExists(t, filepath.Join(dir, ReportJSON))
}

func TestRevision(t *testing.T) {
	dir := t.TempDir()
	rev, err := Revision(dir)
	require.NoError(t, err)
	require.Empty(t, rev)

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	rev, err = Revision(dir)
	require.NoError(t, err)
	require.Empty(t, rev, "repository without commits")

	writeFile(t, filepath.Join(dir, "sites", "main", "site.yml"), "site:\n  theme: default\n")
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("sites/main/site.yml")
	require.NoError(t, err)
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	rev, err = Revision(filepath.Join(dir, "sites", "main"))
	require.NoError(t, err)
	require.Equal(t, hash.String(), rev)
}
