package build

import (
	"context"
	"errors"
)

// StageOutcome normalized result of stage execution.
type StageOutcome struct {
	Stage     StageName
	Error     *StageError
	Result    StageResult
	IssueCode ReportIssueCode
	Severity  IssueSeverity
	Transient bool
	Abort     bool
}

func resultFromStageErrorKind(k StageErrorKind) StageResult {
	switch k {
	case StageErrorWarning:
		return StageResultWarning
	case StageErrorCanceled:
		return StageResultCanceled
	default:
		return StageResultFatal
	}
}

func severityFromStageErrorKind(k StageErrorKind) IssueSeverity {
	if k == StageErrorWarning {
		return SeverityWarning
	}
	return SeverityError
}

// ClassifyStageResult converts a raw error from a stage into a StageOutcome.
// Errors that are not StageErrors are fatal, except context cancellation.
func ClassifyStageResult(stage StageName, err error) StageOutcome {
	if err == nil {
		return StageOutcome{Stage: stage, Result: StageResultSuccess}
	}

	var se *StageError
	if !errors.As(err, &se) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			se = NewCanceledStageError(stage, err)
		} else {
			se = NewFatalStageError(stage, err)
		}
	}

	if se.Kind == StageErrorCanceled {
		return StageOutcome{
			Stage:     stage,
			Error:     se,
			Result:    StageResultCanceled,
			IssueCode: IssueCanceled,
			Severity:  SeverityError,
			Abort:     true,
		}
	}

	return StageOutcome{
		Stage:     stage,
		Error:     se,
		Result:    resultFromStageErrorKind(se.Kind),
		IssueCode: classifyIssueCode(se),
		Severity:  severityFromStageErrorKind(se.Kind),
		Transient: se.Transient(),
		Abort:     se.Kind == StageErrorFatal,
	}
}

func classifyIssueCode(se *StageError) ReportIssueCode {
	switch {
	case errors.Is(se.Err, ErrDiscovery):
		if se.Stage == StageDiscover && se.Kind == StageErrorWarning {
			return IssueNoContent
		}
		return IssueDiscoveryFailure
	case errors.Is(se.Err, ErrContent):
		return IssueContentParse
	case errors.Is(se.Err, ErrBlocks):
		return IssueMissingBlock
	case errors.Is(se.Err, ErrRender):
		if se.Kind == StageErrorWarning {
			return IssueMissingTemplate
		}
		return IssueRenderFailure
	case errors.Is(se.Err, ErrExport):
		return IssueExportFailure
	case errors.Is(se.Err, ErrBrokenLinks):
		return IssueBrokenLinks
	}
	return IssueGenericStageError
}
