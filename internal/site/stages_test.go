package site

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/giovifav/ssg/internal/errs"
	"github.com/giovifav/ssg/internal/metrics"
)

func testState() *GenState {
	g := &Generator{recorder: metrics.NoopRecorder{}}
	return newGenState(g, newReport("test-run"))
}

func TestRunStages_WarningContinuesFatalStops(t *testing.T) {
	gs := testState()
	var ran []string

	err := runStages(context.Background(), gs, []namedStage{
		{"one", func(ctx context.Context, gs *GenState) error {
			ran = append(ran, "one")
			return nil
		}},
		{"two", func(ctx context.Context, gs *GenState) error {
			ran = append(ran, "two")
			return newWarnStageError("two", errors.New("minor"))
		}},
		{"three", func(ctx context.Context, gs *GenState) error {
			ran = append(ran, "three")
			return newFatalStageError("three", errors.New("broken"))
		}},
		{"four", func(ctx context.Context, gs *GenState) error {
			ran = append(ran, "four")
			return nil
		}},
	})

	require.Error(t, err)
	require.Equal(t, []string{"one", "two", "three"}, ran)
	require.Len(t, gs.Report.Warnings, 1)
	require.Len(t, gs.Report.Errors, 1)
	require.Equal(t, 1, gs.Report.StageCounts["one"].Success)
	require.Equal(t, 1, gs.Report.StageCounts["two"].Warning)
	require.Equal(t, 1, gs.Report.StageCounts["three"].Fatal)
	require.NotContains(t, gs.Report.StageCounts, "four")
}

func TestRunStages_PlainErrorTreatedAsFatal(t *testing.T) {
	gs := testState()
	err := runStages(context.Background(), gs, []namedStage{
		{"only", func(ctx context.Context, gs *GenState) error {
			return errors.New("unclassified")
		}},
	})

	require.Error(t, err)
	var se *StageError
	require.ErrorAs(t, err, &se)
	require.Equal(t, StageErrorFatal, se.Kind)
}

func TestRunStages_RecordsDurations(t *testing.T) {
	gs := testState()
	require.NoError(t, runStages(context.Background(), gs, []namedStage{
		{"quick", func(ctx context.Context, gs *GenState) error { return nil }},
	}))
	require.Contains(t, gs.Report.StageDurations, "quick")
}

func TestReport_DeriveOutcome(t *testing.T) {
	r := newReport("x")
	r.finish()
	require.Equal(t, OutcomeSuccess, r.Outcome)

	r = newReport("x")
	r.Warnings = append(r.Warnings, errors.New("w"))
	r.finish()
	require.Equal(t, OutcomeWarning, r.Outcome)

	r = newReport("x")
	r.Errors = append(r.Errors, errors.New("e"))
	r.finish()
	require.Equal(t, OutcomeFailed, r.Outcome)

	r = newReport("x")
	r.Errors = append(r.Errors, newCanceledStageError("scan", context.Canceled))
	r.finish()
	require.Equal(t, OutcomeCanceled, r.Outcome)
}

func TestReport_MarshalJSONFlattensErrors(t *testing.T) {
	r := newReport("run-1")
	r.AddSiteErrors([]*errs.SiteError{
		errs.Warning(errs.CategoryThumbnail, "bad image"),
	})
	r.Errors = append(r.Errors, errors.New("boom"))
	r.finish()

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "run-1", decoded["run_id"])
	require.Contains(t, decoded["errors"], "boom")
	require.Len(t, decoded["issues"], 1)
}

func TestReport_Persist(t *testing.T) {
	r := newReport("run-2")
	r.Pages = 3
	r.finish()

	path := t.TempDir() + "/report.json"
	require.NoError(t, r.Persist(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"pages": 3`)
}
