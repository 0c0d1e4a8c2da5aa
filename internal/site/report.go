package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/giovifav/ssg/internal/errs"
)

// Outcome is the typed enumeration of final generation result states.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeWarning  Outcome = "warning"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Issue is one structured per-input problem: a machine-parseable category
// plus the human message. Issues appear in the order their inputs were
// visited, so two runs over the same site report identically.
type Issue struct {
	Category errs.Category `json:"category"`
	Severity string        `json:"severity"`
	Message  string        `json:"message"`
}

// StageCount aggregates outcome counts for one stage.
type StageCount struct {
	Success  int `json:"success"`
	Warning  int `json:"warning"`
	Fatal    int `json:"fatal"`
	Canceled int `json:"canceled"`
}

// Report captures metrics about one site generation run.
type Report struct {
	RunID string    `json:"run_id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Pages      int `json:"pages"`
	Galleries  int `json:"galleries"`
	Blogs      int `json:"blogs"`
	Posts      int `json:"posts"`
	Thumbnails int `json:"thumbnails"`
	Assets     int `json:"assets"`
	Indexed    int `json:"indexed"`

	Errors   []error `json:"-"`
	Warnings []error `json:"-"`
	Issues   []Issue `json:"issues"`

	StageDurations map[string]time.Duration `json:"stage_durations"`
	StageCounts    map[string]StageCount    `json:"stage_counts"`

	Outcome Outcome `json:"outcome"`
}

func newReport(runID string) *Report {
	return &Report{
		RunID:          runID,
		Start:          time.Now(),
		StageDurations: map[string]time.Duration{},
		StageCounts:    map[string]StageCount{},
	}
}

// AddSiteErrors records per-input warnings into the issue list, preserving
// the order they were produced in.
func (r *Report) AddSiteErrors(errors []*errs.SiteError) {
	for _, e := range errors {
		if e == nil {
			continue
		}
		r.Issues = append(r.Issues, Issue{
			Category: e.Category,
			Severity: string(e.Severity),
			Message:  e.Message,
		})
		if e.Severity == errs.SeverityWarning {
			r.Warnings = append(r.Warnings, e)
		} else {
			r.Errors = append(r.Errors, e)
		}
	}
}

func (r *Report) finish() {
	r.End = time.Now()
	r.deriveOutcome()
}

func (r *Report) deriveOutcome() {
	for _, e := range r.Errors {
		if se, ok := e.(*StageError); ok && se.Kind == StageErrorCanceled {
			r.Outcome = OutcomeCanceled
			return
		}
	}
	if len(r.Errors) > 0 {
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Duration returns the wall-clock time of the run.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

// Summary returns a single-line human summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("pages=%d galleries=%d posts=%d thumbnails=%d assets=%d duration=%s warnings=%d errors=%d outcome=%s",
		r.Pages, r.Galleries, r.Posts, r.Thumbnails, r.Assets,
		r.Duration().Truncate(time.Millisecond), len(r.Warnings), len(r.Errors), r.Outcome)
}

// reportAlias strips Report's methods so marshaling does not recurse.
type reportAlias Report

type reportSerializable struct {
	reportAlias
	ErrorStrings   []string `json:"errors"`
	WarningStrings []string `json:"warnings"`
}

// MarshalJSON flattens the error slices so the report stays machine readable.
func (r *Report) MarshalJSON() ([]byte, error) {
	s := reportSerializable{reportAlias: reportAlias(*r)}
	for _, e := range r.Errors {
		s.ErrorStrings = append(s.ErrorStrings, e.Error())
	}
	for _, w := range r.Warnings {
		s.WarningStrings = append(s.WarningStrings, w.Error())
	}
	return json.Marshal(s)
}

// Persist writes the report as JSON, atomically, at path.
func (r *Report) Persist(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
