package site

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/giovifav/ssg/internal/blog"
	"github.com/giovifav/ssg/internal/content"
	"github.com/giovifav/ssg/internal/gallery"
	"github.com/giovifav/ssg/internal/markdown"
	"github.com/giovifav/ssg/internal/metrics"
	"github.com/giovifav/ssg/internal/search"
	"github.com/giovifav/ssg/internal/theme"
)

// Stage is a discrete unit of work in the site generation run.
type Stage func(ctx context.Context, gs *GenState) error

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Generation must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}
func newWarnStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}
func newCanceledStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// GenState carries mutable state across generation stages.
type GenState struct {
	Generator *Generator
	Report    *Report

	Entries   []content.Entry
	Docs      map[string]*markdown.Document
	Tree      *content.Tree
	Galleries map[content.NodeID]*gallery.Gallery
	Blogs     map[content.NodeID]*blog.Blog
	Theme     *theme.Engine
	Index     *search.Index

	start time.Time
}

func newGenState(g *Generator, report *Report) *GenState {
	return &GenState{
		Generator: g,
		Report:    report,
		Docs:      map[string]*markdown.Document{},
		Galleries: map[content.NodeID]*gallery.Gallery{},
		Blogs:     map[content.NodeID]*blog.Blog{},
		Index:     search.NewIndex(),
		start:     time.Now(),
	}
}

type namedStage struct {
	name string
	fn   Stage
}

// runStages executes stages in order, recording timing and stopping on the
// first fatal error. Warnings let the run proceed to the next stage.
func runStages(ctx context.Context, gs *GenState, stages []namedStage) error {
	rec := gs.Generator.recorder
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.name, ctx.Err())
			gs.Report.Errors = append(gs.Report.Errors, se)
			rec.IncStageResult(st.name, metrics.ResultCanceled)
			return se
		default:
		}

		t0 := time.Now()
		err := st.fn(ctx, gs)
		dur := time.Since(t0)
		gs.Report.StageDurations[st.name] = dur
		rec.ObserveStageDuration(st.name, dur)

		if err == nil {
			sc := gs.Report.StageCounts[st.name]
			sc.Success++
			gs.Report.StageCounts[st.name] = sc
			rec.IncStageResult(st.name, metrics.ResultSuccess)
			continue
		}

		var se *StageError
		if !errors.As(err, &se) {
			se = newFatalStageError(st.name, err)
		}
		sc := gs.Report.StageCounts[st.name]
		switch se.Kind {
		case StageErrorWarning:
			sc.Warning++
		case StageErrorCanceled:
			sc.Canceled++
		default:
			sc.Fatal++
		}
		gs.Report.StageCounts[st.name] = sc
		rec.IncStageResult(st.name, metrics.ResultLabel(se.Kind))

		if se.Kind == StageErrorWarning {
			gs.Report.Warnings = append(gs.Report.Warnings, se)
			continue
		}
		gs.Report.Errors = append(gs.Report.Errors, se)
		return se
	}
	return nil
}
