// ============================================================================
// venn - Mengenalgebra für interaktive Statistik-Visualisierungen
// ============================================================================
//
// Package:     vennshell
// Description: Message types and evaluator backends for the venn shell
// Author:      Mike Stoffels
// Created:     2026-10-07
// License:     MIT
// ============================================================================

package vennshell

import (
	"context"

	"github.com/msto63/venn/internal/venn/service"
	"github.com/msto63/venn/internal/venn/store"
)

// Evaluator submits expressions. Submitted expressions are recorded;
// the live preview is computed locally and never reaches the evaluator.
type Evaluator interface {
	Evaluate(ctx context.Context, exerciseID, expression string) (*service.EvaluateResult, error)
}

// LocalEvaluator evaluates through an in-process service
type LocalEvaluator struct {
	Service *service.Service
}

// Evaluate implements Evaluator
func (e LocalEvaluator) Evaluate(ctx context.Context, exerciseID, expression string) (*service.EvaluateResult, error) {
	return e.Service.Evaluate(ctx, service.EvaluateRequest{
		ExerciseID: exerciseID,
		Expression: expression,
		Source:     store.SourceShell,
	})
}

// submittedMsg is sent when a submitted expression has been evaluated
type submittedMsg struct {
	exerciseID string
	input      string
	result     *service.EvaluateResult
	err        error
}
