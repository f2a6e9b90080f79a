// ============================================================================
// venn - Mengenalgebra für interaktive Statistik-Visualisierungen
// ============================================================================
//
// Package:     exercise
// Description: Error definitions for exercise loading and lookup
// Author:      Mike Stoffels
// Created:     2026-09-30
// License:     MIT
// ============================================================================

package exercise

import "errors"

var (
	// Validation errors
	ErrInvalidExercise = errors.New("invalid exercise")
	ErrMissingID       = errors.New("exercise id is required")
	ErrMissingUniverse = errors.New("exercise universe is required")
	ErrUnknownAtom     = errors.New("only atoms A, B and C can be defined")

	// Loading errors
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
	ErrBuiltin          = errors.New("built-in exercise cannot be removed")
)
