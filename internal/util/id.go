// Package util provides shared utility functions.
package util

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Standard ID lengths for TempoFlow entities.
const (
	// TaskIDLength is the full length of a task ID (e.g., "task-abcdef12").
	TaskIDLength = 13
	// SessionIDLength is the full length of a focus session ID ("session-abcdef12").
	SessionIDLength = 16
	// DefaultShortIDLength is the default number of characters for short IDs.
	DefaultShortIDLength = 8
	// MaxAmbiguousCandidates is the max number of candidates to show in ambiguous error.
	MaxAmbiguousCandidates = 5
)

// Errors returned by ID resolution functions.
var (
	ErrAmbiguousID = errors.New("ambiguous ID prefix")
	ErrNotFound    = errors.New("not found")
)

// ShortID returns the first n characters of id, DefaultShortIDLength when n <= 0.
//
//	ShortID("task-abcdef12", 0)  → "task-abc"
//	ShortID("task-abcdef12", 10) → "task-abcde"
func ShortID(id string, n int) string {
	if n <= 0 {
		n = DefaultShortIDLength
	}
	if len(id) <= n {
		return id
	}
	return id[:n]
}

// TaskIDFinder finds task IDs by prefix. The sqlite store implements it.
type TaskIDFinder interface {
	FindTaskIDsByPrefix(ctx context.Context, prefix string) ([]string, error)
}

// ResolveTaskID resolves a task ID or unique prefix to a full task ID. The
// "task-" prefix may be omitted.
func ResolveTaskID(ctx context.Context, finder TaskIDFinder, idOrPrefix string) (string, error) {
	return ResolveID(ctx, finder.FindTaskIDsByPrefix, "task", idOrPrefix)
}

// ResolveID resolves idOrPrefix for an entity whose IDs start with kind+"-".
//
// Resolution rules:
//  1. An exact match wins even if it is also a prefix of other IDs.
//  2. A single prefix match is returned.
//  3. Several matches give ErrAmbiguousID listing up to MaxAmbiguousCandidates.
//  4. No match gives ErrNotFound.
func ResolveID(ctx context.Context, find func(context.Context, string) ([]string, error), kind, idOrPrefix string) (string, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return "", fmt.Errorf("%s ID: %w", kind, ErrNotFound)
	}

	normalized := idOrPrefix
	if !strings.HasPrefix(normalized, kind+"-") {
		normalized = kind + "-" + normalized
	}

	candidates, err := find(ctx, normalized)
	if err != nil {
		return "", fmt.Errorf("find %s IDs: %w", kind, err)
	}
	return resolveFromCandidates(normalized, candidates, kind)
}

func resolveFromCandidates(prefix string, candidates []string, kind string) (string, error) {
	for _, c := range candidates {
		if c == prefix {
			return c, nil
		}
	}
	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("%s with prefix %q: %w", kind, prefix, ErrNotFound)
	case 1:
		return candidates[0], nil
	default:
		shown := candidates
		if len(shown) > MaxAmbiguousCandidates {
			shown = shown[:MaxAmbiguousCandidates]
		}
		return "", fmt.Errorf("%w: prefix %q matches %d %ss: %v",
			ErrAmbiguousID, prefix, len(candidates), kind, shown)
	}
}
