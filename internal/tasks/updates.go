package tasks

import (
	"fmt"

	"github.com/desertthunder/skillswap/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchFeed Phase = iota
	ResolveAuthors
	WriteExport
)

func (p Phase) String() string {
	switch p {
	case FetchFeed:
		return "fetch_feed"
	case ResolveAuthors:
		return "resolve_authors"
	case WriteExport:
		return "write_export"
	default:
		return ""
	}
}

func fetchFeedUpdate(step, total int, feed string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFeed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching %s feed...", step, total, feed),
	}
}

func resolveAuthorUpdate(step, total int, profile *models.UserProfile) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveAuthors,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, profile.DisplayName()),
		Data:    profile,
	}
}

func exportCompletedUpdate(step, total int, feed string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, feed, filesCount),
	}
}

func exportFailedUpdate(step, total int, feed string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, feed, err),
	}
}
