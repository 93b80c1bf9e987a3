package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a batch operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchDetails Phase = iota
	DownloadPoster
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchDetails:
		return "fetch_details"
	case DownloadPoster:
		return "download_poster"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func fetchDetailUpdate(step, total int, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching %s...", step, total, id),
	}
}

func fetchedDetailUpdate(step, total int, res LookupResult) ProgressUpdate {
	if res.Err != nil {
		return ProgressUpdate{
			Phase:   FetchDetails,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.ID, res.Err),
		}
	}
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, res.Detail.Title, res.Detail.Year),
		Data:    res.Detail,
	}
}

func posterCompletedUpdate(step, total int, res PosterResult) ProgressUpdate {
	if res.Err != nil {
		return ProgressUpdate{
			Phase:   DownloadPoster,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Title, res.Err),
		}
	}
	if res.Skipped {
		return ProgressUpdate{
			Phase:   DownloadPoster,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] - %s has no poster", step, total, res.Title),
		}
	}
	return ProgressUpdate{
		Phase:   DownloadPoster,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Title),
		Data:    res.Path,
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Manifest written to %s", path),
	}
}
