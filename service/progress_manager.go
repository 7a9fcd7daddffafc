package service

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/soliscan/soliscan/domain"
)

// maxDescriptionWidth keeps long contract paths from wrapping the bar line
const maxDescriptionWidth = 42

// ProgressManagerImpl renders analysis progress as a progress bar on
// stderr. Construct it through NewProgressManager, which falls back to
// the no-op variant outside interactive terminals.
type ProgressManagerImpl struct {
	writer io.Writer
	bars   []*progressbar.ProgressBar
}

// NewProgressManager creates a progress manager suited to the current
// environment
func NewProgressManager(enabled bool) domain.ProgressManager {
	if enabled && IsInteractiveEnvironment() {
		return &ProgressManagerImpl{writer: os.Stderr}
	}
	return &NoOpProgressManager{}
}

// IsInteractiveEnvironment reports whether stderr is a terminal and the
// process is not running under CI
func IsInteractiveEnvironment() bool {
	if os.Getenv("CI") != "" {
		return false
	}
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// StartTask creates a progress bar for one analysis pass over total files
func (pm *ProgressManagerImpl) StartTask(description string, total int) domain.TaskProgress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(pm.writer),
		progressbar.OptionSetDescription(trimDescription(description)),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
	pm.bars = append(pm.bars, bar)
	return &TaskProgressImpl{bar: bar}
}

// IsInteractive returns true; the no-op variant handles the other case
func (pm *ProgressManagerImpl) IsInteractive() bool {
	return true
}

// Close finishes any bars that were not completed explicitly
func (pm *ProgressManagerImpl) Close() {
	for _, bar := range pm.bars {
		_ = bar.Finish()
	}
	pm.bars = nil
}

// TaskProgressImpl drives a single progress bar
type TaskProgressImpl struct {
	bar *progressbar.ProgressBar
}

// Increment adds n completed files to the bar
func (tp *TaskProgressImpl) Increment(n int) {
	_ = tp.bar.Add(n)
}

// Describe replaces the bar label, truncating long file paths from the
// left so the tail of the path stays visible
func (tp *TaskProgressImpl) Describe(description string) {
	tp.bar.Describe(trimDescription(description))
}

// Complete marks the task as finished
func (tp *TaskProgressImpl) Complete() {
	_ = tp.bar.Finish()
}

// trimDescription shortens a label to maxDescriptionWidth, keeping the
// tail, which for file paths is the interesting part
func trimDescription(description string) string {
	if len(description) <= maxDescriptionWidth {
		return description
	}
	return "…" + description[len(description)-maxDescriptionWidth+1:]
}

// NoOpProgressManager is used when progress output is disabled or the
// environment is not interactive
type NoOpProgressManager struct{}

// StartTask returns a no-op task progress
func (pm *NoOpProgressManager) StartTask(_ string, _ int) domain.TaskProgress {
	return &NoOpTaskProgress{}
}

// IsInteractive returns false
func (pm *NoOpProgressManager) IsInteractive() bool {
	return false
}

// Close is a no-op
func (pm *NoOpProgressManager) Close() {}

// NoOpTaskProgress discards all progress updates
type NoOpTaskProgress struct{}

// Increment is a no-op
func (tp *NoOpTaskProgress) Increment(_ int) {}

// Describe is a no-op
func (tp *NoOpTaskProgress) Describe(_ string) {}

// Complete is a no-op
func (tp *NoOpTaskProgress) Complete() {}
