package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which panels stack vertically.
	LayoutCompactWidth = 96

	// DropZoneWidth caps the width of the empty-state drop target.
	DropZoneWidth = 64
)

// Activity log limits.
const (
	// ActivityLineLimit is the number of log records shown in the activity view.
	ActivityLineLimit = 400
)

// Timing constants.
const (
	// FrameInterval paces the confidence bar animation.
	FrameInterval = time.Second / 60

	// ActivityRefresh is how often the open activity view re-reads the log.
	ActivityRefresh = 2 * time.Second
)
