package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops detail.
	LayoutCompactWidth = 100

	// SidebarWidth is the width of the expanded navigation column.
	SidebarWidth = 26

	// SidebarCollapsedWidth shows only the selection marker and first letter.
	SidebarCollapsedWidth = 4

	// FormLabelWidth aligns the field labels of the unit form.
	FormLabelWidth = 14
)

// Timing constants.
const (
	// DefaultUIInterval is how often the model pulls a store snapshot.
	DefaultUIInterval = time.Second

	// ToastDuration is how long an outcome toast stays visible.
	ToastDuration = 4 * time.Second
)
