package ui

import (
	"time"

	"github.com/five82/grocy-tui/internal/masterdata"
)

// toast is the transient outcome line shown in the command bar.
type toast struct {
	text   string
	failed bool
	until  time.Time
}

func (t *toast) show(outcome masterdata.OutcomeKind, now time.Time) {
	t.text = outcome.Message()
	t.failed = outcome.Failed()
	t.until = now.Add(ToastDuration)
}

func (t *toast) expire(now time.Time) {
	if t.text != "" && !now.Before(t.until) {
		*t = toast{}
	}
}

func (t toast) visible() bool {
	return t.text != ""
}
