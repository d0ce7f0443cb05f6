package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/five82/grocy-tui/internal/grocy"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type fakeSource struct {
	changed time.Time
	err     error
}

func (f fakeSource) DBChangedTime(context.Context) (time.Time, error) {
	return f.changed, f.err
}

type recordingStore struct {
	changed   []time.Time
	failures  []error
	loaded    []grocy.ObjectKind
	refreshed [][]grocy.ObjectKind
	ignore    []bool
}

func (r *recordingStore) NoteChanged(t time.Time)         { r.changed = append(r.changed, t) }
func (r *recordingStore) NotePollFailure(err error)       { r.failures = append(r.failures, err) }
func (r *recordingStore) LoadedKinds() []grocy.ObjectKind { return r.loaded }
func (r *recordingStore) RequestRefresh(kinds []grocy.ObjectKind, ignoreCache bool) {
	r.refreshed = append(r.refreshed, kinds)
	r.ignore = append(r.ignore, ignoreCache)
}

func TestPollOnce_RefreshesLoadedKindsThroughCache(t *testing.T) {
	changed := time.Date(2024, 3, 9, 12, 0, 0, 0, time.Local)
	store := &recordingStore{loaded: []grocy.ObjectKind{grocy.KindQuantityUnits}}

	if err := pollOnce(context.Background(), store, fakeSource{changed: changed}); err != nil {
		t.Fatalf("pollOnce returned error: %v", err)
	}
	if len(store.changed) != 1 || !store.changed[0].Equal(changed) {
		t.Fatalf("NoteChanged calls = %v, want [%v]", store.changed, changed)
	}
	if len(store.refreshed) != 1 || store.ignore[0] {
		t.Fatalf("RequestRefresh calls = %v ignore=%v, want one cached refresh", store.refreshed, store.ignore)
	}
}

func TestPollOnce_NothingLoadedSkipsRefresh(t *testing.T) {
	store := &recordingStore{}
	if err := pollOnce(context.Background(), store, fakeSource{changed: time.Now()}); err != nil {
		t.Fatalf("pollOnce returned error: %v", err)
	}
	if len(store.refreshed) != 0 {
		t.Fatalf("RequestRefresh called %d times, want 0", len(store.refreshed))
	}
}

func TestPollOnce_FailureIsRecorded(t *testing.T) {
	store := &recordingStore{loaded: []grocy.ObjectKind{grocy.KindQuantityUnits}}
	boom := errors.New("connection refused")

	err := pollOnce(context.Background(), store, fakeSource{err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("pollOnce error = %v, want %v", err, boom)
	}
	if len(store.failures) != 1 || len(store.changed) != 0 || len(store.refreshed) != 0 {
		t.Fatalf("store = %+v, want only a recorded failure", store)
	}
}
