package state

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/five82/grocy-tui/internal/grocy"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Units               []grocy.QuantityUnit
	Conversions         []grocy.QuantityUnitConversion
	Objects             map[grocy.ObjectKind][]grocy.NamedObject
	Loaded              map[grocy.ObjectKind]bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed fetches
}

// IsOffline returns true when Grocy has been unreachable for multiple fetches.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store owns the cached Grocy collections. Readers get cloned snapshots;
// only the store mutates them.
type Store struct {
	api    grocy.API
	ctx    context.Context
	logger *slog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	snapshot Snapshot
	// changedAt is Grocy's own change time; seenAt holds the value it had
	// when each kind was last fetched. Both are server clock readings.
	changedAt time.Time
	seenAt    map[grocy.ObjectKind]time.Time
	inflight  map[grocy.ObjectKind]bool

	wg sync.WaitGroup
}

// NewStore builds a store over api. Background refreshes stop when ctx is done.
func NewStore(ctx context.Context, api grocy.API, logger *slog.Logger) *Store {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		api:      api,
		ctx:      ctx,
		logger:   logger,
		now:      time.Now,
		seenAt:   make(map[grocy.ObjectKind]time.Time),
		inflight: make(map[grocy.ObjectKind]bool),
		snapshot: Snapshot{
			Objects: make(map[grocy.ObjectKind][]grocy.NamedObject),
			Loaded:  make(map[grocy.ObjectKind]bool),
		},
	}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Units = slices.Clone(s.snapshot.Units)
	snap.Conversions = slices.Clone(s.snapshot.Conversions)
	snap.Objects = make(map[grocy.ObjectKind][]grocy.NamedObject, len(s.snapshot.Objects))
	for kind, rows := range s.snapshot.Objects {
		snap.Objects[kind] = slices.Clone(rows)
	}
	snap.Loaded = make(map[grocy.ObjectKind]bool, len(s.snapshot.Loaded))
	for kind, ok := range s.snapshot.Loaded {
		snap.Loaded[kind] = ok
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// QuantityUnits returns the cached quantity units.
func (s *Store) QuantityUnits() []grocy.QuantityUnit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.snapshot.Units)
}

// QuantityUnitConversions returns the cached unit conversions.
func (s *Store) QuantityUnitConversions() []grocy.QuantityUnitConversion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.snapshot.Conversions)
}

// Objects returns the cached rows of a plain master-data kind.
func (s *Store) Objects(kind grocy.ObjectKind) []grocy.NamedObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.snapshot.Objects[kind])
}

// NoteChanged records the server's last database change time. Kinds fetched
// while an older change time was known are no longer fresh. A successful poll
// also ends an offline streak.
func (s *Store) NoteChanged(changed time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if changed.After(s.changedAt) {
		s.changedAt = changed
	}
	s.snapshot.ConsecutiveFailures = 0
}

// NotePollFailure records a failed change-time poll.
func (s *Store) NotePollFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.LastError = fmt.Errorf("poll grocy: %w", err)
	s.snapshot.LastUpdated = s.now()
	s.snapshot.ConsecutiveFailures++
}

// LoadedKinds lists the kinds fetched at least once, in a stable order.
func (s *Store) LoadedKinds() []grocy.ObjectKind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kinds := make([]grocy.ObjectKind, 0, len(s.snapshot.Loaded))
	for kind, ok := range s.snapshot.Loaded {
		if ok {
			kinds = append(kinds, kind)
		}
	}
	slices.Sort(kinds)
	return kinds
}

// IsFresh reports whether kind was fetched since the last known server change.
func (s *Store) IsFresh(kind grocy.ObjectKind) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.freshLocked(kind)
}

func (s *Store) freshLocked(kind grocy.ObjectKind) bool {
	seen, ok := s.seenAt[kind]
	if !ok {
		return false
	}
	return !s.changedAt.After(seen)
}

// RequestRefresh fetches kinds in the background. Fresh kinds are skipped
// unless ignoreCache is set; kinds already being fetched are coalesced.
func (s *Store) RequestRefresh(kinds []grocy.ObjectKind, ignoreCache bool) {
	pending := s.claim(kinds, ignoreCache)
	if len(pending) == 0 {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.fetch(s.ctx, pending)
	}()
}

// Refresh fetches kinds synchronously and returns the first error.
func (s *Store) Refresh(ctx context.Context, kinds []grocy.ObjectKind, ignoreCache bool) error {
	pending := s.claim(kinds, ignoreCache)
	return s.fetch(ctx, pending)
}

// Wait blocks until background refreshes started so far have finished.
func (s *Store) Wait() {
	s.wg.Wait()
}

func (s *Store) claim(kinds []grocy.ObjectKind, ignoreCache bool) []grocy.ObjectKind {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []grocy.ObjectKind
	for _, kind := range kinds {
		if s.inflight[kind] || slices.Contains(pending, kind) {
			continue
		}
		if !ignoreCache && s.freshLocked(kind) {
			continue
		}
		s.inflight[kind] = true
		pending = append(pending, kind)
	}
	return pending
}

func (s *Store) fetch(ctx context.Context, kinds []grocy.ObjectKind) error {
	var firstErr error
	for _, kind := range kinds {
		err := s.fetchKind(ctx, kind, s.changeMark())
		if err != nil {
			s.logger.Warn("grocy fetch failed", "kind", kind, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *Store) changeMark() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.changedAt
}

// fetchKind loads one kind. seen is the server change time known when the
// request went out.
func (s *Store) fetchKind(ctx context.Context, kind grocy.ObjectKind, seen time.Time) error {
	var (
		units       []grocy.QuantityUnit
		conversions []grocy.QuantityUnitConversion
		objects     []grocy.NamedObject
		err         error
	)
	switch kind {
	case grocy.KindQuantityUnits:
		err = s.api.ListObjects(ctx, kind, &units)
	case grocy.KindQuantityUnitConversions:
		err = s.api.ListObjects(ctx, kind, &conversions)
	default:
		err = s.api.ListObjects(ctx, kind, &objects)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, kind)

	if err != nil {
		err = fmt.Errorf("fetch %s: %w", kind, err)
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = s.now()
		s.snapshot.ConsecutiveFailures++
		return err
	}

	switch kind {
	case grocy.KindQuantityUnits:
		s.snapshot.Units = units
	case grocy.KindQuantityUnitConversions:
		s.snapshot.Conversions = conversions
	default:
		s.snapshot.Objects[kind] = objects
	}
	s.snapshot.Loaded[kind] = true
	s.seenAt[kind] = seen
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = s.now()
	s.snapshot.ConsecutiveFailures = 0
	return nil
}

// NextID returns one past the highest cached id of kind, or 1 when empty.
func (s *Store) NextID(kind grocy.ObjectKind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	highest := 0
	switch kind {
	case grocy.KindQuantityUnits:
		for _, u := range s.snapshot.Units {
			highest = max(highest, u.ID)
		}
	case grocy.KindQuantityUnitConversions:
		for _, c := range s.snapshot.Conversions {
			highest = max(highest, c.ID)
		}
	default:
		for _, o := range s.snapshot.Objects[kind] {
			highest = max(highest, o.ID)
		}
	}
	return highest + 1
}

// Create posts a new row of kind and returns a human readable result.
func (s *Store) Create(ctx context.Context, kind grocy.ObjectKind, payload any) (string, error) {
	created, err := s.api.CreateObject(ctx, kind, payload)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", kind, err)
	}
	s.invalidate(kind)
	return fmt.Sprintf("created %s id %d", kind, created.CreatedObjectID), nil
}

// Update replaces the row of kind identified by id.
func (s *Store) Update(ctx context.Context, kind grocy.ObjectKind, id int, payload any) (string, error) {
	if err := s.api.UpdateObject(ctx, kind, id, payload); err != nil {
		return "", fmt.Errorf("update %s %d: %w", kind, id, err)
	}
	s.invalidate(kind)
	return fmt.Sprintf("updated %s id %d", kind, id), nil
}

func (s *Store) invalidate(kind grocy.ObjectKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seenAt, kind)
}
