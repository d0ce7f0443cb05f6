package state

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/five82/grocy-tui/internal/grocy"
	"github.com/five82/grocy-tui/internal/grocy/grocytest"
)

type fakeAPI struct {
	mu        sync.Mutex
	units     []grocy.QuantityUnit
	convs     []grocy.QuantityUnitConversion
	objects   map[grocy.ObjectKind][]grocy.NamedObject
	listErr   error
	lists     map[grocy.ObjectKind]int
	createErr error
}

func (f *fakeAPI) ListObjects(_ context.Context, kind grocy.ObjectKind, dest any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lists == nil {
		f.lists = make(map[grocy.ObjectKind]int)
	}
	f.lists[kind]++
	if f.listErr != nil {
		return f.listErr
	}
	switch d := dest.(type) {
	case *[]grocy.QuantityUnit:
		*d = append([]grocy.QuantityUnit(nil), f.units...)
	case *[]grocy.QuantityUnitConversion:
		*d = append([]grocy.QuantityUnitConversion(nil), f.convs...)
	case *[]grocy.NamedObject:
		*d = append([]grocy.NamedObject(nil), f.objects[kind]...)
	}
	return nil
}

func (f *fakeAPI) CreateObject(context.Context, grocy.ObjectKind, any) (grocy.CreatedResponse, error) {
	if f.createErr != nil {
		return grocy.CreatedResponse{}, f.createErr
	}
	return grocy.CreatedResponse{CreatedObjectID: 7}, nil
}

func (f *fakeAPI) UpdateObject(context.Context, grocy.ObjectKind, int, any) error {
	return nil
}

func (f *fakeAPI) DBChangedTime(context.Context) (time.Time, error) {
	return time.Now(), nil
}

func (f *fakeAPI) listCount(kind grocy.ObjectKind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists[kind]
}

func TestStore_RefreshAndSnapshotClone(t *testing.T) {
	api := &fakeAPI{
		units: []grocy.QuantityUnit{{ID: 1, Name: "Piece"}, {ID: 2, Name: "Box"}},
		convs: []grocy.QuantityUnitConversion{{ID: 5, FromQuID: 2, ToQuID: 1, Factor: 6}},
		objects: map[grocy.ObjectKind][]grocy.NamedObject{
			grocy.KindLocations: {{ID: 3, Name: "Fridge"}},
		},
	}
	s := NewStore(context.Background(), api, nil)

	before := time.Now()
	err := s.Refresh(context.Background(), []grocy.ObjectKind{
		grocy.KindQuantityUnits, grocy.KindQuantityUnitConversions, grocy.KindLocations,
	}, false)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Units) != 2 || snap.Units[0].Name != "Piece" {
		t.Fatalf("snapshot units = %#v, want 2 units", snap.Units)
	}
	if len(snap.Conversions) != 1 || snap.Conversions[0].Factor != 6 {
		t.Fatalf("snapshot conversions = %#v, want 1 conversion", snap.Conversions)
	}
	if got := snap.Objects[grocy.KindLocations]; len(got) != 1 || got[0].Name != "Fridge" {
		t.Fatalf("snapshot locations = %#v, want Fridge", got)
	}
	if !snap.Loaded[grocy.KindQuantityUnits] {
		t.Fatalf("Loaded[quantity_units] = false, want true")
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Units[0].Name = "changed"
	snap.Objects[grocy.KindLocations][0].Name = "changed"
	snap2 := s.Snapshot()
	if snap2.Units[0].Name != "Piece" || snap2.Objects[grocy.KindLocations][0].Name != "Fridge" {
		t.Fatalf("Snapshot should clone collections; got %#v", snap2)
	}
}

func TestStore_FailedFetchKeepsPreviousData(t *testing.T) {
	api := &fakeAPI{units: []grocy.QuantityUnit{{ID: 1, Name: "Piece"}}}
	s := NewStore(context.Background(), api, nil)
	if err := s.Refresh(context.Background(), []grocy.ObjectKind{grocy.KindQuantityUnits}, true); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	origErr := errors.New("boom")
	api.listErr = origErr
	if err := s.Refresh(context.Background(), []grocy.ObjectKind{grocy.KindQuantityUnits}, true); !errors.Is(err, origErr) {
		t.Fatalf("Refresh error = %v, want boom", err)
	}

	snap := s.Snapshot()
	if len(snap.Units) != 1 || snap.Units[0].Name != "Piece" {
		t.Fatalf("units changed on error: %#v", snap.Units)
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("down")}
	s := NewStore(context.Background(), api, nil)
	kinds := []grocy.ObjectKind{grocy.KindQuantityUnits}

	_ = s.Refresh(context.Background(), kinds, true)
	if s.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = true, want false with 1 failure")
	}
	_ = s.Refresh(context.Background(), kinds, true)
	if !s.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = false, want true with 2 failures")
	}

	api.listErr = nil
	_ = s.Refresh(context.Background(), kinds, true)
	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after success", snap.ConsecutiveFailures)
	}
}

func TestStore_FreshKindsSkippedUnlessIgnoringCache(t *testing.T) {
	api := &fakeAPI{}
	s := NewStore(context.Background(), api, nil)
	kinds := []grocy.ObjectKind{grocy.KindQuantityUnits}

	_ = s.Refresh(context.Background(), kinds, false)
	_ = s.Refresh(context.Background(), kinds, false)
	if got := api.listCount(grocy.KindQuantityUnits); got != 1 {
		t.Fatalf("list calls = %d, want 1 while fresh", got)
	}

	_ = s.Refresh(context.Background(), kinds, true)
	if got := api.listCount(grocy.KindQuantityUnits); got != 2 {
		t.Fatalf("list calls = %d, want 2 with ignoreCache", got)
	}

	s.NoteChanged(time.Now().Add(time.Minute))
	if s.IsFresh(grocy.KindQuantityUnits) {
		t.Fatalf("IsFresh = true after a newer server change, want false")
	}
	_ = s.Refresh(context.Background(), kinds, false)
	if got := api.listCount(grocy.KindQuantityUnits); got != 3 {
		t.Fatalf("list calls = %d, want 3 after server change", got)
	}
}

func TestStore_FreshnessIgnoresClientClock(t *testing.T) {
	api := &fakeAPI{}
	s := NewStore(context.Background(), api, nil)
	kinds := []grocy.ObjectKind{grocy.KindQuantityUnits}

	// Client at 12:00, Grocy two minutes behind and in another zone.
	server := time.FixedZone("server", -5*60*60)
	s.now = func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) }
	s.NoteChanged(time.Date(2024, 3, 9, 6, 58, 0, 0, server))
	if err := s.Refresh(context.Background(), kinds, false); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if !s.IsFresh(grocy.KindQuantityUnits) {
		t.Fatalf("IsFresh = false right after fetch, want true")
	}

	s.NoteChanged(time.Date(2024, 3, 9, 6, 58, 30, 0, server))
	if s.IsFresh(grocy.KindQuantityUnits) {
		t.Fatalf("IsFresh = true after a later server change, want false")
	}
	s.RequestRefresh(kinds, false)
	s.Wait()
	if got := api.listCount(grocy.KindQuantityUnits); got != 2 {
		t.Fatalf("list calls = %d, want 2 after a later server change", got)
	}

	// Polling the same change time again keeps the kind fresh.
	s.NoteChanged(time.Date(2024, 3, 9, 6, 58, 30, 0, server))
	s.RequestRefresh(kinds, false)
	s.Wait()
	if got := api.listCount(grocy.KindQuantityUnits); got != 2 {
		t.Fatalf("list calls = %d, want 2 while the change time is unchanged", got)
	}
}

func TestStore_NextID(t *testing.T) {
	api := &fakeAPI{units: []grocy.QuantityUnit{{ID: 4}, {ID: 9}, {ID: 2}}}
	s := NewStore(context.Background(), api, nil)
	if got := s.NextID(grocy.KindQuantityUnits); got != 1 {
		t.Fatalf("NextID on empty cache = %d, want 1", got)
	}
	_ = s.Refresh(context.Background(), []grocy.ObjectKind{grocy.KindQuantityUnits}, true)
	if got := s.NextID(grocy.KindQuantityUnits); got != 10 {
		t.Fatalf("NextID = %d, want 10", got)
	}
}

func TestStore_MutationsInvalidateFreshness(t *testing.T) {
	api := &fakeAPI{}
	s := NewStore(context.Background(), api, nil)
	_ = s.Refresh(context.Background(), []grocy.ObjectKind{grocy.KindQuantityUnits}, false)
	if !s.IsFresh(grocy.KindQuantityUnits) {
		t.Fatalf("IsFresh = false after fetch, want true")
	}

	msg, err := s.Create(context.Background(), grocy.KindQuantityUnits, grocy.QuantityUnit{Name: "Box"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if msg != "created quantity_units id 7" {
		t.Fatalf("Create message = %q", msg)
	}
	if s.IsFresh(grocy.KindQuantityUnits) {
		t.Fatalf("IsFresh = true after create, want false")
	}

	api.createErr = errors.New("nope")
	if _, err := s.Create(context.Background(), grocy.KindQuantityUnits, grocy.QuantityUnit{}); err == nil {
		t.Fatalf("Create returned nil error, want error")
	}
}

func TestStore_RequestRefreshAgainstServer(t *testing.T) {
	srv := grocytest.New(t)
	srv.Seed(grocy.KindQuantityUnits, grocy.QuantityUnit{ID: 1, Name: "Piece"})
	srv.Seed(grocy.KindQuantityUnitConversions, grocy.QuantityUnitConversion{ID: 1, FromQuID: 1, ToQuID: 1, Factor: 1})

	client, err := grocy.NewClient(srv.URL, grocytest.APIKey)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	s := NewStore(context.Background(), client, nil)
	s.RequestRefresh([]grocy.ObjectKind{grocy.KindQuantityUnits, grocy.KindQuantityUnitConversions}, false)
	s.Wait()

	if units := s.QuantityUnits(); len(units) != 1 || units[0].Name != "Piece" {
		t.Fatalf("units = %#v, want Piece", units)
	}
	if convs := s.QuantityUnitConversions(); len(convs) != 1 {
		t.Fatalf("conversions = %#v, want 1", convs)
	}
}

func TestStore_PollFailuresAndLoadedKinds(t *testing.T) {
	api := &fakeAPI{}
	s := NewStore(context.Background(), api, nil)

	s.NotePollFailure(errors.New("dial tcp: refused"))
	s.NotePollFailure(errors.New("dial tcp: refused"))
	if !s.Snapshot().IsOffline() {
		t.Fatalf("IsOffline() = false after two poll failures, want true")
	}
	s.NoteChanged(time.Now())
	if s.Snapshot().IsOffline() {
		t.Fatalf("IsOffline() = true after a successful poll, want false")
	}

	_ = s.Refresh(context.Background(), []grocy.ObjectKind{grocy.KindQuantityUnits, grocy.KindLocations}, true)
	got := s.LoadedKinds()
	want := []grocy.ObjectKind{grocy.KindLocations, grocy.KindQuantityUnits}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("LoadedKinds = %v, want %v", got, want)
	}
}
