package masterdata

import (
	"context"
	"fmt"
	"sync"

	"github.com/five82/grocy-tui/internal/grocy"
)

type refreshCall struct {
	kinds       []grocy.ObjectKind
	ignoreCache bool
}

type createCall struct {
	kind    grocy.ObjectKind
	payload any
}

type updateCall struct {
	kind    grocy.ObjectKind
	id      int
	payload any
}

// memRepo is an in-memory Repository. Mutations apply immediately so
// tests can observe the rows a later refresh would have returned.
type memRepo struct {
	mu        sync.Mutex
	units     []grocy.QuantityUnit
	convs     []grocy.QuantityUnitConversion
	createErr error
	updateErr error

	refreshes []refreshCall
	creates   []createCall
	updates   []updateCall
}

func (r *memRepo) QuantityUnits() []grocy.QuantityUnit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]grocy.QuantityUnit(nil), r.units...)
}

func (r *memRepo) QuantityUnitConversions() []grocy.QuantityUnitConversion {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]grocy.QuantityUnitConversion(nil), r.convs...)
}

func (r *memRepo) RequestRefresh(kinds []grocy.ObjectKind, ignoreCache bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshes = append(r.refreshes, refreshCall{kinds: append([]grocy.ObjectKind(nil), kinds...), ignoreCache: ignoreCache})
}

func (r *memRepo) NextID(kind grocy.ObjectKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	maxID := 0
	switch kind {
	case grocy.KindQuantityUnits:
		for _, u := range r.units {
			maxID = max(maxID, u.ID)
		}
	case grocy.KindQuantityUnitConversions:
		for _, c := range r.convs {
			maxID = max(maxID, c.ID)
		}
	}
	return maxID + 1
}

func (r *memRepo) Create(_ context.Context, kind grocy.ObjectKind, payload any) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates = append(r.creates, createCall{kind: kind, payload: payload})
	if r.createErr != nil {
		return "", r.createErr
	}
	id := r.apply(payload)
	return fmt.Sprintf("created %s id %d", kind, id), nil
}

func (r *memRepo) Update(_ context.Context, kind grocy.ObjectKind, id int, payload any) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, updateCall{kind: kind, id: id, payload: payload})
	if r.updateErr != nil {
		return "", r.updateErr
	}
	r.apply(payload)
	return fmt.Sprintf("updated %s id %d", kind, id), nil
}

func (r *memRepo) apply(payload any) int {
	switch v := payload.(type) {
	case grocy.QuantityUnit:
		for i := range r.units {
			if r.units[i].ID == v.ID {
				r.units[i] = v
				return v.ID
			}
		}
		r.units = append(r.units, v)
		return v.ID
	case grocy.QuantityUnitConversion:
		for i := range r.convs {
			if r.convs[i].ID == v.ID {
				r.convs[i] = v
				return v.ID
			}
		}
		r.convs = append(r.convs, v)
		return v.ID
	}
	return 0
}

func (r *memRepo) lastRefresh() (refreshCall, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.refreshes) == 0 {
		return refreshCall{}, false
	}
	return r.refreshes[len(r.refreshes)-1], true
}
