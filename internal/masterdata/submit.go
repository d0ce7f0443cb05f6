package masterdata

import (
	"context"

	"github.com/google/uuid"

	"github.com/five82/grocy-tui/internal/grocy"
)

// SubmitResult is what the store answered for one create or update.
type SubmitResult struct {
	Message string
	Err     error
}

// PendingSubmit is one in-flight create or update. Do performs the blocking
// request and may run off the UI loop; Complete must run back on it.
type PendingSubmit struct {
	Creating  bool
	Kind      grocy.ObjectKind
	ID        int
	RequestID string

	payload  any
	send     func(ctx context.Context) (string, error)
	complete func(SubmitResult) OutcomeKind
}

func newPendingSubmit(creating bool, kind grocy.ObjectKind, id int, payload any, repo Repository) *PendingSubmit {
	p := &PendingSubmit{
		Creating:  creating,
		Kind:      kind,
		ID:        id,
		RequestID: uuid.NewString(),
		payload:   payload,
	}
	p.send = func(ctx context.Context) (string, error) {
		if creating {
			return repo.Create(ctx, kind, payload)
		}
		return repo.Update(ctx, kind, id, payload)
	}
	return p
}

// Payload returns the entity being sent.
func (p *PendingSubmit) Payload() any {
	return p.payload
}

// Do sends the request and waits for the answer.
func (p *PendingSubmit) Do(ctx context.Context) SubmitResult {
	ctx = grocy.WithRequestID(ctx, p.RequestID)
	msg, err := p.send(ctx)
	return SubmitResult{Message: msg, Err: err}
}

// Complete applies the result to the form that issued the request.
func (p *PendingSubmit) Complete(res SubmitResult) OutcomeKind {
	return p.complete(res)
}

// Run is Do followed by Complete, for callers without a UI loop.
func (p *PendingSubmit) Run(ctx context.Context) OutcomeKind {
	return p.Complete(p.Do(ctx))
}
