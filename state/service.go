package state

import "github.com/jamdev/jamnode/types"

// StateService owns the canonical world state and mediates every mutation
// through begin/commit/abort, per §3's ownership rule: "all mutations flow
// through it and are committed atomically per block."
type StateService struct {
	current *State
}

func NewStateService(genesis *State) *StateService {
	return &StateService{current: genesis}
}

func (svc *StateService) Current() *State {
	return svc.current
}

// Transition is a working copy produced by BeginTransition. Callers mutate
// it freely; it only becomes visible to Current() via Commit.
type Transition struct {
	svc  *StateService
	next *State
}

// BeginTransition returns a copy-on-write working state for applying a
// block. The service's current state is untouched until Commit.
func (svc *StateService) BeginTransition() *Transition {
	return &Transition{svc: svc, next: svc.current.Copy()}
}

func (t *Transition) State() *State {
	return t.next
}

// Commit makes the transition's working state the new current state.
func (t *Transition) Commit() {
	t.svc.current = t.next
}

// Abort discards the transition; the service's current state is unchanged,
// per §3: "on rejection the prior handle is retained."
func (t *Transition) Abort() {
	t.next = nil
}

// Account looks up a service account by ID in the working state.
func (t *Transition) Account(id types.ServiceID) (*types.ServiceAccount, bool) {
	a, ok := t.next.Accounts[id]
	return a, ok
}

// PutAccount installs or replaces a service account in the working state.
func (t *Transition) PutAccount(id types.ServiceID, acc *types.ServiceAccount) {
	t.next.Accounts[id] = acc
}
