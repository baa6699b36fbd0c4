// Package state owns the 17-component world state (§3) and the StateService
// that mutates it, copy-on-write, per imported block (§4.2).
package state

import (
	"github.com/jamdev/jamnode/types"
)

// RecentEntry is one entry of the `recent` component: a past header's
// identity alongside what it reported and accumulated.
type RecentEntry struct {
	HeaderHash      types.Hash
	StateRoot       types.Hash
	ReportedHashes  []types.Hash
	AccumulatorPeak types.Hash
}

// SafroleState is the `safrole` component: everything the Safrole engine
// carries between blocks besides entropy and the validator sets themselves.
type SafroleState struct {
	PendingSet        []types.ValidatorKey
	RingRoot          types.Hash
	SealTickets       []types.WinningTicket
	TicketAccumulator []types.WinningTicket
}

// EntropyState is the `entropy` component: `(entropy_accumulator, entropy1,
// entropy2, entropy3)`.
type EntropyState struct {
	Accumulator types.Hash
	Entropy1    types.Hash
	Entropy2    types.Hash
	Entropy3    types.Hash
}

// ReportEntry is one outstanding work-report pending availability, tracked
// per core in the `reports` component.
type ReportEntry struct {
	Core           types.CoreIndex
	WorkReportHash types.Hash
	Timeout        uint32
}

// DisputeSets is the `disputes` component: the `good`/`bad`/`wonky` judgment
// sets plus the `offenders` set, all keyed by work-report or validator hash.
type DisputeSets struct {
	Good      []types.Hash
	Bad       []types.Hash
	Wonky     []types.Hash
	Offenders []types.Hash
}

// ActivityRecord is one validator's or core's per-epoch activity counters.
type ActivityRecord struct {
	Index           uint32
	BlocksProduced  uint32
	TicketsSubmitted uint32
	ReportsGuaranteed uint32
}

// ReadyEntry is one report queued for accumulation, with the hashes of the
// other reports it depends on (§3 "dependency edges").
type ReadyEntry struct {
	Report       ReportEntry
	Dependencies []types.Hash
}

// State is the complete world state: the 17 components of §3, named
// identically.
type State struct {
	AuthPool    [][]types.Hash
	AuthQueue   [][]types.Hash
	Recent      []RecentEntry
	Safrole     SafroleState
	Entropy     EntropyState
	StagingSet  []types.ValidatorKey
	ActiveSet   []types.ValidatorKey
	PreviousSet []types.ValidatorKey
	Reports     []ReportEntry
	LastAccOut  types.Hash
	TheTime     uint32
	Privileges  types.Privileges
	Accounts    map[types.ServiceID]*types.ServiceAccount
	Disputes    DisputeSets
	Activity    []ActivityRecord
	Ready       [][]ReadyEntry
	Accumulated [][]types.Hash
}

// New returns an empty state with the component slices/maps allocated (zero
// values throughout; a chain's genesis builder fills these in).
func New(numCores, epochLen int) *State {
	return &State{
		AuthPool:    make([][]types.Hash, numCores),
		AuthQueue:   make([][]types.Hash, numCores),
		Accounts:    make(map[types.ServiceID]*types.ServiceAccount),
		Ready:       make([][]ReadyEntry, numCores),
		Accumulated: make([][]types.Hash, epochLen),
	}
}

// Copy returns a new State whose top-level component slots are independent
// of the receiver's (assigning into the copy's component fields never
// mutates the original), per §4.2's copy-on-write-at-component-granularity
// rule. Slice/map contents below the top level are shared until a component
// is itself reassigned, since components are replaced wholesale rather than
// mutated in place by any of this module's operations.
func (s *State) Copy() *State {
	cp := *s
	cp.AuthPool = append([][]types.Hash(nil), s.AuthPool...)
	cp.AuthQueue = append([][]types.Hash(nil), s.AuthQueue...)
	cp.Recent = append([]RecentEntry(nil), s.Recent...)
	cp.Safrole.PendingSet = append([]types.ValidatorKey(nil), s.Safrole.PendingSet...)
	cp.Safrole.SealTickets = append([]types.WinningTicket(nil), s.Safrole.SealTickets...)
	cp.Safrole.TicketAccumulator = append([]types.WinningTicket(nil), s.Safrole.TicketAccumulator...)
	cp.StagingSet = append([]types.ValidatorKey(nil), s.StagingSet...)
	cp.ActiveSet = append([]types.ValidatorKey(nil), s.ActiveSet...)
	cp.PreviousSet = append([]types.ValidatorKey(nil), s.PreviousSet...)
	cp.Reports = append([]ReportEntry(nil), s.Reports...)
	cp.Privileges.Assigners = append([]types.ServiceID(nil), s.Privileges.Assigners...)
	cp.Privileges.AlwaysAccumulate = append([]types.AlwaysAccumulate(nil), s.Privileges.AlwaysAccumulate...)
	cp.Accounts = make(map[types.ServiceID]*types.ServiceAccount, len(s.Accounts))
	for id, acc := range s.Accounts {
		cp.Accounts[id] = acc
	}
	cp.Disputes.Good = append([]types.Hash(nil), s.Disputes.Good...)
	cp.Disputes.Bad = append([]types.Hash(nil), s.Disputes.Bad...)
	cp.Disputes.Wonky = append([]types.Hash(nil), s.Disputes.Wonky...)
	cp.Disputes.Offenders = append([]types.Hash(nil), s.Disputes.Offenders...)
	cp.Activity = append([]ActivityRecord(nil), s.Activity...)
	cp.Ready = append([][]ReadyEntry(nil), s.Ready...)
	cp.Accumulated = append([][]types.Hash(nil), s.Accumulated...)
	return &cp
}
