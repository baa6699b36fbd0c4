// Package importer orchestrates the full block-import pipeline (§4):
// header validation, Safrole transition, extrinsic application, and
// state-root commitment, all atomic on failure.
package importer

import (
	"errors"
	"fmt"
	"time"

	"github.com/jamdev/jamnode/assign"
	"github.com/jamdev/jamnode/cryptocap"
	"github.com/jamdev/jamnode/headervalidate"
	"github.com/jamdev/jamnode/metrics"
	"github.com/jamdev/jamnode/safrole"
	"github.com/jamdev/jamnode/state"
	"github.com/jamdev/jamnode/types"
)

// Event is a single ordered step of a successful import, surfaced to
// subscribers (telemetry, metrics) without coupling the importer to either.
type Event struct {
	Name string
	Slot uint32
}

// Result carries the ordered events of a successful import and the
// resulting post-state root.
type Result struct {
	Events        []Event
	PostStateRoot types.Hash
}

var (
	// ErrGuaranteeFailed wraps a guarantee that failed core-assignment
	// signature verification.
	ErrGuaranteeFailed = errors.New("importer: guarantee failed verification")
)

// BlockImporter drives blocks through the state machine against a single
// StateService, one block at a time.
type BlockImporter struct {
	Svc     *state.StateService
	Params  safrole.Params
	Version types.ProtocolVersion
	Suite   cryptocap.Suite

	// Metrics is optional; when set, every Import call reports its outcome
	// and duration, and apply reports tickets/guarantees/epoch-boundary
	// counts and the resulting ticket-accumulator size.
	Metrics *metrics.Metrics

	// Head tracks the hash and slot of the most recently imported header,
	// used as the parent/priorStateRoot reference for the next import.
	HeadHash      types.Hash
	HeadSlot      uint32
	HeadStateRoot types.Hash
}

// Import validates and applies block against the importer's current state.
// On any validation or application failure, the importer's StateService is
// left exactly as it was before the call (the §4 import-atomicity
// property): BeginTransition's copy-on-write working state is simply
// discarded, never committed.
func (bi *BlockImporter) Import(block *types.Block) (*Result, error) {
	start := time.Now()
	result, err := bi.doImport(block)
	if bi.Metrics != nil {
		bi.Metrics.ObserveImport(err == nil, block.Header.Timeslot, time.Since(start))
	}
	return result, err
}

func (bi *BlockImporter) doImport(block *types.Block) (*Result, error) {
	ctx := headervalidate.Context{
		ParentHash:     bi.HeadHash,
		ParentSlot:     bi.HeadSlot,
		PriorStateRoot: bi.HeadStateRoot,
		St:             bi.Svc.Current(),
		Params:         bi.Params,
		Suite:          bi.Suite,
		Metrics:        bi.Metrics,
	}
	if err := headervalidate.Validate(block.Header, ctx); err != nil {
		return nil, err
	}

	tr := bi.Svc.BeginTransition()
	events, err := bi.apply(tr, block)
	if err != nil {
		tr.Abort()
		return nil, err
	}

	root, err := tr.State().StateRoot(bi.Version)
	if err != nil {
		tr.Abort()
		return nil, err
	}

	tr.Commit()
	bi.HeadHash = headerHash(block.Header, bi.Suite, int(bi.Params.EpochLen))
	bi.HeadSlot = block.Header.Timeslot
	bi.HeadStateRoot = root

	if bi.Metrics != nil {
		bi.Metrics.TicketAccumulatorSize.Set(float64(len(tr.State().Safrole.TicketAccumulator)))
	}

	return &Result{Events: events, PostStateRoot: root}, nil
}

func (bi *BlockImporter) apply(tr *state.Transition, block *types.Block) ([]Event, error) {
	h := block.Header
	ex := block.Extrinsic
	st := tr.State()
	var events []Event

	previousSlot := bi.HeadSlot
	phase := safrole.Phase(h.Timeslot, bi.Params.EpochLen)

	// Tickets before rotation on a non-boundary block; after rotation (and
	// against the post-rotation entropy2/ring root) on a boundary block, so
	// that ApplyEpochBoundary's accumulator reset never discards a result
	// that was computed against the wrong epoch's context.
	if safrole.ClassifyTransition(previousSlot, h.Timeslot, bi.Params.EpochLen) == safrole.EpochTransition {
		safrole.ApplyEpochBoundary(st)
		events = append(events, Event{Name: "epoch_boundary", Slot: h.Timeslot})
		if bi.Metrics != nil {
			bi.Metrics.EpochBoundaries.Inc()
		}
	} else {
		st.Entropy = safrole.EntropyState{
			Accumulator: safrole.MixEntropy(st.Entropy.Accumulator, types.Hash(bi.Suite.Banderout(h.VRFSig)), bi.Suite),
			Entropy1:    st.Entropy.Entropy1,
			Entropy2:    st.Entropy.Entropy2,
			Entropy3:    st.Entropy.Entropy3,
		}
	}

	accumulator, err := safrole.ProcessTickets(ex.Tickets, st.Safrole.TicketAccumulator, phase, bi.Params, st.Entropy.Entropy2, st.Safrole.RingRoot, bi.Suite)
	if err != nil {
		return nil, err
	}
	st.Safrole.TicketAccumulator = accumulator
	if len(ex.Tickets) > 0 {
		events = append(events, Event{Name: "tickets_applied", Slot: h.Timeslot})
		if bi.Metrics != nil {
			bi.Metrics.TicketsAccepted.Add(float64(len(ex.Tickets)))
		}
	}

	permutation := assign.Permutation(len(st.ActiveSet), bi.Params.CoreCount, [32]byte(st.Entropy.Entropy2), bi.Suite)
	assigned := assign.Rotate(permutation, phase, bi.Params.RotationPeriod, bi.Params.CoreCount)
	ed25519Keys := make([][32]byte, len(st.ActiveSet))
	for i, v := range st.ActiveSet {
		ed25519Keys[i] = v.Ed25519
	}
	for _, g := range ex.Guarantees {
		if err := assign.VerifyGuarantee(g, assigned, ed25519Keys, bi.Suite); err != nil {
			return nil, fmt.Errorf("%w: core %d: %v", ErrGuaranteeFailed, g.Core, err)
		}
		st.Reports = append(st.Reports, state.ReportEntry{
			Core:           g.Core,
			WorkReportHash: g.WorkReportHash,
			Timeout:        h.Timeslot,
		})
	}
	if len(ex.Guarantees) > 0 {
		events = append(events, Event{Name: "guarantees_applied", Slot: h.Timeslot})
		if bi.Metrics != nil {
			bi.Metrics.GuaranteesAccepted.Add(float64(len(ex.Guarantees)))
		}
	}

	st.TheTime = h.Timeslot
	st.Recent = append(st.Recent, state.RecentEntry{
		HeaderHash: headerHash(h, bi.Suite, int(bi.Params.EpochLen)),
	})
	events = append(events, Event{Name: "header_imported", Slot: h.Timeslot})

	return events, nil
}

func headerHash(h *types.Header, hasher cryptocap.Hasher, epochLen int) types.Hash {
	return hasher.Blake2b256(h.Encode(epochLen))
}
