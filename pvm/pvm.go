// Package pvm defines the PVM capability boundary (§6): refine and
// accumulate execution are explicitly out of core scope, so only the
// interfaces the core calls through are defined here, plus a fake
// implementation for testing the core against.
package pvm

import "github.com/jamdev/jamnode/types"

// ExecResultKind tags how a refine or accumulate invocation terminated.
type ExecResultKind int

const (
	ResultOK ExecResultKind = iota
	ResultOOG            // out of gas
	ResultPanic
	ResultBad
	ResultBig
)

// ExecResult is the outcome of one refine or accumulate invocation.
type ExecResult struct {
	Kind           ExecResultKind
	Output         []byte
	ExportSegments [][]byte
	GasUsed        uint64
}

// Capability is the core's view of the PVM: service code execution plus the
// historical code lookup used to fetch it.
type Capability interface {
	// ExecuteRefine runs a service's refine entrypoint against the given
	// gas budget, arguments, and work-context.
	ExecuteRefine(code []byte, gas uint64, args []byte, context []byte) ExecResult
	// ExecuteAccumulate runs a service's accumulate entrypoint.
	ExecuteAccumulate(code []byte, gas uint64, args []byte, context []byte) ExecResult
	// HistLookup resolves a service's code by its hash as of lookupAnchorTime,
	// per the accounts component's preimage-lookup history.
	HistLookup(serviceID types.ServiceID, codeHash types.Hash, lookupAnchorTime uint32) ([]byte, bool)
}

// Fake is a deterministic, no-op Capability for exercising the core without
// a real PVM: every invocation succeeds trivially and consumes no gas.
type Fake struct {
	// Code maps a (serviceID, codeHash) pair to the code HistLookup returns.
	Code map[types.ServiceID]map[types.Hash][]byte
}

func NewFake() *Fake {
	return &Fake{Code: make(map[types.ServiceID]map[types.Hash][]byte)}
}

func (f *Fake) SetCode(serviceID types.ServiceID, codeHash types.Hash, code []byte) {
	if f.Code[serviceID] == nil {
		f.Code[serviceID] = make(map[types.Hash][]byte)
	}
	f.Code[serviceID][codeHash] = code
}

func (f *Fake) ExecuteRefine(code []byte, gas uint64, args []byte, context []byte) ExecResult {
	return ExecResult{Kind: ResultOK, Output: args}
}

func (f *Fake) ExecuteAccumulate(code []byte, gas uint64, args []byte, context []byte) ExecResult {
	return ExecResult{Kind: ResultOK, Output: args}
}

func (f *Fake) HistLookup(serviceID types.ServiceID, codeHash types.Hash, lookupAnchorTime uint32) ([]byte, bool) {
	byHash, ok := f.Code[serviceID]
	if !ok {
		return nil, false
	}
	code, ok := byHash[codeHash]
	return code, ok
}
