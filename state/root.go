package state

import (
	"sort"

	"github.com/jamdev/jamnode/codec"
	"github.com/jamdev/jamnode/trie"
	"github.com/jamdev/jamnode/types"
)

func encodeHashSeq(hs []types.Hash) []byte {
	return codec.EncodeVarSeq(hs, func(h types.Hash) []byte { return h.Encode() })
}

func encodeHashSeqSeq(hss [][]types.Hash) []byte {
	return codec.EncodeVarSeq(hss, encodeHashSeq)
}

func encodeValidatorSet(vs []types.ValidatorKey) []byte {
	return types.ValidatorSet(vs).Encode()
}

func (s *State) encodeAuthPool() []byte  { return encodeHashSeqSeq(s.AuthPool) }
func (s *State) encodeAuthQueue() []byte { return encodeHashSeqSeq(s.AuthQueue) }

func (s *State) encodeRecent() []byte {
	return codec.EncodeVarSeq(s.Recent, func(r RecentEntry) []byte {
		e := codec.NewEncoder()
		e.WriteRaw(r.HeaderHash.Encode())
		e.WriteRaw(r.StateRoot.Encode())
		e.WriteRaw(r.AccumulatorPeak.Encode())
		e.WriteRaw(encodeHashSeq(r.ReportedHashes))
		return e.Bytes()
	})
}

func (s *State) encodeSafrole() []byte {
	e := codec.NewEncoder()
	e.WriteRaw(encodeValidatorSet(s.Safrole.PendingSet))
	e.WriteRaw(s.Safrole.RingRoot.Encode())
	e.WriteRaw(codec.EncodeVarSeq(s.Safrole.SealTickets, func(wt types.WinningTicket) []byte { return wt.Encode() }))
	e.WriteRaw(codec.EncodeVarSeq(s.Safrole.TicketAccumulator, func(wt types.WinningTicket) []byte { return wt.Encode() }))
	return e.Bytes()
}

func (s *State) encodeEntropy() []byte {
	e := codec.NewEncoder()
	e.WriteRaw(s.Entropy.Accumulator.Encode())
	e.WriteRaw(s.Entropy.Entropy1.Encode())
	e.WriteRaw(s.Entropy.Entropy2.Encode())
	e.WriteRaw(s.Entropy.Entropy3.Encode())
	return e.Bytes()
}

func (s *State) encodeReports() []byte {
	return codec.EncodeVarSeq(s.Reports, encodeReportEntry)
}

func encodeReportEntry(r ReportEntry) []byte {
	e := codec.NewEncoder()
	e.WriteFixedUint(uint64(r.Core), 4)
	e.WriteRaw(r.WorkReportHash.Encode())
	e.WriteFixedUint(uint64(r.Timeout), 4)
	return e.Bytes()
}

func (s *State) encodePrivileges(version types.ProtocolVersion) ([]byte, error) {
	return s.Privileges.Encode(version)
}

func (s *State) encodeDisputes() []byte {
	e := codec.NewEncoder()
	e.WriteRaw(encodeHashSeq(s.Disputes.Good))
	e.WriteRaw(encodeHashSeq(s.Disputes.Bad))
	e.WriteRaw(encodeHashSeq(s.Disputes.Wonky))
	e.WriteRaw(encodeHashSeq(s.Disputes.Offenders))
	return e.Bytes()
}

func (s *State) encodeActivity() []byte {
	return codec.EncodeVarSeq(s.Activity, func(a ActivityRecord) []byte {
		e := codec.NewEncoder()
		e.WriteFixedUint(uint64(a.Index), 4)
		e.WriteFixedUint(uint64(a.BlocksProduced), 4)
		e.WriteFixedUint(uint64(a.TicketsSubmitted), 4)
		e.WriteFixedUint(uint64(a.ReportsGuaranteed), 4)
		return e.Bytes()
	})
}

func (s *State) encodeReady() []byte {
	return codec.EncodeVarSeq(s.Ready, func(core []ReadyEntry) []byte {
		return codec.EncodeVarSeq(core, func(r ReadyEntry) []byte {
			e := codec.NewEncoder()
			e.WriteRaw(encodeReportEntry(r.Report))
			e.WriteRaw(encodeHashSeq(r.Dependencies))
			return e.Bytes()
		})
	})
}

func (s *State) encodeAccumulated() []byte {
	return codec.EncodeVarSeq(s.Accumulated, func(set []types.Hash) []byte {
		sorted := append([]types.Hash(nil), set...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Hex() < sorted[j].Hex() })
		return encodeHashSeq(sorted)
	})
}

func (s *State) encodeAccount(a *types.ServiceAccount) []byte {
	return a.Encode()
}

// StateRoot computes state_root() (§4.2): each of the 17 components is
// encoded and stored at its component key in a StateTrie, the accounts
// mapping is merklized into its own nested sub-trie, and the trie's
// blake2b-256 root is returned.
func (s *State) StateRoot(version types.ProtocolVersion) (types.Hash, error) {
	st := trie.NewStateTrie()

	privEnc, err := s.encodePrivileges(version)
	if err != nil {
		return types.Hash{}, err
	}

	components := []struct {
		key Component
		enc []byte
	}{
		{trie.ComponentAuthPool, s.encodeAuthPool()},
		{trie.ComponentAuthQueue, s.encodeAuthQueue()},
		{trie.ComponentRecent, s.encodeRecent()},
		{trie.ComponentSafrole, s.encodeSafrole()},
		{trie.ComponentEntropy, s.encodeEntropy()},
		{trie.ComponentStagingSet, encodeValidatorSet(s.StagingSet)},
		{trie.ComponentActiveSet, encodeValidatorSet(s.ActiveSet)},
		{trie.ComponentPreviousSet, encodeValidatorSet(s.PreviousSet)},
		{trie.ComponentReports, s.encodeReports()},
		{trie.ComponentLastAccOut, s.LastAccOut.Encode()},
		{trie.ComponentTheTime, func() []byte { e := codec.NewEncoder(); e.WriteFixedUint(uint64(s.TheTime), 4); return e.Bytes() }()},
		{trie.ComponentPrivileges, privEnc},
		{trie.ComponentDisputes, s.encodeDisputes()},
		{trie.ComponentActivity, s.encodeActivity()},
		{trie.ComponentReady, s.encodeReady()},
		{trie.ComponentAccumulated, s.encodeAccumulated()},
	}
	for _, c := range components {
		if err := st.SetComponent(c.key, c.enc); err != nil {
			return types.Hash{}, err
		}
	}

	ids := make([]types.ServiceID, 0, len(s.Accounts))
	for id := range s.Accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if err := st.SetAccount(id, s.encodeAccount(s.Accounts[id])); err != nil {
			return types.Hash{}, err
		}
	}

	return st.Root(), nil
}

// Component re-exports trie.Component so callers of state need not import
// trie directly for component identifiers.
type Component = trie.Component
