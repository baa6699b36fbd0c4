package trie

import "github.com/jamdev/jamnode/types"

// Component identifies one of the 17 top-level world-state components
// (§3 Data Model). Each gets a single-octet state key; the trie underneath
// never sees raw component names, only these keys and (for the accounts
// component) per-service sub-keys.
type Component byte

const (
	ComponentAuthPool Component = iota
	ComponentAuthQueue
	ComponentRecent
	ComponentSafrole
	ComponentEntropy
	ComponentStagingSet
	ComponentActiveSet
	ComponentPreviousSet
	ComponentReports
	ComponentLastAccOut
	ComponentTheTime
	ComponentPrivileges
	ComponentAccounts
	ComponentDisputes
	ComponentActivity
	ComponentReady
	ComponentAccumulated
)

// StateTrie commits the 17 world-state components (§4.2). Each component's
// already-encoded bytes are stored at its single-octet state key; the
// accounts component additionally merklizes a nested Trie keyed by service
// ID, per "the accounts mapping is itself merklized."
type StateTrie struct {
	t        *Trie
	accounts *Trie
}

func NewStateTrie() *StateTrie {
	return &StateTrie{t: New(), accounts: New()}
}

// SetComponent stores a top-level component's encoded bytes. An empty
// encoding removes the component's entry (used when a component is the
// chain-spec-defined zero value and need not occupy trie space).
func (s *StateTrie) SetComponent(c Component, encoded []byte) error {
	return s.t.Put([]byte{byte(c)}, encoded)
}

// SetAccount stores a single service account's encoded bytes, keyed by its
// 4-octet big-endian service ID within the accounts sub-trie.
func (s *StateTrie) SetAccount(id types.ServiceID, encoded []byte) error {
	key := []byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
	return s.accounts.Put(key, encoded)
}

// Root computes state_root(): the accounts sub-trie is first committed and
// its root stored under the accounts component key, then the top-level
// trie's own root is returned.
func (s *StateTrie) Root() types.Hash {
	accountsRoot := s.accounts.Hash()
	_ = s.t.Put([]byte{byte(ComponentAccounts)}, accountsRoot.Bytes())
	return s.t.Hash()
}
