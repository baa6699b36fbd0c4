// Package trie implements the keyed Merkle trie used to commit the world
// state (§4.2): a Merkle Patricia Trie over the state-key encoding of each
// of the 17 world-state components, plus the service-accounts sub-trie
// merklized beneath its own component key.
package trie

// node is the interface implemented by all trie node types.
type node interface {
	cache() (hashNode, bool)
}

// fullNode is a branch node with 16 children (one per hex nibble) plus an
// optional value slot at index 16.
type fullNode struct {
	Children [17]node
	flags    nodeFlag
}

// shortNode is an extension or leaf node. A terminator nibble (0x10) at the
// end of Key marks it as a leaf; its absence marks it as an extension.
type shortNode struct {
	Key   []byte
	Val   node
	flags nodeFlag
}

// hashNode is a 32-byte digest reference to a node stored elsewhere.
type hashNode []byte

// valueNode is raw value data stored at a leaf.
type valueNode []byte

type nodeFlag struct {
	hash  hashNode
	dirty bool
}

func (n *fullNode) cache() (hashNode, bool)  { return n.flags.hash, n.flags.dirty }
func (n *shortNode) cache() (hashNode, bool) { return n.flags.hash, n.flags.dirty }
func (n hashNode) cache() (hashNode, bool)   { return nil, true }
func (n valueNode) cache() (hashNode, bool)  { return nil, true }

func (n *fullNode) copy() *fullNode {
	cp := *n
	return &cp
}

func (n *shortNode) copy() *shortNode {
	cp := *n
	return &cp
}
