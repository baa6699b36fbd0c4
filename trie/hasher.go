package trie

import "golang.org/x/crypto/blake2b"

// hasher computes node digests bottom-up, inlining any node whose encoding
// is under 32 bytes the same way a Merkle Patricia Trie does, so only nodes
// that actually need a reference get one.
type hasher struct{}

func newHasher() *hasher { return &hasher{} }

func (h *hasher) hash(n node, force bool) (node, node) {
	if hash, dirty := n.cache(); hash != nil && !dirty {
		return hash, n
	}
	collapsed, cached := h.hashChildren(n)
	hashed := h.store(collapsed, force)

	cachedHash, _ := hashed.(hashNode)
	switch cn := cached.(type) {
	case *shortNode:
		cn.flags.hash = cachedHash
		cn.flags.dirty = false
	case *fullNode:
		cn.flags.hash = cachedHash
		cn.flags.dirty = false
	}
	return hashed, cached
}

func (h *hasher) hashChildren(original node) (node, node) {
	switch n := original.(type) {
	case *shortNode:
		collapsed, cached := n.copy(), n.copy()
		collapsed.Key = hexToCompact(n.Key)
		if _, ok := n.Val.(valueNode); !ok && n.Val != nil {
			childH, childC := h.hash(n.Val, false)
			collapsed.Val = childH
			cached.Val = childC
		}
		return collapsed, cached
	case *fullNode:
		collapsed, cached := n.copy(), n.copy()
		for i := 0; i < 16; i++ {
			if n.Children[i] != nil {
				childH, childC := h.hash(n.Children[i], false)
				collapsed.Children[i] = childH
				cached.Children[i] = childC
			}
		}
		return collapsed, cached
	default:
		return n, n
	}
}

func (h *hasher) store(n node, force bool) node {
	switch n.(type) {
	case hashNode, valueNode:
		return n
	}
	enc := encodeNode(n)
	if len(enc) < 32 && !force {
		return n
	}
	digest := blake2b.Sum256(enc)
	return hashNode(digest[:])
}
