package trie

import "github.com/jamdev/jamnode/codec"

// encodeNode serializes a trie node for hashing. shortNode becomes a
// two-element sequence (compact key, value); fullNode becomes a
// seventeen-element sequence (sixteen children plus the value slot).
// Each element is a length-prefixed blob so siblings never need to agree on
// width; this only ever feeds the hasher; nothing persists or reloads it.
func encodeNode(n node) []byte {
	switch n := n.(type) {
	case *shortNode:
		return encodeShortNode(n)
	case *fullNode:
		return encodeFullNode(n)
	case hashNode:
		return []byte(n)
	case valueNode:
		e := codec.NewEncoder()
		e.WriteBlob([]byte(n))
		return e.Bytes()
	default:
		return nil
	}
}

func encodeShortNode(n *shortNode) []byte {
	e := codec.NewEncoder()
	e.WriteBlob(n.Key)
	e.WriteRaw(encodeNodeValue(n.Val))
	return e.Bytes()
}

func encodeFullNode(n *fullNode) []byte {
	e := codec.NewEncoder()
	for i := 0; i < 17; i++ {
		e.WriteRaw(encodeNodeValue(n.Children[i]))
	}
	return e.Bytes()
}

// encodeNodeValue encodes a child for inclusion in a parent's sequence:
// absent children and hash/value references become length-prefixed blobs,
// inline short/full children are encoded in place (also length-prefixed, so
// the parent's sequence stays self-delimiting).
func encodeNodeValue(n node) []byte {
	e := codec.NewEncoder()
	switch n := n.(type) {
	case nil:
		e.WriteBlob(nil)
	case valueNode:
		e.WriteBlob([]byte(n))
	case hashNode:
		e.WriteBlob([]byte(n))
	case *shortNode:
		e.WriteBlob(encodeShortNode(n))
	case *fullNode:
		e.WriteBlob(encodeFullNode(n))
	default:
		e.WriteBlob(nil)
	}
	return e.Bytes()
}
