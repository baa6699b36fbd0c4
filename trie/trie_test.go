package trie

import "testing"

func TestEmptyTrieHash(t *testing.T) {
	tr := New()
	if !tr.Empty() {
		t.Fatal("expected new trie to be empty")
	}
	if tr.Hash() != emptyRoot {
		t.Fatal("expected empty trie to hash to emptyRoot")
	}
}

func TestPutGetDelete(t *testing.T) {
	tr := New()
	if err := tr.Put([]byte("alpha"), []byte("1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := tr.Put([]byte("beta"), []byte("2")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := tr.Get([]byte("alpha"))
	if err != nil || string(got) != "1" {
		t.Fatalf("Get(alpha) = %q, %v", got, err)
	}
	if tr.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tr.Len())
	}
	if err := tr.Delete([]byte("alpha")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := tr.Get([]byte("alpha")); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if tr.Len() != 1 {
		t.Fatalf("Len() after delete = %d, want 1", tr.Len())
	}
}

func TestHashDeterministic(t *testing.T) {
	tr1 := New()
	tr1.Put([]byte("a"), []byte("1"))
	tr1.Put([]byte("b"), []byte("2"))

	tr2 := New()
	tr2.Put([]byte("b"), []byte("2"))
	tr2.Put([]byte("a"), []byte("1"))

	if tr1.Hash() != tr2.Hash() {
		t.Fatal("insertion order should not affect the root hash")
	}
}

func TestHashChangesWithContent(t *testing.T) {
	tr := New()
	tr.Put([]byte("a"), []byte("1"))
	h1 := tr.Hash()
	tr.Put([]byte("a"), []byte("2"))
	h2 := tr.Hash()
	if h1 == h2 {
		t.Fatal("expected hash to change after value update")
	}
}

func TestStateTrieRootStable(t *testing.T) {
	s1 := NewStateTrie()
	s1.SetComponent(ComponentTheTime, []byte{0, 0, 0, 42})
	s1.SetAccount(7, []byte("account-bytes"))

	s2 := NewStateTrie()
	s2.SetAccount(7, []byte("account-bytes"))
	s2.SetComponent(ComponentTheTime, []byte{0, 0, 0, 42})

	if s1.Root() != s2.Root() {
		t.Fatal("state root should not depend on component-set order")
	}
}
