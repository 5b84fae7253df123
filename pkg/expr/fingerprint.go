package expr

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns a structural hash of the subtree rooted at id. Structurally equal
// subtrees hash equally regardless of the arena or handles they occupy.
func (a *Arena) Fingerprint(id ID) uint64 {
	digest := xxhash.New()
	a.hashInto(digest, id)
	return digest.Sum64()
}

func (a *Arena) hashInto(digest *xxhash.Digest, id ID) {
	var scratch [8]byte
	if id == Nil {
		_, _ = digest.Write([]byte{byte(KindInvalid)})
		return
	}

	n := a.get(id)
	_, _ = digest.Write([]byte{byte(n.kind)})
	writeString(digest, n.name)
	writeString(digest, n.prop)

	switch typed := n.value.(type) {
	case nil:
		_, _ = digest.Write([]byte{0})
	case bool:
		if typed {
			_, _ = digest.Write([]byte{1, 1})
		} else {
			_, _ = digest.Write([]byte{1, 0})
		}
	case int64:
		binary.LittleEndian.PutUint64(scratch[:], uint64(typed))
		_, _ = digest.Write([]byte{2})
		_, _ = digest.Write(scratch[:])
	case float64:
		binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(typed))
		_, _ = digest.Write([]byte{3})
		_, _ = digest.Write(scratch[:])
	case string:
		_, _ = digest.Write([]byte{4})
		writeString(digest, typed)
	}

	for _, key := range n.keys {
		writeString(digest, key)
	}

	binary.LittleEndian.PutUint64(scratch[:], uint64(len(n.children)))
	_, _ = digest.Write(scratch[:])
	for _, child := range n.children {
		a.hashInto(digest, child)
	}
}

func writeString(digest *xxhash.Digest, s string) {
	var length [8]byte
	binary.LittleEndian.PutUint64(length[:], uint64(len(s)))
	_, _ = digest.Write(length[:])
	_, _ = digest.WriteString(s)
}
