package mesh

import (
	"github.com/notargets/meshtopo/types"
)

// store is the append-only element container of one dimension. Elements are
// addressed by insertion index; the key index deduplicates by vertex set.
type store struct {
	dim      int
	elements []Element
	keys     map[types.ElementKey]int
}

func newStore(dim int) *store {
	return &store{
		dim:  dim,
		keys: make(map[types.ElementKey]int),
	}
}

func (s *store) size() int { return len(s.elements) }

func (s *store) find(key types.ElementKey) (idx int, ok bool) {
	idx, ok = s.keys[key]
	return
}

// findOrInsert returns the index of the element with key, calling build to
// construct it when absent
func (s *store) findOrInsert(key types.ElementKey, build func() Element) (idx int, inserted bool) {
	if idx, ok := s.keys[key]; ok {
		return idx, false
	}
	idx = len(s.elements)
	s.elements = append(s.elements, build())
	s.keys[key] = idx
	return idx, true
}

// appendVertex never deduplicates: coincident vertices are distinct elements
func (s *store) appendVertex(e Element) (idx int) {
	idx = len(s.elements)
	s.elements = append(s.elements, e)
	return
}
