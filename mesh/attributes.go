package mesh

import (
	"iter"
	"maps"
	"slices"
)

// AttributeStore holds caller data keyed by element handle. It is owned by
// the caller and is not updated by the mesh.
type AttributeStore[V any] struct {
	values map[Handle]V
}

func NewAttributeStore[V any]() *AttributeStore[V] {
	return &AttributeStore[V]{values: make(map[Handle]V)}
}

func (as *AttributeStore[V]) Set(h Handle, v V) { as.values[h] = v }

func (as *AttributeStore[V]) Get(h Handle) (v V, ok bool) {
	v, ok = as.values[h]
	return
}

func (as *AttributeStore[V]) Delete(h Handle) { delete(as.values, h) }
func (as *AttributeStore[V]) Len() int        { return len(as.values) }

// All yields the stored pairs ordered by dimension, then insertion index
func (as *AttributeStore[V]) All() iter.Seq2[Handle, V] {
	return func(yield func(Handle, V) bool) {
		for _, h := range slices.SortedFunc(maps.Keys(as.values), Handle.Compare) {
			if !yield(h, as.values[h]) {
				return
			}
		}
	}
}
