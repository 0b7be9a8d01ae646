package value

import (
	"math"

	"knot/internal/diag"
	"knot/internal/source"

	"github.com/segmentio/fasthash/fnv1a"
)

// Hash digests any value, containers included. Values that are Is-equal hash
// equally.
func (v Value) Hash() uint64 {
	return hashInto(fnv1a.Init64, v)
}

// KeyHash is Hash restricted to the dtypes allowed as set elements and dict
// keys. Containers and graphs are mutable and therefore unhashable.
func (v Value) KeyHash() (uint64, error) {
	if err := checkHashable(v); err != nil {
		return 0, err
	}
	return v.Hash(), nil
}

func checkHashable(v Value) error {
	switch v.k {
	case List, Set, Dict, Graph:
		return diag.Newf(diag.RunUnhashable, 0, source.Span{}, "unhashable type '%s'", v.k)
	case Edge:
		if err := checkHashable(v.e.from); err != nil {
			return err
		}
		return checkHashable(v.e.to)
	}
	return nil
}

func hashInto(h uint64, v Value) uint64 {
	h = fnv1a.AddUint64(h, uint64(v.k))
	switch {
	case v.k == Bool || v.k.IsSigned():
		h = fnv1a.AddUint64(h, uint64(v.i))
	case v.k.IsUnsigned():
		h = fnv1a.AddUint64(h, v.u)
	case v.k.IsFloat():
		h = fnv1a.AddUint64(h, math.Float64bits(v.f))
	case v.k == String:
		h = fnv1a.AddString64(h, v.s)
	case v.k == List:
		for _, it := range v.list() {
			h = hashInto(h, it)
		}
	case v.k == Set || v.k == Dict:
		if v.m != nil {
			for i := range v.m.keys {
				h = hashInto(h, v.m.keys[i])
				if v.k == Dict {
					h = hashInto(h, v.m.vals[i])
				}
			}
		}
	case v.k == Graph:
		if v.g != nil {
			for _, n := range v.g.nodes.keys {
				h = hashInto(h, n)
			}
			for _, e := range v.g.edges {
				h = fnv1a.AddUint64(h, uint64(e.from))
				h = fnv1a.AddUint64(h, uint64(e.to))
				h = fnv1a.AddUint64(h, math.Float64bits(e.weight))
			}
		}
	case v.k == Edge:
		h = hashInto(h, v.e.from)
		h = hashInto(h, v.e.to)
		h = fnv1a.AddUint64(h, uint64(v.e.kind))
		h = fnv1a.AddUint64(h, math.Float64bits(v.e.weight))
	}
	return h
}
