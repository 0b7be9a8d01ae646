package value

// omap is an insertion-ordered hash table keyed by hashable values. Sets use
// only keys; dicts keep vals parallel to keys.
type omap struct {
	keys    []Value
	vals    []Value
	buckets map[uint64][]int
}

func newOmap() *omap {
	return &omap{buckets: make(map[uint64][]int)}
}

func (m *omap) len() int { return len(m.keys) }

func (m *omap) find(k Value, h uint64) int {
	for _, idx := range m.buckets[h] {
		if Is(m.keys[idx], k) {
			return idx
		}
	}
	return -1
}

// index returns the position of k or -1.
func (m *omap) index(k Value) (int, error) {
	h, err := k.KeyHash()
	if err != nil {
		return -1, err
	}
	return m.find(k, h), nil
}

// put inserts or replaces; insertion order is kept for existing keys.
func (m *omap) put(k, v Value) error {
	h, err := k.KeyHash()
	if err != nil {
		return err
	}
	if idx := m.find(k, h); idx >= 0 {
		m.vals[idx] = v
		return nil
	}
	m.buckets[h] = append(m.buckets[h], len(m.keys))
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
	return nil
}

// del removes k and reports whether it was present.
func (m *omap) del(k Value) (bool, error) {
	idx, err := m.index(k)
	if err != nil || idx < 0 {
		return false, err
	}
	m.keys = append(m.keys[:idx], m.keys[idx+1:]...)
	m.vals = append(m.vals[:idx], m.vals[idx+1:]...)
	m.rehash()
	return true, nil
}

func (m *omap) rehash() {
	m.buckets = make(map[uint64][]int, len(m.keys))
	for i, k := range m.keys {
		h := k.Hash()
		m.buckets[h] = append(m.buckets[h], i)
	}
}

func (m *omap) clone() *omap {
	c := &omap{
		keys:    append([]Value(nil), m.keys...),
		vals:    append([]Value(nil), m.vals...),
		buckets: make(map[uint64][]int, len(m.buckets)),
	}
	for h, idx := range m.buckets {
		c.buckets[h] = append([]int(nil), idx...)
	}
	return c
}
