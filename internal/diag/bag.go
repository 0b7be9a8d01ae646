package diag

import (
	"cmp"
	"slices"
)

// Bag collects diagnostics for one file or one run.
type Bag struct {
	items []Diagnostic
	limit int // 0 = без ограничения
}

// NewBag creates a bag that keeps at most limit diagnostics.
func NewBag(limit int) *Bag {
	return &Bag{limit: limit}
}

func (b *Bag) full() bool {
	return b.limit > 0 && len(b.items) >= b.limit
}

// Add reports false once the limit is reached and d was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if b.full() {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors reports whether any diagnostic is SevError or worse.
func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevError })
}

func (b *Bag) Len() int { return len(b.items) }

// Items is the backing slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

// Merge appends everything from other. The limit grows to fit, since
// other has already applied its own.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
	if b.limit > 0 {
		b.limit = max(b.limit, len(b.items))
	}
}

// Sort orders by file, offset, severity (worst first) and code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
