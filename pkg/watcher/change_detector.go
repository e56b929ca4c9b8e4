package watcher

import (
	"slices"
	"strings"
	"time"
)

// Batch is a set of changes handled by one re-run
type Batch struct {
	Kinds  []Kind   // distinct kinds in order of first change
	Paths  []string // distinct paths in order of first change
	Events int
	First  time.Time
	Last   time.Time
}

func (b *Batch) add(e ChangeEvent) {
	if b.Events == 0 {
		b.First = e.Timestamp
	}
	b.Events++
	b.Last = e.Timestamp
	if !slices.Contains(b.Kinds, e.Kind) {
		b.Kinds = append(b.Kinds, e.Kind)
	}
	if !slices.Contains(b.Paths, e.Path) {
		b.Paths = append(b.Paths, e.Path)
	}
}

// Has reports whether a file of kind k changed
func (b Batch) Has(k Kind) bool {
	return slices.Contains(b.Kinds, k)
}

// NeedsReload reports whether the configuration must be loaded again
// before re-running
func (b Batch) NeedsReload() bool {
	return b.Has(KindConfig)
}

// Reason describes the batch for logs, e.g. "input, formula file changed"
func (b Batch) Reason() string {
	if len(b.Kinds) == 0 {
		return "no changes"
	}
	names := make([]string, len(b.Kinds))
	for i, k := range b.Kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ") + " changed"
}
