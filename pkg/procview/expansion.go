package procview

import (
	"fmt"
	"sort"

	"github.com/Sternrassler/medshield-admin/pkg/model"
	"github.com/cespare/xxhash/v2"
)

// ClusterKey identifies a cluster for expansion tracking: its cluster id
// when present, otherwise a hash of its representative text and
// document ids. Keys never depend on the cluster's position in a page.
func ClusterKey(c model.DocumentCluster) string {
	if c.ClusterID != "" {
		return string(c.ClusterID)
	}

	h := xxhash.New()
	h.WriteString(c.RepText)
	for _, d := range c.Documents {
		h.Write([]byte{0})
		h.WriteString(d.ID)
	}
	return fmt.Sprintf("h%016x", h.Sum64())
}

// Expansion is the set of expanded cluster keys.
type Expansion struct {
	open map[string]struct{}
}

// NewExpansion returns a set with keys expanded. Empty keys are ignored.
func NewExpansion(keys ...string) *Expansion {
	e := &Expansion{open: make(map[string]struct{}, len(keys))}
	for _, key := range keys {
		if key != "" {
			e.open[key] = struct{}{}
		}
	}
	return e
}

// Toggle flips key and reports whether it is now expanded.
func (e *Expansion) Toggle(key string) bool {
	if _, ok := e.open[key]; ok {
		delete(e.open, key)
		return false
	}
	e.open[key] = struct{}{}
	return true
}

// IsExpanded reports whether key is expanded.
func (e *Expansion) IsExpanded(key string) bool {
	_, ok := e.open[key]
	return ok
}

// Keys returns the expanded keys in sorted order.
func (e *Expansion) Keys() []string {
	keys := make([]string, 0, len(e.open))
	for key := range e.open {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of expanded clusters.
func (e *Expansion) Len() int { return len(e.open) }

// Toggled returns a copy of e with key flipped.
func (e *Expansion) Toggled(key string) *Expansion {
	c := NewExpansion(e.Keys()...)
	c.Toggle(key)
	return c
}
