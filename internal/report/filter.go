// Package report computes filtered aggregate views and KPI scalars over a
// fact table.
package report

import (
	"github.com/rmaia/vendaboard/internal/fact"
)

// Criteria is the current view selection. Zero values leave a slot
// unconstrained: Ano 0 and empty strings mean "all".
type Criteria struct {
	Ano            int
	Categoria      string
	FormaPagamento string
}

// Apply returns the subsequence of rows matching every constrained slot.
// The input table is never mutated, and criteria always evaluate against the
// full table, so the result is independent of the order slots were set in.
func (c Criteria) Apply(t fact.Table) fact.Table {
	if c == (Criteria{}) {
		return t
	}
	out := make(fact.Table, 0, len(t))
	for _, r := range t {
		if c.Ano != 0 && r.Ano != c.Ano {
			continue
		}
		if c.Categoria != "" && r.Categoria != c.Categoria {
			continue
		}
		if c.FormaPagamento != "" && r.FormaPagamento != c.FormaPagamento {
			continue
		}
		out = append(out, r)
	}
	return out
}
