// Package service orchestrates one reporting session: ingest uploaded
// extracts into a fact table, hold the filter selection, and serve aggregate
// views and KPIs to the presentation layer.
package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmaia/vendaboard/internal/fact"
	"github.com/rmaia/vendaboard/internal/logctx"
	"github.com/rmaia/vendaboard/internal/report"
	"github.com/rmaia/vendaboard/internal/table"
)

// Options tune the pipeline. The zero value uses the package defaults
// (comma-delimited CSV, day-first dates, top 10).
type Options struct {
	Delimiter       rune
	DateLayouts     []string
	CurrencySymbols []string
	TopN            int
}

// Upload carries the raw byte streams of one ingestion run. Vendas,
// Clientes and Produtos are required; Vendedores and Regioes are optional.
type Upload struct {
	Vendas   io.Reader
	Clientes io.Reader
	Produtos io.Reader

	Vendedores io.Reader
	Regioes    io.Reader
}

// Summary describes one successful ingestion run.
type Summary struct {
	RunID     string
	Rows      int
	Stats     fact.Stats
	Years     []int
	FromCache bool
}

type memoEntry struct {
	table fact.Table
	stats fact.Stats
}

// Dashboard is a single-owner reporting session. It is not safe for
// concurrent use; the pipeline is synchronous by design.
type Dashboard struct {
	opts Options

	facts    fact.Table
	stats    fact.Stats
	criteria report.Criteria

	memo map[string]memoEntry
}

// New creates an empty session.
func New(opts Options) *Dashboard {
	if opts.TopN <= 0 {
		opts.TopN = 10
	}
	return &Dashboard{opts: opts, memo: make(map[string]memoEntry)}
}

// Ingest builds a brand-new fact table from the uploaded extracts and makes
// it the session's current dataset. It is all-or-nothing: on any error the
// previous dataset and filter stay exactly as they were.
//
// Byte-identical uploads are served from an in-memory memo keyed on content
// hash; a hit changes nothing but the summary's FromCache flag.
func (d *Dashboard) Ingest(ctx context.Context, up Upload) (Summary, error) {
	logger := logctx.From(ctx)
	runID := uuid.NewString()

	payloads, err := readUpload(up)
	if err != nil {
		return Summary{}, err
	}

	key := contentHash(payloads)
	entry, hit := d.memo[key]
	if !hit {
		entry.table, entry.stats, err = d.build(payloads)
		if err != nil {
			logger.ErrorContext(ctx, "ingestion failed", "run_id", runID, "error", err)
			return Summary{}, fmt.Errorf("ingest: %w", err)
		}
		d.memo[key] = entry
	}

	d.facts = entry.table
	d.stats = entry.stats
	d.ResetFilter()

	summary := Summary{
		RunID:     runID,
		Rows:      len(entry.table),
		Stats:     entry.stats,
		Years:     d.Years(),
		FromCache: hit,
	}
	logger.InfoContext(ctx, "ingestion complete",
		"run_id", runID,
		"rows", summary.Rows,
		"from_cache", hit,
		"unmatched_clientes", entry.stats.UnmatchedClientes,
		"unmatched_produtos", entry.stats.UnmatchedProdutos,
	)
	if dups := entry.stats.DuplicateClienteKeys + entry.stats.DuplicateProdutoKeys +
		entry.stats.DuplicateVendedorKeys + entry.stats.DuplicateRegiaoKeys; dups > 0 {
		logger.WarnContext(ctx, "duplicate dimension keys ignored (first occurrence wins)",
			"run_id", runID, "keys", dups)
	}
	return summary, nil
}

type payload struct {
	role string
	data []byte
}

func readUpload(up Upload) ([]payload, error) {
	required := []struct {
		role string
		r    io.Reader
	}{
		{fact.RoleVendas, up.Vendas},
		{fact.RoleClientes, up.Clientes},
		{fact.RoleProdutos, up.Produtos},
	}
	var payloads []payload
	for _, src := range required {
		if src.r == nil {
			return nil, fmt.Errorf("ingest: %s extract is required", src.role)
		}
		data, err := io.ReadAll(src.r)
		if err != nil {
			return nil, fmt.Errorf("ingest: read %s: %w", src.role, err)
		}
		payloads = append(payloads, payload{role: src.role, data: data})
	}
	optional := []struct {
		role string
		r    io.Reader
	}{
		{fact.RoleVendedores, up.Vendedores},
		{fact.RoleRegioes, up.Regioes},
	}
	for _, src := range optional {
		if src.r == nil {
			continue
		}
		data, err := io.ReadAll(src.r)
		if err != nil {
			return nil, fmt.Errorf("ingest: read %s: %w", src.role, err)
		}
		payloads = append(payloads, payload{role: src.role, data: data})
	}
	return payloads, nil
}

func contentHash(payloads []payload) string {
	h := sha256.New()
	for _, p := range payloads {
		h.Write([]byte(p.role))
		h.Write([]byte{0})
		h.Write(p.data)
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

func (d *Dashboard) build(payloads []payload) (fact.Table, fact.Stats, error) {
	tables := make(map[string]*table.Table, len(payloads))
	for _, p := range payloads {
		t, err := table.ReadCSV(bytes.NewReader(p.data), p.role, table.Options{Comma: d.opts.Delimiter})
		if err != nil {
			return nil, fact.Stats{}, err
		}
		tables[p.role] = t
	}
	in := fact.Inputs{
		Vendas:     tables[fact.RoleVendas],
		Clientes:   tables[fact.RoleClientes],
		Produtos:   tables[fact.RoleProdutos],
		Vendedores: tables[fact.RoleVendedores],
		Regioes:    tables[fact.RoleRegioes],
	}
	return fact.Join(in, fact.Options{
		DateLayouts:     d.opts.DateLayouts,
		CurrencySymbols: d.opts.CurrencySymbols,
	})
}

// Facts returns the current fact table. Treat it as read-only; every filter
// or aggregate call derives from it without mutation.
func (d *Dashboard) Facts() fact.Table { return d.facts }

// Stats returns the build statistics of the current dataset.
func (d *Dashboard) Stats() fact.Stats { return d.stats }

// SetFilter replaces the current selection.
func (d *Dashboard) SetFilter(c report.Criteria) { d.criteria = c }

// Filter returns the current selection.
func (d *Dashboard) Filter() report.Criteria { return d.criteria }

// ResetFilter restores the initial selection: most recent year, category and
// payment method unconstrained.
func (d *Dashboard) ResetFilter() {
	d.criteria = report.Criteria{Ano: d.facts.MaxYear()}
}

func (d *Dashboard) filtered() fact.Table {
	return d.criteria.Apply(d.facts)
}

// Aggregate computes the requested view over the currently filtered rows.
func (d *Dashboard) Aggregate(req report.Request) []report.Aggregate {
	return report.Compute(d.filtered(), req)
}

// Top computes the requested view truncated to the configured top N.
func (d *Dashboard) Top(req report.Request) []report.Aggregate {
	return report.TopN(d.Aggregate(req), d.opts.TopN)
}

// KPIs computes the headline scalars over the currently filtered rows.
func (d *Dashboard) KPIs() report.KPIs { return report.Summarize(d.filtered()) }

// TotalAmount is the sum of Valor over the filtered rows.
func (d *Dashboard) TotalAmount() decimal.Decimal { return d.KPIs().TotalAmount }

// TransactionCount is the number of distinct VendaID over the filtered rows.
func (d *Dashboard) TransactionCount() int { return d.KPIs().TransactionCount }

// AverageTicket is the mean amount per distinct transaction.
func (d *Dashboard) AverageTicket() decimal.Decimal { return d.KPIs().AverageTicket }

// CustomerCount is the number of distinct ClienteID over the filtered rows.
func (d *Dashboard) CustomerCount() int { return d.KPIs().CustomerCount }

// Years lists the years observed in the full dataset, most recent first.
func (d *Dashboard) Years() []int {
	seen := make(map[int]struct{})
	var out []int
	for _, r := range d.facts {
		if _, ok := seen[r.Ano]; ok {
			continue
		}
		seen[r.Ano] = struct{}{}
		out = append(out, r.Ano)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// Categories lists the product categories observed in the full dataset.
func (d *Dashboard) Categories() []string {
	return distinct(d.facts, func(r fact.Row) string { return r.Categoria })
}

// PaymentMethods lists the payment methods observed in the full dataset.
func (d *Dashboard) PaymentMethods() []string {
	return distinct(d.facts, func(r fact.Row) string { return r.FormaPagamento })
}

func distinct(t fact.Table, field func(fact.Row) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range t {
		v := field(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
