package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rmaia/vendaboard/internal/fact"
)

// GroupBy selects the grouping dimension of a view.
type GroupBy string

const (
	GroupByMes            GroupBy = "mes"
	GroupByProduto        GroupBy = "produto"
	GroupByFormaPagamento GroupBy = "forma_pagamento"
	GroupByVendedor       GroupBy = "vendedor"
	GroupByCliente        GroupBy = "cliente"
)

// Metric selects the numeric summary of a view.
type Metric string

const (
	MetricSoma     Metric = "soma"     // sum of Valor
	MetricContagem Metric = "contagem" // count of distinct VendaID
	MetricMedia    Metric = "media"    // mean Valor per distinct VendaID
)

// UnmatchedLabel stands in for dimension attributes a left join left empty.
const UnmatchedLabel = "(não identificado)"

// Request names one aggregate view.
type Request struct {
	GroupBy GroupBy
	Metric  Metric
}

// Aggregate is one bucket of a view: a grouping key with its summary value.
// Mes is set only for month-grouped views.
type Aggregate struct {
	Key   string
	Mes   int
	Value decimal.Decimal
}

type bucket struct {
	key     string
	mes     int
	sum     decimal.Decimal
	vendaID map[string]struct{}
}

// Compute produces the requested view over t in one grouping pass.
//
// Month views are ordered by calendar month ascending. Every other view is
// ordered by the metric descending, ties broken by first-encounter order, so
// the result is a pure deterministic function of the table and the request.
func Compute(t fact.Table, req Request) []Aggregate {
	byKey := make(map[string]*bucket)
	order := make([]*bucket, 0)

	for _, r := range t {
		key, mes := groupKey(r, req.GroupBy)
		b, ok := byKey[key]
		if !ok {
			b = &bucket{key: key, mes: mes, sum: decimal.Zero, vendaID: make(map[string]struct{})}
			byKey[key] = b
			order = append(order, b)
		}
		b.sum = b.sum.Add(r.Valor)
		b.vendaID[r.VendaID] = struct{}{}
	}

	out := make([]Aggregate, len(order))
	for i, b := range order {
		out[i] = Aggregate{Key: b.key, Mes: b.mes, Value: metricValue(b, req.Metric)}
	}

	if req.GroupBy == GroupByMes {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Mes < out[j].Mes })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Value.GreaterThan(out[j].Value) })
	}
	return out
}

// TopN truncates an ordered view to its first n buckets. Non-positive n
// leaves the view untouched.
func TopN(view []Aggregate, n int) []Aggregate {
	if n <= 0 || len(view) <= n {
		return view
	}
	return view[:n]
}

func groupKey(r fact.Row, g GroupBy) (string, int) {
	switch g {
	case GroupByMes:
		return r.MesNome, r.Mes
	case GroupByProduto:
		if !r.ProdutoMatched {
			return UnmatchedLabel, 0
		}
		return r.ProdutoNome, 0
	case GroupByFormaPagamento:
		return r.FormaPagamento, 0
	case GroupByVendedor:
		if !r.VendedorMatched {
			return UnmatchedLabel, 0
		}
		return r.VendedorNome, 0
	case GroupByCliente:
		if !r.ClienteMatched {
			return UnmatchedLabel, 0
		}
		return r.ClienteNome, 0
	}
	return "", 0
}

func metricValue(b *bucket, m Metric) decimal.Decimal {
	count := int64(len(b.vendaID))
	switch m {
	case MetricContagem:
		return decimal.NewFromInt(count)
	case MetricMedia:
		if count == 0 {
			return decimal.Zero
		}
		return b.sum.Div(decimal.NewFromInt(count)).Round(2)
	default:
		return b.sum
	}
}
