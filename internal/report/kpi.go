package report

import (
	"github.com/shopspring/decimal"

	"github.com/rmaia/vendaboard/internal/fact"
)

// KPIs are the headline scalars of the current view. All degrade to zero on
// an empty table; none ever fail.
type KPIs struct {
	TotalAmount      decimal.Decimal
	TransactionCount int
	AverageTicket    decimal.Decimal
	CustomerCount    int
}

// Summarize computes the KPI block over a (typically already filtered)
// table. AverageTicket is total amount per distinct transaction, rounded to
// two decimal places.
func Summarize(t fact.Table) KPIs {
	total := decimal.Zero
	vendas := make(map[string]struct{}, len(t))
	clientes := make(map[string]struct{}, len(t))
	for _, r := range t {
		total = total.Add(r.Valor)
		vendas[r.VendaID] = struct{}{}
		clientes[r.ClienteID] = struct{}{}
	}

	k := KPIs{
		TotalAmount:      total,
		TransactionCount: len(vendas),
		AverageTicket:    decimal.Zero,
		CustomerCount:    len(clientes),
	}
	if k.TransactionCount > 0 {
		k.AverageTicket = total.Div(decimal.NewFromInt(int64(k.TransactionCount))).Round(2)
	}
	return k
}
