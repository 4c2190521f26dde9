// Package fact builds the denormalized sales fact table: vendas rows joined
// with their customer, product and optional seller/region dimensions, with
// calendar fields derived from the sale date.
package fact

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fixed column contract of the uploaded extracts.
const (
	ColVendaID        = "VendaID"
	ColDataVenda      = "DataVenda"
	ColClienteID      = "ClienteID"
	ColProdutoID      = "ProdutoID"
	ColQuantidade     = "Quantidade"
	ColValorTotal     = "ValorTotal"
	ColFormaPagamento = "FormaPagamento"

	ColClienteNome = "Nome"
	ColProdutoNome = "Produto"
	ColCategoria   = "Categoria"

	ColVendedorID   = "VendedorID"
	ColVendedorNome = "Vendedor"
	ColRegiaoID     = "RegiaoID"
	ColRegiaoNome   = "Regiao"
)

// Extract roles used in error messages and logs.
const (
	RoleVendas     = "vendas"
	RoleClientes   = "clientes"
	RoleProdutos   = "produtos"
	RoleVendedores = "vendedores"
	RoleRegioes    = "regioes"
)

var monthLabels = [12]string{
	"Jan", "Fev", "Mar", "Abr", "Mai", "Jun",
	"Jul", "Ago", "Set", "Out", "Nov", "Dez",
}

// MonthLabel returns the fixed three-letter label for a month (1-12).
func MonthLabel(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthLabels[month-1]
}

// Row is one sale after joining and calendar derivation. Dimension attributes
// of an unmatched reference stay empty, with the Matched flag cleared; the
// row itself always survives the join.
type Row struct {
	VendaID string

	ClienteID      string
	ClienteNome    string
	ClienteMatched bool

	ProdutoID      string
	ProdutoNome    string
	Categoria      string
	ProdutoMatched bool

	VendedorID      string
	VendedorNome    string
	VendedorMatched bool

	RegiaoID      string
	RegiaoNome    string
	RegiaoMatched bool

	Quantidade     int64
	Valor          decimal.Decimal
	FormaPagamento string

	Data    time.Time
	Ano     int
	Mes     int // 1-12
	MesNome string
}

// Table is the ordered sequence of all fact rows from one ingestion run.
// It is immutable once built; filtering derives new narrowed tables.
type Table []Row

// MaxYear returns the most recent year present, or 0 for an empty table.
func (t Table) MaxYear() int {
	max := 0
	for _, r := range t {
		if r.Ano > max {
			max = r.Ano
		}
	}
	return max
}

func deriveCalendar(r *Row) {
	r.Ano = r.Data.Year()
	r.Mes = int(r.Data.Month())
	r.MesNome = MonthLabel(r.Mes)
}
