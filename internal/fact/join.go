package fact

import (
	"fmt"

	"github.com/rmaia/vendaboard/internal/normalize"
	"github.com/rmaia/vendaboard/internal/table"
)

// Inputs are the parsed extracts of one ingestion run. Vendedores and
// Regioes are optional; leave them nil when the files were not uploaded.
type Inputs struct {
	Vendas   *table.Table
	Clientes *table.Table
	Produtos *table.Table

	Vendedores *table.Table
	Regioes    *table.Table
}

// Options tune value normalization during the join.
type Options struct {
	// DateLayouts are tried in order; nil means normalize.DefaultDateLayouts.
	DateLayouts []string
	// CurrencySymbols are stripped from amounts; nil means the defaults.
	CurrencySymbols []string
}

// Stats summarizes one build. Duplicate counts report dimension rows that
// shared a key with an earlier row and were ignored (first occurrence wins).
type Stats struct {
	Rows int

	DuplicateClienteKeys  int
	DuplicateProdutoKeys  int
	DuplicateVendedorKeys int
	DuplicateRegiaoKeys   int

	UnmatchedClientes int
	UnmatchedProdutos int
}

// MissingKeyError reports a vendas row with an empty mandatory join key.
type MissingKeyError struct {
	Row    int // 1-based data row
	Column string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s row %d: join key %s is empty", RoleVendas, e.Row, e.Column)
}

type dimension struct {
	// attrs maps key -> attribute values in declared column order.
	attrs      map[string][]string
	duplicates int
}

func buildDimension(t *table.Table, keyCol string, attrCols ...string) dimension {
	d := dimension{attrs: make(map[string][]string, t.Len())}
	for row := 0; row < t.Len(); row++ {
		key := t.Cell(row, keyCol)
		if key == "" {
			continue
		}
		if _, seen := d.attrs[key]; seen {
			d.duplicates++
			continue
		}
		vals := make([]string, len(attrCols))
		for i, col := range attrCols {
			vals[i] = t.Cell(row, col)
		}
		d.attrs[key] = vals
	}
	return d
}

// Join merges the extracts into one fact table. Vendas drives: every vendas
// row appears exactly once in the output, matched or not. Any schema or
// conversion failure aborts the whole build; no partial table escapes.
func Join(in Inputs, opts Options) (Table, Stats, error) {
	if err := checkSchemas(in); err != nil {
		return nil, Stats{}, err
	}

	vendas := in.Vendas
	dates, err := normalize.DateColumn(vendas, ColDataVenda, opts.DateLayouts)
	if err != nil {
		return nil, Stats{}, err
	}
	amounts, err := normalize.AmountColumn(vendas, ColValorTotal, opts.CurrencySymbols)
	if err != nil {
		return nil, Stats{}, err
	}
	quantities, err := normalize.QuantityColumn(vendas, ColQuantidade)
	if err != nil {
		return nil, Stats{}, err
	}

	clientes := buildDimension(in.Clientes, ColClienteID, ColClienteNome)
	produtos := buildDimension(in.Produtos, ColProdutoID, ColProdutoNome, ColCategoria)
	stats := Stats{
		Rows:                 vendas.Len(),
		DuplicateClienteKeys: clientes.duplicates,
		DuplicateProdutoKeys: produtos.duplicates,
	}

	var vendedores, regioes dimension
	if in.Vendedores != nil {
		vendedores = buildDimension(in.Vendedores, ColVendedorID, ColVendedorNome)
		stats.DuplicateVendedorKeys = vendedores.duplicates
	}
	if in.Regioes != nil {
		regioes = buildDimension(in.Regioes, ColRegiaoID, ColRegiaoNome)
		stats.DuplicateRegiaoKeys = regioes.duplicates
	}

	out := make(Table, 0, vendas.Len())
	for i := 0; i < vendas.Len(); i++ {
		clienteID := vendas.Cell(i, ColClienteID)
		if clienteID == "" {
			return nil, Stats{}, &MissingKeyError{Row: i + 1, Column: ColClienteID}
		}
		produtoID := vendas.Cell(i, ColProdutoID)
		if produtoID == "" {
			return nil, Stats{}, &MissingKeyError{Row: i + 1, Column: ColProdutoID}
		}

		r := Row{
			VendaID:        vendas.Cell(i, ColVendaID),
			ClienteID:      clienteID,
			ProdutoID:      produtoID,
			Quantidade:     quantities[i],
			Valor:          amounts[i],
			FormaPagamento: vendas.Cell(i, ColFormaPagamento),
			Data:           dates[i],
		}
		if vals, ok := clientes.attrs[clienteID]; ok {
			r.ClienteNome = vals[0]
			r.ClienteMatched = true
		} else {
			stats.UnmatchedClientes++
		}
		if vals, ok := produtos.attrs[produtoID]; ok {
			r.ProdutoNome = vals[0]
			r.Categoria = vals[1]
			r.ProdutoMatched = true
		} else {
			stats.UnmatchedProdutos++
		}
		if in.Vendedores != nil {
			r.VendedorID = vendas.Cell(i, ColVendedorID)
			if vals, ok := vendedores.attrs[r.VendedorID]; ok {
				r.VendedorNome = vals[0]
				r.VendedorMatched = true
			}
		}
		if in.Regioes != nil {
			r.RegiaoID = vendas.Cell(i, ColRegiaoID)
			if vals, ok := regioes.attrs[r.RegiaoID]; ok {
				r.RegiaoNome = vals[0]
				r.RegiaoMatched = true
			}
		}
		deriveCalendar(&r)
		out = append(out, r)
	}
	return out, stats, nil
}

func checkSchemas(in Inputs) error {
	vendasCols := []string{
		ColVendaID, ColDataVenda, ColClienteID, ColProdutoID,
		ColQuantidade, ColValorTotal, ColFormaPagamento,
	}
	if in.Vendedores != nil {
		vendasCols = append(vendasCols, ColVendedorID)
	}
	if in.Regioes != nil {
		vendasCols = append(vendasCols, ColRegiaoID)
	}
	if err := in.Vendas.Require(vendasCols...); err != nil {
		return err
	}
	if err := in.Clientes.Require(ColClienteID, ColClienteNome); err != nil {
		return err
	}
	if err := in.Produtos.Require(ColProdutoID, ColProdutoNome, ColCategoria); err != nil {
		return err
	}
	if in.Vendedores != nil {
		if err := in.Vendedores.Require(ColVendedorID, ColVendedorNome); err != nil {
			return err
		}
	}
	if in.Regioes != nil {
		if err := in.Regioes.Require(ColRegiaoID, ColRegiaoNome); err != nil {
			return err
		}
	}
	return nil
}
