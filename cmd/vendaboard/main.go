// Command vendaboard ingests sales extracts and prints the default report.
// It is a thin consumer of the pipeline; interactive dashboards sit on the
// same surface.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/rmaia/vendaboard/internal/config"
	"github.com/rmaia/vendaboard/internal/logctx"
	"github.com/rmaia/vendaboard/internal/report"
	"github.com/rmaia/vendaboard/internal/service"
	"github.com/rmaia/vendaboard/internal/testdata"
)

func main() {
	var (
		vendasPath     = flag.String("vendas", "", "path to vendas.csv")
		clientesPath   = flag.String("clientes", "", "path to clientes.csv")
		produtosPath   = flag.String("produtos", "", "path to produtos.csv")
		vendedoresPath = flag.String("vendedores", "", "optional path to vendedores.csv")
		regioesPath    = flag.String("regioes", "", "optional path to regioes.csv")
		demo           = flag.Bool("demo", false, "run against generated sample data")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := logctx.With(context.Background(), logger)

	dash := service.New(service.Options{
		Delimiter:       cfg.CSV.DelimiterRune(),
		DateLayouts:     cfg.CSV.DateFormats,
		CurrencySymbols: cfg.CSV.CurrencySymbols,
		TopN:            cfg.Report.TopN,
	})

	up, cleanup, err := buildUpload(*demo, *vendasPath, *clientesPath, *produtosPath, *vendedoresPath, *regioesPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer cleanup()

	summary, err := dash.Ingest(ctx, up)
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("Ingested %d rows (run %s)\n", summary.Rows, summary.RunID)
	printReport(dash)
}

func buildUpload(demo bool, vendas, clientes, produtos, vendedores, regioes string) (service.Upload, func(), error) {
	if demo {
		ex := testdata.Generate(200, 42)
		return service.Upload{
			Vendas:   bytes.NewReader(ex.Vendas),
			Clientes: bytes.NewReader(ex.Clientes),
			Produtos: bytes.NewReader(ex.Produtos),
		}, func() {}, nil
	}

	if vendas == "" || clientes == "" || produtos == "" {
		return service.Upload{}, nil, fmt.Errorf("need -vendas, -clientes and -produtos (or -demo)")
	}

	var files []*os.File
	// Returns a plain nil interface for empty paths so optional extracts
	// stay absent rather than becoming a typed-nil reader.
	open := func(path string) (io.Reader, error) {
		if path == "" {
			return nil, nil
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
		return f, nil
	}
	cleanup := func() {
		for _, f := range files {
			f.Close()
		}
	}

	var up service.Upload
	var err error
	if up.Vendas, err = open(vendas); err == nil {
		if up.Clientes, err = open(clientes); err == nil {
			if up.Produtos, err = open(produtos); err == nil {
				if up.Vendedores, err = open(vendedores); err == nil {
					up.Regioes, err = open(regioes)
				}
			}
		}
	}
	if err != nil {
		cleanup()
		return service.Upload{}, nil, err
	}
	return up, cleanup, nil
}

func printReport(dash *service.Dashboard) {
	k := dash.KPIs()
	fmt.Printf("\nAno: ")
	if f := dash.Filter(); f.Ano != 0 {
		fmt.Printf("%d\n", f.Ano)
	} else {
		fmt.Println("todos")
	}
	fmt.Printf("Faturamento total:  R$ %s\n", k.TotalAmount.StringFixed(2))
	fmt.Printf("Vendas:             %d\n", k.TransactionCount)
	fmt.Printf("Ticket médio:       R$ %s\n", k.AverageTicket.StringFixed(2))
	fmt.Printf("Clientes:           %d\n", k.CustomerCount)

	fmt.Println("\nFaturamento por mês:")
	for _, a := range dash.Aggregate(report.Request{GroupBy: report.GroupByMes, Metric: report.MetricSoma}) {
		fmt.Printf("  %-4s R$ %s\n", a.Key, a.Value.StringFixed(2))
	}

	fmt.Println("\nTop produtos:")
	for _, a := range dash.Top(report.Request{GroupBy: report.GroupByProduto, Metric: report.MetricSoma}) {
		fmt.Printf("  %-24s R$ %s\n", a.Key, a.Value.StringFixed(2))
	}

	fmt.Println("\nFormas de pagamento:")
	for _, a := range dash.Aggregate(report.Request{GroupBy: report.GroupByFormaPagamento, Metric: report.MetricContagem}) {
		fmt.Printf("  %-12s %s vendas\n", a.Key, a.Value.String())
	}
}
