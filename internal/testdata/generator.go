// Package testdata generates synthetic sales extracts for tests and demos.
package testdata

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// Extracts holds CSV payloads shaped like real uploads.
type Extracts struct {
	Vendas   []byte
	Clientes []byte
	Produtos []byte
}

type product struct {
	Nome      string
	Categoria string
}

var catalog = []product{
	{"Notebook Pro 14", "Eletrônicos"},
	{"Mouse Sem Fio", "Eletrônicos"},
	{"Teclado Mecânico", "Eletrônicos"},
	{"Cadeira Ergonômica", "Escritório"},
	{"Mesa Ajustável", "Escritório"},
	{"Luminária LED", "Escritório"},
	{"Cafeteira Italiana", "Cozinha"},
	{"Garrafa Térmica", "Cozinha"},
}

var customerNames = []string{
	"Ana Souza", "Bruno Lima", "Carla Mendes", "Diego Rocha",
	"Elisa Prado", "Fábio Nunes", "Gabriela Dias", "Henrique Alves",
}

var paymentMethods = []string{"Pix", "Cartão", "Boleto", "Dinheiro"}

// Generate produces n sales across the given years, referencing a fixed
// customer and product cast. The same seed always yields the same bytes.
func Generate(n int, seed int64) Extracts {
	rng := rand.New(rand.NewSource(seed))

	clienteIDs := make([]string, len(customerNames))
	var clientes bytes.Buffer
	clientes.WriteString("ClienteID,Nome\n")
	for i, name := range customerNames {
		clienteIDs[i] = uuid.NewSHA1(uuid.NameSpaceOID, []byte("cliente:"+name)).String()
		fmt.Fprintf(&clientes, "%s,%s\n", clienteIDs[i], name)
	}

	produtoIDs := make([]string, len(catalog))
	var produtos bytes.Buffer
	produtos.WriteString("ProdutoID,Produto,Categoria\n")
	for i, p := range catalog {
		produtoIDs[i] = uuid.NewSHA1(uuid.NameSpaceOID, []byte("produto:"+p.Nome)).String()
		fmt.Fprintf(&produtos, "%s,%s,%s\n", produtoIDs[i], p.Nome, p.Categoria)
	}

	var vendas bytes.Buffer
	vendas.WriteString("VendaID,DataVenda,ClienteID,ProdutoID,Quantidade,ValorTotal,FormaPagamento\n")
	for i := 0; i < n; i++ {
		year := 2023 + rng.Intn(2)
		month := 1 + rng.Intn(12)
		day := 1 + rng.Intn(28)
		cents := int64(rng.Intn(500_000) + 500)
		fmt.Fprintf(&vendas, "V%04d,%02d/%02d/%d,%s,%s,%d,\"%s\",%s\n",
			i+1, day, month, year,
			clienteIDs[rng.Intn(len(clienteIDs))],
			produtoIDs[rng.Intn(len(produtoIDs))],
			1+rng.Intn(5),
			FormatBR(cents),
			paymentMethods[rng.Intn(len(paymentMethods))],
		)
	}

	return Extracts{
		Vendas:   vendas.Bytes(),
		Clientes: clientes.Bytes(),
		Produtos: produtos.Bytes(),
	}
}

// FormatBR renders cents as a Brazilian-formatted amount, e.g. 150000 ->
// "1.500,00".
func FormatBR(cents int64) string {
	whole := cents / 100
	frac := cents % 100
	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return fmt.Sprintf("%s,%02d", b.String(), frac)
}
