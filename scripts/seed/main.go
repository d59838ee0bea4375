package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/cotacao-hub/cotacao/internal/app"
	"github.com/cotacao-hub/cotacao/internal/masterdata/products"
	"github.com/cotacao-hub/cotacao/internal/masterdata/suppliers"
	"github.com/cotacao-hub/cotacao/internal/procurement"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	ctx := context.Background()
	repos, err := app.OpenRepositories(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer repos.Close()

	supplierService := suppliers.NewService(repos.Suppliers)
	s := seeder{
		suppliers:   supplierService,
		products:    products.NewService(repos.Products, supplierService),
		procurement: procurement.NewService(repos.Procurement),
		out:         os.Stdout,
	}
	if err := s.run(ctx); err != nil {
		log.Fatalf("seed: %v", err)
	}
	fmt.Println("✓ Seed complete at", time.Now().Format(time.RFC3339))
}

type seeder struct {
	suppliers   *suppliers.Service
	products    *products.Service
	procurement *procurement.Service
	out         io.Writer
}

type supplierSeed struct {
	nome      string
	contato   string
	contactID string
	produtos  []productSeed
}

type productSeed struct {
	nome  string
	preco float64
}

var supplierSeeds = []supplierSeed{
	{nome: "Casa do Construtor Bauru", contato: "+55 (14) 99524-1168", produtos: []productSeed{
		{nome: "Cimento CP-II 50kg", preco: 32.9},
		{nome: "Areia média m³", preco: 145},
	}},
	{nome: "Depósito Central", contato: "+55 (14) 3222-0001", contactID: "demo-contact-central", produtos: []productSeed{
		{nome: "Brita 1 m³", preco: 160},
	}},
	{nome: "Madeireira Paulista", produtos: []productSeed{
		{nome: "Caibro 5x5 3m", preco: 18},
	}},
}

// run inserts demo data once; an existing supplier table is left untouched.
func (s seeder) run(ctx context.Context) error {
	existing, err := s.suppliers.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		fmt.Fprintf(s.out, "→ %d suppliers already present, skipping\n", len(existing))
		return nil
	}

	fmt.Fprintln(s.out, "→ Seeding suppliers and products...")
	var firstProduct, firstSupplier int64
	for _, seed := range supplierSeeds {
		input := suppliers.Supplier{Name: seed.nome, Contact: seed.contato}
		if seed.contactID != "" {
			input.DigisacContactID = &seed.contactID
		}
		supplier, err := s.suppliers.Create(ctx, input)
		if err != nil {
			return fmt.Errorf("supplier %s: %w", seed.nome, err)
		}
		if firstSupplier == 0 {
			firstSupplier = supplier.ID
		}
		for _, p := range seed.produtos {
			preco := p.preco
			supplierID := supplier.ID
			product, err := s.products.Create(ctx, products.Product{
				Name:       p.nome,
				SupplierID: &supplierID,
				Price:      &preco,
			})
			if err != nil {
				return fmt.Errorf("product %s: %w", p.nome, err)
			}
			if firstProduct == 0 {
				firstProduct = product.ID
			}
		}
	}

	fmt.Fprintln(s.out, "→ Seeding purchase requests...")
	_, err = s.procurement.Create(ctx, procurement.CreateRequest{
		Titulo:       "Reposição de cimento",
		Descricao:    "40 sacos para a obra da Rua Araújo Leite",
		ProdutoID:    &firstProduct,
		FornecedorID: &firstSupplier,
	})
	return err
}
