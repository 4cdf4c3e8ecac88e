package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cassiomorais/checkout/internal/bootstrap"
	"github.com/cassiomorais/checkout/internal/domain/money"
	"github.com/cassiomorais/checkout/internal/domain/product"
	"github.com/cassiomorais/checkout/internal/repository/postgres"
)

type seedProduct struct {
	name        string
	description string
	priceCents  int64
	stock       int
	imageURL    string
}

// Catalog prices are in COP cents.
var catalog = []seedProduct{
	{
		name:        "Sonido Pro Soundbar",
		description: "5.1 channel soundbar with wireless subwoofer and HDMI eARC",
		priceCents:  50_000_000,
		stock:       25,
		imageURL:    "https://cdn.example.com/products/soundbar.png",
	},
	{
		name:        "Altavoz Portatil Max",
		description: "Waterproof portable speaker, 24h battery, USB-C charging",
		priceCents:  18_500_000,
		stock:       60,
		imageURL:    "https://cdn.example.com/products/portable-speaker.png",
	},
	{
		name:        "Audifonos Studio ANC",
		description: "Over-ear headphones with active noise cancelling",
		priceCents:  32_990_000,
		stock:       40,
		imageURL:    "https://cdn.example.com/products/headphones.png",
	},
}

func main() {
	ctx := context.Background()

	app, err := bootstrap.New(ctx, "checkout-seed", "checkout_seed")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	currency := app.Config.Payment.Currency
	repo := postgres.NewProductRepository(app.Pool)

	for _, item := range catalog {
		p, err := product.New(
			item.name,
			item.description,
			money.Amount{Cents: item.priceCents, Currency: currency},
			item.stock,
			item.imageURL,
		)
		if err != nil {
			app.Logger.Fatal().Err(err).Str("product", item.name).Msg("Invalid seed product")
		}
		if err := repo.Save(ctx, p); err != nil {
			app.Logger.Fatal().Err(err).Str("product", item.name).Msg("Failed to seed product")
		}
		app.Logger.Info().
			Str("product_id", p.ID.String()).
			Str("name", p.Name).
			Msg("Seeded product")
	}

	app.Logger.Info().Int("count", len(catalog)).Msg("Catalog seeded")
}
