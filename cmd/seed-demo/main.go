// seed-demo populates a development database with a small demo catalog plus
// sample orders and leads. It assumes the schema is already in place (run
// ./cmd/migrate first) and is destructive: existing dashboard data is wiped.
//
// Usage: go run ./cmd/seed-demo
package main

import (
	"context"
	"log"
	"os"

	"orderdesk/internal/core"
	"orderdesk/internal/db"
	"orderdesk/internal/store"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	log.Println("Clearing dashboard data...")
	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE entity_items, call_logs, status_history, orders, leads, products RESTART IDENTITY CASCADE;
	`)
	if err != nil {
		log.Fatalf("Failed to clear data: %v", err)
	}

	s := store.New(pool)

	log.Println("Seeding product catalog...")
	catalog := []struct {
		name  string
		price string
	}{
		{"Detox Tea 30d", "199.00"},
		{"Posture Belt", "89.50"},
		{"Knee Sleeve Pair", "59.99"},
		{"Neck Pillow", "45.00"},
	}
	productIDs := make(map[string]int)
	for _, p := range catalog {
		created, err := s.CreateProduct(ctx, p.name, mustDecimal(p.price))
		if err != nil {
			log.Fatalf("Failed to create product %s: %v", p.name, err)
		}
		productIDs[p.name] = created.ID
	}

	log.Println("Seeding orders...")
	teaID := productIDs["Detox Tea 30d"]
	beltID := productIDs["Posture Belt"]
	order, err := s.CreateOrder(ctx, store.CreateOrderInput{
		Customer: core.CustomerFields{
			Name:       "Sara Benali",
			Phone:      "+212600000001",
			Address:    "12 Rue des Orangers",
			City:       "Casablanca",
			PostalCode: "20000",
		},
		InitialItem: &core.ItemInput{ProductID: &teaID, ProductName: "Detox Tea 30d", Quantity: 2, UnitPrice: mustDecimal("199.00")},
	})
	if err != nil {
		log.Fatalf("Failed to create order: %v", err)
	}
	if _, err := s.InsertCallLog(ctx, core.KindOrder, order.ID, core.OutcomeInterested, "asked about delivery time"); err != nil {
		log.Fatalf("Failed to log call: %v", err)
	}

	// One pre-migration row using the single-product columns, to exercise the
	// legacy normalization path on load.
	_, err = pool.Exec(ctx, `
		INSERT INTO orders (number, customer_name, phone, address, city, status,
		                    legacy_product_name, legacy_quantity, legacy_unit_price)
		VALUES ('ORD-LEGCY', 'Hicham Alaoui', '0522334455', '3 Bd Zerktouni', 'Marrakech', 'pending',
		        'Slimming Patch', 3, 49.90)
	`)
	if err != nil {
		log.Fatalf("Failed to insert legacy order: %v", err)
	}

	log.Println("Seeding leads...")
	lead, err := s.CreateLead(ctx, store.CreateLeadInput{
		Customer: core.CustomerFields{
			Name:    "Youssef Karimi",
			Phone:   "0661234567",
			Address: "4 Avenue Hassan II",
			City:    "Rabat",
		},
		InitialItem: &core.ItemInput{ProductID: &beltID, ProductName: "Posture Belt", Quantity: 1, UnitPrice: mustDecimal("89.50")},
	})
	if err != nil {
		log.Fatalf("Failed to create lead: %v", err)
	}
	if _, err := s.InsertCallLog(ctx, core.KindLead, lead.ID, core.OutcomeNoAnswer, ""); err != nil {
		log.Fatalf("Failed to log call: %v", err)
	}

	log.Printf("Done: %s and %s are ready.", order.Number, lead.Number)
}

func mustDecimal(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		log.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return v
}
