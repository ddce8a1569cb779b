package usecase

import (
	"context"
	"fmt"

	"catalog_admin/internal/domain"
)

type seedProduct struct {
	name        string
	description string
	price       float64
	image       string
	category    string
}

var seedCategories = []string{"Welding Machines", "Electrodes", "Safety Gear"}

var seedProducts = []seedProduct{
	{"Inverter MMA-200", "200A inverter welder", 4500000, "https://picsum.photos/seed/mma200/200", "Welding Machines"},
	{"TIG-250 Pulse", "AC/DC pulse TIG welder", 12900000, "https://picsum.photos/seed/tig250/200", "Welding Machines"},
	{"MIG-350 Pro", "Gas shielded MIG welder", 18500000, "https://picsum.photos/seed/mig350/200", "Welding Machines"},
	{"Plasma Cutter CUT-60", "60A air plasma cutter", 9800000, "https://picsum.photos/seed/cut60/200", "Welding Machines"},
	{"E6013 2.5mm", "Rutile electrode, 5kg box", 210000, "https://picsum.photos/seed/e6013/200", "Electrodes"},
	{"E7018 3.2mm", "Low hydrogen electrode, 5kg box", 320000, "https://picsum.photos/seed/e7018/200", "Electrodes"},
	{"ER70S-6 Wire 1.0mm", "Copper coated MIG wire, 15kg spool", 650000, "https://picsum.photos/seed/er70s/200", "Electrodes"},
	{"Tungsten Rod 2.4mm", "Ceriated tungsten, pack of 10", 280000, "https://picsum.photos/seed/tungsten/200", "Electrodes"},
	{"Auto-Darkening Helmet", "DIN 9-13 shade helmet", 890000, "https://picsum.photos/seed/helmet/200", "Safety Gear"},
	{"Leather Gloves", "Heat resistant welding gloves", 150000, "https://picsum.photos/seed/gloves/200", "Safety Gear"},
	{"Welding Jacket", "Flame retardant cotton jacket", 540000, "https://picsum.photos/seed/jacket/200", "Safety Gear"},
	{"Safety Glasses", "Shade 5 gas welding glasses", 95000, "https://picsum.photos/seed/glasses/200", "Safety Gear"},
}

// SeedCatalog fills an empty catalog with demo data. It is a no-op when any
// category already exists.
func SeedCatalog(ctx context.Context, categories CategoryUseCase, products ProductUseCase) error {
	existing, err := categories.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("could not inspect catalog before seeding: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	ids := make(map[string]int, len(seedCategories))
	for _, name := range seedCategories {
		created, err := categories.CreateCategory(ctx, &domain.Category{Name: name})
		if err != nil {
			return fmt.Errorf("could not seed category %q: %w", name, err)
		}
		ids[name] = created.ID
	}

	for _, p := range seedProducts {
		_, err := products.CreateProduct(ctx, &domain.Product{
			Name:        p.name,
			Description: p.description,
			Price:       p.price,
			Image:       p.image,
			CategoryID:  ids[p.category],
		})
		if err != nil {
			return fmt.Errorf("could not seed product %q: %w", p.name, err)
		}
	}
	return nil
}
