// Package seed loads the demo catalog.
package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/flicky/toolstore/internal/model"
	"github.com/flicky/toolstore/internal/repository"
)

type product struct {
	name, slug, description string
	price, originalPrice    string
	imageURL                string
	category                string
	featured, bestSelling   bool
}

var categories = []model.Category{
	{Name: "Bathroom Hardware", Slug: "bathroom-hardware", Icon: "wrench", Description: "Essential bathroom hardware and fixtures"},
	{Name: "Car Accessories", Slug: "car-accessories", Icon: "car", Description: "Automotive tools and accessories"},
	{Name: "Computer Hardware", Slug: "computer-hardware", Icon: "monitor", Description: "Computer parts and accessories"},
	{Name: "Cooling Machine", Slug: "cooling-machine", Icon: "fan", Description: "Cooling and ventilation equipment"},
	{Name: "Electrical Tool", Slug: "electrical-tool", Icon: "plug", Description: "Electrical tools and equipment"},
	{Name: "Gardening Tools", Slug: "gardening-tools", Icon: "leaf", Description: "Garden and landscaping tools"},
	{Name: "Hand Tools", Slug: "hand-tools", Icon: "tools", Description: "Manual hand tools for various tasks"},
	{Name: "Home Appliances", Slug: "home-appliances", Icon: "blender", Description: "Household appliances and equipment"},
	{Name: "Lights Accessories", Slug: "lights-accessories", Icon: "lightbulb", Description: "Lighting equipment and accessories"},
	{Name: "Motorcycle Accessories", Slug: "motorcycle-accessories", Icon: "motorcycle", Description: "Motorcycle tools and accessories"},
	{Name: "Power Tools", Slug: "power-tools", Icon: "hammer", Description: "Electric and battery-powered tools"},
	{Name: "Safety Welding Equipment", Slug: "safety-welding-equipment", Icon: "hard-hat", Description: "Welding and safety equipment"},
}

const unsplash = "https://images.unsplash.com/"

var products = []product{
	{"Gasoline Chainsaw", "gasoline-chainsaw", "Professional gasoline chainsaw for heavy-duty cutting tasks",
		"5000.00", "5500.00", unsplash + "photo-1583416750470-965b2707b355?auto=format&fit=crop&w=400&h=300", "power-tools", true, true},
	{"Professional Power Drill", "professional-power-drill", "Heavy-duty power drill for construction and DIY projects",
		"6000.00", "7500.00", unsplash + "photo-1572981779307-38b8cabb2407?auto=format&fit=crop&w=400&h=300", "power-tools", true, false},
	{"Table Saw", "table-saw", "Professional table saw for precise woodworking",
		"5000.00", "4500.00", unsplash + "photo-1504148455328-d24b4ee17887?auto=format&fit=crop&w=400&h=300", "power-tools", false, true},
	{"High Pressure Washer", "high-pressure-washer", "High pressure washer for cleaning various surfaces",
		"5000.00", "6000.00", unsplash + "photo-1558618666-fcd25c85cd64?auto=format&fit=crop&w=400&h=300", "home-appliances", false, true},
	{"Kitchen Stand Mixer", "kitchen-stand-mixer", "Professional kitchen stand mixer for baking and cooking",
		"7000.00", "8500.00", unsplash + "photo-1556909114-f6e7ad7d3136?auto=format&fit=crop&w=400&h=300", "home-appliances", true, false},
	{"Switch Sticks Cane", "switch-sticks-cane", "Walking stick and mobility cane for support",
		"5000.00", "3000.00", unsplash + "photo-1631044797825-a24e23c9076d?auto=format&fit=crop&w=400&h=300", "hand-tools", false, true},
	{"Complete Tool Set", "complete-tool-set", "Comprehensive hand tool set for DIY projects",
		"3500.00", "4500.00", unsplash + "photo-1504148455328-d24b4ee17887?auto=format&fit=crop&w=400&h=300", "hand-tools", true, false},
	{"Lawn Mower", "lawn-mower", "Professional lawn mower for garden maintenance",
		"10000.00", "12000.00", unsplash + "photo-1416879595882-3373a0480b5b?auto=format&fit=crop&w=400&h=300", "gardening-tools", true, false},
	{"Electric Drill Set", "electric-drill-set", "Cordless electric drill with multiple bits",
		"4500.00", "5200.00", unsplash + "photo-1504148455328-d24b4ee17887?auto=format&fit=crop&w=400&h=300", "power-tools", false, false},
	{"Tool Storage Box", "tool-storage-box", "Heavy-duty storage box for organizing tools",
		"2500.00", "3000.00", unsplash + "photo-1558618666-fcd25c85cd64?auto=format&fit=crop&w=400&h=300", "hand-tools", false, false},
	{"Hammer Set", "hammer-set", "Professional hammer set for construction work",
		"1800.00", "2200.00", unsplash + "photo-1504148455328-d24b4ee17887?auto=format&fit=crop&w=400&h=300", "hand-tools", false, false},
	{"Garden Hose", "garden-hose", "Heavy-duty garden hose for watering plants",
		"1200.00", "1500.00", unsplash + "photo-1416879595882-3373a0480b5b?auto=format&fit=crop&w=400&h=300", "gardening-tools", false, false},
}

// Result lists what a run wrote.
type Result struct {
	Categories int
	ProductIDs []int64
}

// Run upserts the demo categories and products by slug. It is safe to run
// repeatedly and never deletes rows.
func Run(ctx context.Context, categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) (*Result, error) {
	categoryIDs := make(map[string]int64, len(categories))
	for _, c := range categories {
		if err := categoryRepo.Upsert(ctx, &c); err != nil {
			return nil, fmt.Errorf("seed category %s: %w", c.Slug, err)
		}
		categoryIDs[c.Slug] = c.ID
	}

	res := &Result{Categories: len(categoryIDs)}
	for _, p := range products {
		categoryID, ok := categoryIDs[p.category]
		if !ok {
			return nil, fmt.Errorf("seed product %s: unknown category %s", p.slug, p.category)
		}
		row := &model.Product{
			Name:          p.name,
			Slug:          p.slug,
			Description:   p.description,
			Price:         decimal.RequireFromString(p.price),
			OriginalPrice: decimal.NewNullDecimal(decimal.RequireFromString(p.originalPrice)),
			ImageURL:      p.imageURL,
			CategoryID:    &categoryID,
			InStock:       true,
			Featured:      p.featured,
			BestSelling:   p.bestSelling,
		}
		if err := productRepo.Upsert(ctx, row); err != nil {
			return nil, fmt.Errorf("seed product %s: %w", p.slug, err)
		}
		res.ProductIDs = append(res.ProductIDs, row.ID)
	}
	return res, nil
}
