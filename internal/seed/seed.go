package seed

import (
	"errors"
	"fmt"

	"nexusstore/internal/models"
	"nexusstore/internal/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminEmail is the seeded operator account.
const AdminEmail = "admin@example.com"

const adminPassword = "admin123"

// catalog is the initial dataset. Seeding is idempotent: existing SKUs
// are left untouched.
var catalog = []models.Product{
	{
		Name:        "Wireless Noise-Canceling Headphones",
		Description: "Premium over-ear headphones with 40-hour battery life and immersive sound quality.",
		Price:       299.99,
		Stock:       45,
		SKU:         "AUDIO-WH-1000",
		Status:      models.StatusActive,
		Category:    "Electronics",
		ImageURL:    "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=800&q=80",
	},
	{
		Name:        "Ergonomic Office Chair",
		Description: "Adjustable mesh chair with lumbar support, perfect for long working hours.",
		Price:       189.50,
		Stock:       12,
		SKU:         "FURN-CHR-ERGO",
		Status:      models.StatusActive,
		Category:    "Furniture",
		ImageURL:    "https://images.unsplash.com/photo-1505843490538-5133c6c7d0e1?w=800&q=80",
	},
	{
		Name:        "Smart Fitness Watch",
		Description: "Tracks heart rate, steps, and sleep. Water-resistant and compatible with iOS/Android.",
		Price:       129.00,
		Stock:       88,
		SKU:         "WEAR-WATCH-S2",
		Status:      models.StatusActive,
		Category:    "Wearables",
		ImageURL:    "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=800&q=80",
	},
	{
		Name:        "Mechanical Gaming Keyboard",
		Description: "RGB backlit keyboard with tactile switches for precision gaming and typing.",
		Price:       89.99,
		Stock:       34,
		SKU:         "TECH-KB-MECH",
		Status:      models.StatusActive,
		Category:    "Electronics",
		ImageURL:    "https://images.unsplash.com/photo-1587829741301-dc798b91add1?w=800&q=80",
	},
	{
		Name:        "Ceramic Coffee Mug Set",
		Description: "Set of 4 handcrafted ceramic mugs, microwave and dishwasher safe.",
		Price:       35.00,
		Stock:       150,
		SKU:         "HOME-MUG-SET4",
		Status:      models.StatusDraft,
		Category:    "Home & Kitchen",
		ImageURL:    "https://images.unsplash.com/photo-1514228742587-6b1558fcca3d?w=800&q=80",
	},
	{
		Name:        "Vegan Leather Backpack",
		Description: "Stylish and durable backpack with laptop compartment and multiple pockets.",
		Price:       65.00,
		Stock:       20,
		SKU:         "ACC-BAG-LEATHER",
		Status:      models.StatusActive,
		Category:    "Accessories",
		ImageURL:    "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=800&q=80",
	},
	{
		Name:        "4K Ultra HD Monitor",
		Description: "27-inch IPS display with HDR support, ideal for designers and gamers.",
		Price:       349.99,
		Stock:       8,
		SKU:         "TECH-MON-4K",
		Status:      models.StatusArchived,
		Category:    "Electronics",
		ImageURL:    "https://images.unsplash.com/photo-1527443224154-c4a3942d3acf?w=800&q=80",
	},
	{
		Name:        "Organic Green Tea",
		Description: "Premium loose-leaf green tea sourced from sustainable farms.",
		Price:       15.99,
		Stock:       200,
		SKU:         "GROC-TEA-GRN",
		Status:      models.StatusActive,
		Category:    "Groceries",
		ImageURL:    "https://images.unsplash.com/photo-1627435601361-ec25f5b1d0e5?w=800&q=80",
	},
	{
		Name:        "Portable Bluetooth Speaker",
		Description: "Compact speaker with deep bass and waterproof design for outdoor use.",
		Price:       49.99,
		Stock:       60,
		SKU:         "AUDIO-SPK-BT",
		Status:      models.StatusActive,
		Category:    "Electronics",
		ImageURL:    "https://images.unsplash.com/photo-1608043152269-423dbba4e7e1?w=800&q=80",
	},
	{
		Name:        "Yoga Mat",
		Description: "Non-slip, eco-friendly yoga mat with extra cushioning for joint support.",
		Price:       24.50,
		Stock:       75,
		SKU:         "FIT-MAT-YOGA",
		Status:      models.StatusActive,
		Category:    "Fitness",
		ImageURL:    "https://images.unsplash.com/photo-1601925260368-ae2f83cf8b7f?w=800&q=80",
	},
}

// Run populates the store with the initial catalog and the admin user.
// Records that already exist are skipped, so running it on every start is
// safe.
func Run(products repositories.ProductRepository, users repositories.UserRepository, log *zap.Logger) error {
	seeded := 0
	for i := range catalog {
		product := catalog[i]
		_, err := products.GetBySKU(product.SKU)
		if err == nil {
			continue
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("failed to check seed product %s: %w", product.SKU, err)
		}
		if err := products.Create(&product); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", product.SKU, err)
		}
		seeded++
	}

	if _, err := users.GetByEmail(AdminEmail); err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("failed to check admin user: %w", err)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), 12)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		admin := models.User{
			Email:    AdminEmail,
			Name:     "Admin User",
			Password: string(hashed),
			Role:     "ADMIN",
		}
		if err := users.Create(&admin); err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
	}

	log.Info("seeding finished", zap.Int("products_seeded", seeded))
	return nil
}
