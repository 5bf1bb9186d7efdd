package catalog

import "github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/domain"

func usd(amount string) domain.Price {
	return domain.Price{Amount: amount, Currency: "USD"}
}

// fixtureProducts is the demo Acme apparel catalog.
var fixtureProducts = []domain.CatalogItem{
	{
		ID:               "mock-1",
		Handle:           "acme-t-shirt",
		Title:            "Acme T-Shirt",
		Description:      "A comfortable cotton t-shirt with the Acme logo. Perfect for everyday wear.",
		Price:            usd("25.00"),
		AvailableForSale: true,
		Tags:             []string{"clothing", "t-shirt", "casual", "cotton"},
	},
	{
		ID:               "mock-2",
		Handle:           "acme-hoodie",
		Title:            "Acme Hoodie",
		Description:      "Stay warm with this premium hoodie featuring the Acme logo. Made from soft fleece material. Perfect for winter, fall, and cold weather.",
		Price:            usd("55.00"),
		AvailableForSale: true,
		Tags:             []string{"clothing", "hoodie", "warm", "fleece", "winter", "fall", "cold-weather"},
	},
	{
		ID:               "mock-3",
		Handle:           "acme-cap",
		Title:            "Acme Cap",
		Description:      "A classic baseball cap with an embroidered Acme logo. Adjustable strap for a comfortable fit.",
		Price:            usd("20.00"),
		AvailableForSale: true,
		Tags:             []string{"accessories", "cap", "hat", "casual"},
	},
	{
		ID:               "mock-4",
		Handle:           "acme-mug",
		Title:            "Acme Mug",
		Description:      "Start your morning right with this ceramic Acme mug. Holds 12oz of your favorite beverage.",
		Price:            usd("15.00"),
		AvailableForSale: true,
		Tags:             []string{"accessories", "mug", "kitchen", "ceramic"},
	},
	{
		ID:               "mock-5",
		Handle:           "acme-backpack",
		Title:            "Acme Backpack",
		Description:      "A durable backpack with padded laptop compartment and multiple pockets. Great for work, school, or travel.",
		Price:            usd("75.00"),
		AvailableForSale: true,
		Tags:             []string{"accessories", "backpack", "bag", "travel"},
	},
	{
		ID:               "mock-6",
		Handle:           "acme-water-bottle",
		Title:            "Acme Water Bottle",
		Description:      "Insulated stainless steel water bottle that keeps drinks cold for 24 hours or hot for 12 hours.",
		Price:            usd("30.00"),
		AvailableForSale: false,
		Tags:             []string{"accessories", "bottle", "hydration", "steel"},
	},
	{
		ID:               "mock-7",
		Handle:           "acme-v-neck-tee",
		Title:            "Acme V-Neck Tee",
		Description:      "A lightweight v-neck tee in breathable cotton. Ideal for summer and hot weather.",
		Price:            usd("27.00"),
		AvailableForSale: true,
		Tags:             []string{"clothing", "t-shirt", "summer", "lightweight", "breathable"},
	},
	{
		ID:               "mock-8",
		Handle:           "acme-zip-hoodie",
		Title:            "Acme Zip Hoodie",
		Description:      "A full-zip hoodie in heavyweight fleece with front pockets. Layers well over tees in cold weather.",
		Price:            usd("60.00"),
		AvailableForSale: true,
		Tags:             []string{"clothing", "hoodie", "warm", "fleece", "winter", "zip"},
	},
	{
		ID:               "mock-9",
		Handle:           "acme-beanie",
		Title:            "Acme Beanie",
		Description:      "A snug knit beanie to keep your head warm through winter. One size fits most.",
		Price:            usd("18.00"),
		AvailableForSale: true,
		Tags:             []string{"accessories", "beanie", "hat", "warm", "winter", "knit"},
	},
	{
		ID:               "mock-10",
		Handle:           "acme-tote-bag",
		Title:            "Acme Tote Bag",
		Description:      "A roomy canvas tote bag for groceries, books, or beach days. Reinforced handles.",
		Price:            usd("22.00"),
		AvailableForSale: true,
		Tags:             []string{"accessories", "bag", "tote", "canvas"},
	},
	{
		ID:               "mock-11",
		Handle:           "acme-socks",
		Title:            "Acme Socks (3-Pack)",
		Description:      "Three pairs of cushioned crew socks with the Acme stripe. Soft combed cotton blend.",
		Price:            usd("16.00"),
		AvailableForSale: true,
		Tags:             []string{"clothing", "socks", "casual", "cotton"},
	},
	{
		ID:               "mock-12",
		Handle:           "acme-travel-mug",
		Title:            "Acme Travel Mug",
		Description:      "A leak-proof insulated travel mug that fits standard cup holders. Keeps coffee hot on the go.",
		Price:            usd("28.00"),
		AvailableForSale: true,
		Tags:             []string{"accessories", "mug", "travel", "insulated"},
	},
}
