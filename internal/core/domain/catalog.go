package domain

import "github.com/govalues/decimal"

// CoinPackage is a sellable SKU. Reference data, seeded by migration.
type CoinPackage struct {
	ID           string
	Name         string
	Description  string
	PricePerUnit decimal.Decimal
	MinQuantity  int
	MaxQuantity  int
	ImageURL     string
	Active       bool
	Featured     bool
}

// Server is the game shard an order applies to.
type Server struct {
	ID     string
	Name   string
	Active bool
}
