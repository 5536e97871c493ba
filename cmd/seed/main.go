package main

// Seeds a development database with a small catalog, the two standard
// locations and an initial pool so the API is usable immediately after
// `docker compose up`.

import (
	"os"
	"time"

	"github.com/osama347/general-store-management-system-sub000/internal/config"
	"github.com/osama347/general-store-management-system-sub000/internal/infra"
	"github.com/osama347/general-store-management-system-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.Env == "production" {
		log.Fatal().Msg("refusing to seed a production database")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	locations := []model.Location{
		{ID: uuid.MustParse("5f5e1a02-31c4-4b53-9c3e-5a2f6f1d0001"), Name: "Central Warehouse", Kind: model.KindWarehouse, Active: true},
		{ID: uuid.MustParse("5f5e1a02-31c4-4b53-9c3e-5a2f6f1d0002"), Name: "Main Street Store", Kind: model.KindStore, Active: true},
		{ID: uuid.MustParse("5f5e1a02-31c4-4b53-9c3e-5a2f6f1d0003"), Name: "Riverside Store", Kind: model.KindStore, Active: true},
	}
	products := []model.Product{
		{ID: uuid.MustParse("9b1d7c44-8e21-4f0a-b7aa-3d9e2c4a0001"), Name: "LED Desk Lamp", SKU: "LAMP-001", UnitPrice: decimal.NewFromFloat(34.90), Active: true},
		{ID: uuid.MustParse("9b1d7c44-8e21-4f0a-b7aa-3d9e2c4a0002"), Name: "Cordless Drill 18V", SKU: "DRILL-018", UnitPrice: decimal.NewFromFloat(129.00), Active: true},
		{ID: uuid.MustParse("9b1d7c44-8e21-4f0a-b7aa-3d9e2c4a0003"), Name: "Acoustic Guitar", SKU: "GTR-ACO-01", UnitPrice: decimal.NewFromFloat(249.50), Active: true},
	}

	for _, loc := range locations {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&loc).Error; err != nil {
			log.Fatal().Err(err).Str("location", loc.Name).Msg("seed location")
		}
	}
	for _, p := range products {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&p).Error; err != nil {
			log.Fatal().Err(err).Str("product", p.Name).Msg("seed product")
		}
	}

	// Give each product an initial pool so distribution can be exercised
	// right away.
	for _, p := range products {
		pool := model.PoolRecord{ProductID: p.ID, TotalQuantity: 100, ReservedQuantity: 0}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&pool).Error; err != nil {
			log.Fatal().Err(err).Str("product", p.Name).Msg("seed pool")
		}
	}

	log.Info().
		Int("locations", len(locations)).
		Int("products", len(products)).
		Msg("seed complete")
}
