package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	database "github.com/tripwiseai/go-trip-planner/app/db"
	"github.com/tripwiseai/go-trip-planner/config"
	generativeAI "github.com/tripwiseai/go-trip-planner/internal/api/generative_ai"
)

type seedHotel struct {
	Name         string   `json:"name"`
	City         string   `json:"city"`
	Rating       string   `json:"rating"`
	NightlyPrice string   `json:"nightly_price"`
	TotalPrice   string   `json:"total_price"`
	KeyAmenities []string `json:"key_amenities"`
	BookingLink  string   `json:"booking_link"`
}

const embedBatchSize = 20

func main() {
	ctx := context.Background()

	inputPath := flag.String("input", "data/hotels.json", "path to the hotels JSON file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	dbpool, err := pgxpool.New(ctx, dbConfig.ConnectionURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Connected to database successfully")

	embeddingService, err := generativeAI.NewEmbeddingService(ctx, cfg.Gemini.EmbeddingModel, logger)
	if err != nil {
		log.Fatalf("Failed to create embedding service: %v", err)
	}

	raw, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Failed to read hotels file %s: %v", *inputPath, err)
	}

	var hotelsToSeed []seedHotel
	if err := json.Unmarshal(raw, &hotelsToSeed); err != nil {
		log.Fatalf("Failed to parse hotels file: %v", err)
	}
	logger.Info("Loaded hotels for seeding", slog.Int("count", len(hotelsToSeed)))

	inserted := 0
	for start := 0; start < len(hotelsToSeed); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(hotelsToSeed) {
			end = len(hotelsToSeed)
		}
		batch := hotelsToSeed[start:end]

		texts := make([]string, len(batch))
		for i, h := range batch {
			texts[i] = documentText(h)
		}

		embeddings, err := embeddingService.GenerateEmbeddings(ctx, texts)
		if err != nil {
			log.Fatalf("Failed to generate embeddings for batch starting at %d: %v", start, err)
		}

		for i, h := range batch {
			_, err := dbpool.Exec(ctx, `
				INSERT INTO hotels (name, city, rating, nightly_price, total_price, key_amenities, booking_link, embedding)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8::vector)`,
				h.Name, h.City, h.Rating, h.NightlyPrice, h.TotalPrice, h.KeyAmenities, h.BookingLink,
				vectorLiteral(embeddings[i]),
			)
			if err != nil {
				logger.Error("Failed to insert hotel",
					slog.String("name", h.Name),
					slog.Any("error", err))
				continue
			}
			inserted++
		}
		logger.Info("Seeded batch", slog.Int("from", start), slog.Int("to", end))
	}

	logger.Info("Hotel seeding complete", slog.Int("inserted", inserted))
}

// documentText builds the text embedded for each hotel. The phrasing mirrors
// the retrieval query built at search time so that both sides of the cosine
// comparison live in the same part of the embedding space.
func documentText(h seedHotel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, hotel in %s", h.Name, h.City)
	if h.Rating != "" {
		fmt.Fprintf(&b, ", rating %s", h.Rating)
	}
	if h.NightlyPrice != "" {
		fmt.Fprintf(&b, ", nightly price %s", h.NightlyPrice)
	}
	if len(h.KeyAmenities) > 0 {
		fmt.Fprintf(&b, ", amenities: %s", strings.Join(h.KeyAmenities, ", "))
	}
	return b.String()
}

func vectorLiteral(v []float32) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = fmt.Sprintf("%f", f)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
