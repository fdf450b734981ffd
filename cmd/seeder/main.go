package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/foxxcyber/meal-cart/internal/config"
	"github.com/foxxcyber/meal-cart/internal/database"
	"github.com/foxxcyber/meal-cart/internal/logging"
	"github.com/foxxcyber/meal-cart/internal/models"
	"github.com/foxxcyber/meal-cart/internal/services"
)

// duplicate is a catalogue row skipped because it matches a known ingredient
type duplicate struct {
	Label      string
	Existing   string
	Confidence float64
}

func main() {
	// Command line flags
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing to database")
	file := flag.String("file", "", "CSV file with label,aisle columns (reads stdin when empty)")
	threshold := flag.Float64("threshold", 0, "Duplicate similarity threshold (defaults to DUPLICATE_THRESHOLD)")
	flag.Parse()

	godotenv.Load()
	cfg := config.Load()

	zlog, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	var reader io.Reader = os.Stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			zlog.Fatal("failed to open catalogue file", zap.Error(err))
		}
		defer f.Close()
		reader = f
	}

	rows, err := parseCatalogue(reader, zlog)
	if err != nil {
		zlog.Fatal("failed to parse catalogue", zap.Error(err))
	}

	db, err := database.Connect(cfg.DatabaseURL, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	existing, err := db.ListIngredients(ctx)
	if err != nil {
		zlog.Fatal("failed to load ingredient catalogue", zap.Error(err))
	}

	if *threshold == 0 {
		*threshold = cfg.DuplicateThreshold
	}
	fresh, dups := dedupe(rows, existing, services.NewIngredientMatcher(*threshold))
	for _, d := range dups {
		zlog.Info("skipping duplicate",
			zap.String("label", d.Label),
			zap.String("existing", d.Existing),
			zap.Float64("confidence", d.Confidence),
		)
	}

	if *dryRun {
		printPreview(fresh, 20)
		return
	}

	imported, err := importIngredients(ctx, db, fresh)
	if err != nil {
		zlog.Fatal("failed to import ingredients", zap.Error(err))
	}

	zlog.Info("import complete", zap.Int("imported", imported), zap.Int("duplicates", len(dups)))
}

// parseCatalogue reads label,aisle rows. Rows with an empty label are skipped;
// an unknown aisle is dropped.
func parseCatalogue(r io.Reader, zlog *zap.Logger) ([]models.CreateIngredientRequest, error) {
	csvReader := csv.NewReader(bufio.NewReader(r))
	csvReader.FieldsPerRecord = -1

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	labelCol, ok := colMap["label"]
	if !ok {
		return nil, fmt.Errorf("CSV header has no label column")
	}
	aisleCol, hasAisle := colMap["aisle"]

	var rows []models.CreateIngredientRequest
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			zlog.Warn("skipping malformed row", zap.Error(err))
			continue
		}
		if labelCol >= len(record) {
			continue
		}

		label := strings.TrimSpace(record[labelCol])
		if label == "" {
			continue
		}

		req := models.CreateIngredientRequest{Label: label}
		if hasAisle && aisleCol < len(record) {
			aisle := models.Aisle(strings.ToUpper(strings.TrimSpace(record[aisleCol])))
			if aisle.Valid() {
				req.Aisle = &aisle
			} else if aisle != "" {
				zlog.Warn("unknown aisle", zap.String("label", label), zap.String("aisle", string(aisle)))
			}
		}
		rows = append(rows, req)
	}

	return rows, nil
}

// dedupe drops rows matching the existing catalogue or an earlier row of the file
func dedupe(rows []models.CreateIngredientRequest, existing []models.Ingredient, matcher *services.IngredientMatcher) ([]models.CreateIngredientRequest, []duplicate) {
	known := append([]models.Ingredient(nil), existing...)

	var fresh []models.CreateIngredientRequest
	var dups []duplicate
	for _, row := range rows {
		if match, confidence, ok := matcher.FindDuplicate(row.Label, known); ok {
			dups = append(dups, duplicate{Label: row.Label, Existing: match.Label, Confidence: confidence})
			continue
		}
		fresh = append(fresh, row)
		known = append(known, models.Ingredient{Label: row.Label, Aisle: row.Aisle})
	}

	return fresh, dups
}

// importIngredients writes rows in batches, one transaction per batch
func importIngredients(ctx context.Context, db *database.DB, rows []models.CreateIngredientRequest) (int, error) {
	batchSize := 500
	imported := 0

	for i := 0; i < len(rows); i += batchSize {
		end := min(i+batchSize, len(rows))

		created, err := db.CreateIngredients(ctx, rows[i:end])
		if err != nil {
			return imported, err
		}
		imported += len(created)
	}

	return imported, nil
}

// printPreview shows a sample of the data to be imported
func printPreview(rows []models.CreateIngredientRequest, limit int) {
	fmt.Println("\n=== Preview of ingredients to import ===")
	fmt.Printf("Total: %d ingredients\n\n", len(rows))

	for i, row := range rows {
		if i >= limit {
			break
		}
		aisle := "-"
		if row.Aisle != nil {
			aisle = string(*row.Aisle)
		}
		fmt.Printf("  %-30s %s\n", row.Label, aisle)
	}
}
