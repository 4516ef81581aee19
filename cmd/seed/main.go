package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ikkim/fyyur-backend/config"
	"github.com/ikkim/fyyur-backend/internal/db"
	"github.com/ikkim/fyyur-backend/internal/spreadsheet"
	"github.com/ikkim/fyyur-backend/pkg/logger"
)

// Imports venues, artists and shows from an XLSX workbook. Each of the
// Venues, Artists and Shows sheets is optional and is written in its own
// transaction; shows refer to venues and artists by name.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> [-y]")
	}

	filePath := os.Args[1]
	assumeYes := len(os.Args) > 2 && os.Args[2] == "-y"

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Initialize(logger.Config{
		Level:       "info",
		Format:      "console",
		EnableColor: true,
	})

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	file, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer file.Close()

	wb, err := spreadsheet.ReadWorkbook(file)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Rows to import: %d venues, %d artists, %d shows\n", len(wb.Venues), len(wb.Artists), len(wb.Shows))
	if len(wb.Venues)+len(wb.Artists)+len(wb.Shows) == 0 {
		fmt.Println("Nothing to import.")
		return
	}

	if !assumeYes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(db.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	result, err := spreadsheet.NewImporter(db.GetDB()).Import(context.Background(), wb)
	if result != nil {
		fmt.Printf("Imported: %d venues, %d artists, %d shows\n", result.Venues, result.Artists, result.Shows)
	}
	if err != nil {
		log.Fatal("Import stopped:", err)
	}

	fmt.Println("Import completed successfully!")
}
