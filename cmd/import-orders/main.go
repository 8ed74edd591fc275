// import-orders bulk-imports order-tracking xlsx files from local disk
// through the same normalization/upsert path as the /upload endpoint.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/import-orders file1.xlsx [file2.xlsx ...]
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sahilgholap007/Inventory-Management/config"
	"github.com/sahilgholap007/Inventory-Management/models"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: import-orders <file.xlsx> [more.xlsx ...]")
		os.Exit(2)
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	// Files concatenate in argument order, rows in sheet order, matching
	// the upload endpoint.
	var records []*models.Order
	for _, path := range os.Args[1:] {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not open %s: %v\n", path, err)
			os.Exit(1)
		}
		fileRecords, err := models.ParseOrderWorkbook(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not parse %s: %v\n", path, err)
			os.Exit(1)
		}
		records = append(records, fileRecords...)
	}

	count, err := models.ImportOrders(ctx, records, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "import aborted after %d of %d records: %v\n", count, len(records), err)
		os.Exit(1)
	}
	fmt.Printf("imported %d records\n", count)
}
