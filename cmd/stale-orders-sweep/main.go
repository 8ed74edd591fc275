// stale-orders-sweep marks stored orders still "shipped" more than 30 days
// after their shipping_date as "Lost/Undelivered".
//
// The upload path applies this rule per incoming row; rows that never get
// re-uploaded are only caught by this sweep. Run it out of band (cron or
// manual) so online request semantics stay untouched.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/stale-orders-sweep [-dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sahilgholap007/Inventory-Management/config"
	"github.com/sahilgholap007/Inventory-Management/models"
	"github.com/sahilgholap007/Inventory-Management/utils"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report matching rows without updating them")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	cutoff := utils.DateOnly(time.Now()).AddDate(0, 0, -30)

	if *dryRun {
		var count int64
		err := db.WithContext(ctx).Model(&models.Order{}).
			Where("status = ? AND shipping_date IS NOT NULL AND shipping_date < ?", models.StatusShipped, cutoff).
			Count(&count).Error
		if err != nil {
			fmt.Fprintf(os.Stderr, "count failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%d shipped orders older than %s would be marked '%s'\n", count, cutoff.Format("2006-01-02"), models.StatusLost)
		return
	}

	res := db.WithContext(ctx).Model(&models.Order{}).
		Where("status = ? AND shipping_date IS NOT NULL AND shipping_date < ?", models.StatusShipped, cutoff).
		Update("status", models.StatusLost)
	if res.Error != nil {
		fmt.Fprintf(os.Stderr, "sweep failed: %v\n", res.Error)
		os.Exit(1)
	}
	fmt.Printf("marked %d orders '%s'\n", res.RowsAffected, models.StatusLost)
}
