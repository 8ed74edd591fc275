package models

import (
	"log"

	"github.com/sahilgholap007/Inventory-Management/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Order{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
