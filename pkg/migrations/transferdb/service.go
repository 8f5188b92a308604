// Package transferdb holds all the migrations for the transfer indexer database
package transferdb

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations is the collection of all migrations for the transfer indexer database
var Migrations = migrate.NewMigrations()
