// Command migrate applies the schema to a database, or prints the compiled
// DDL for a dialect without touching anything.
//
// Usage:
//
//	migrate               apply schema using DATABASE_URL and SCHEMA_DIALECT
//	migrate -print        print the DDL instead of applying it
//	migrate -seed         also load reference data after migrating
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/transit-data-service/internal/config"
	"github.com/smarttransit/transit-data-service/internal/database"
	"github.com/smarttransit/transit-data-service/internal/schema"
	"github.com/smarttransit/transit-data-service/internal/services"
)

func main() {
	printOnly := flag.Bool("print", false, "print the compiled DDL instead of applying it")
	seed := flag.Bool("seed", false, "load reference data after migrating")
	dialectName := flag.String("dialect", "", "override SCHEMA_DIALECT (postgres or oracle)")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	if *printOnly {
		// printing needs no database
		name := *dialectName
		if name == "" {
			name = os.Getenv("SCHEMA_DIALECT")
		}
		if name == "" {
			name = "postgres"
		}
		dialect, err := schema.DialectByName(name)
		if err != nil {
			logger.Fatalf("Failed to resolve dialect: %v", err)
		}
		printDDL(dialect)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	name := cfg.Schema.Dialect
	if *dialectName != "" {
		name = *dialectName
	}
	dialect, err := schema.DialectByName(name)
	if err != nil {
		logger.Fatalf("Failed to resolve dialect: %v", err)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	migrator := schema.NewMigrator(db, dialect)
	if err := migrator.Apply(); err != nil {
		logger.Fatalf("Failed to apply schema: %v", err)
	}
	logger.WithField("dialect", dialect.Name()).Info("Schema applied")

	if *seed {
		seedService := services.NewSeedService(
			database.NewLineRepository(db),
			database.NewStopRepository(db),
			database.NewVehicleRepository(db),
			database.NewDriverRepository(db),
			database.NewAssignmentRepository(db),
			database.NewScheduleRepository(db),
			logger,
		)
		report, err := seedService.Run(services.DefaultSeedLines())
		if err != nil {
			logger.Fatalf("Failed to seed reference data: %v", err)
		}
		logger.WithFields(logrus.Fields{
			"inserted": report.Inserted,
			"skipped":  report.Skipped,
		}).Info("Reference data loaded")
	}
}

func printDDL(d schema.Dialect) {
	for _, stmt := range schema.Statements(d) {
		fmt.Println(stmt + ";")
	}
}
