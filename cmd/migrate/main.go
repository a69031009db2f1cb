package main

import (
	"errors"
	"os"

	"medibook/config"
	"medibook/internal/infrastructure/database"
	"medibook/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

const usage = "usage: migrate up|down|version"

func main() {
	if len(os.Args) < 2 {
		logrus.Fatal(usage)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		logrus.Fatalf("Failed to open migrations: %v", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, database.MigrationURL(cfg.DB))
	if err != nil {
		logrus.Fatalf("Failed to init migrator: %v", err)
	}
	defer m.Close()

	switch os.Args[1] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "version":
		version, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			logrus.Fatalf("Failed to read version: %v", verr)
		}
		logrus.Infof("Schema version %d (dirty=%t)", version, dirty)
		return
	default:
		logrus.Fatal(usage)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logrus.Fatalf("Migration %s failed: %v", os.Args[1], err)
	}
	logrus.Infof("Migration %s complete", os.Args[1])
}
