package store

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DriverFactory opens a gorm.Dialector for a DSN
type DriverFactory func(dsn string) gorm.Dialector

var driverFactories = map[string]DriverFactory{
	"sqlite":     sqlite.Open,
	"postgres":   postgres.Open,
	"postgresql": postgres.Open,
}

// GetDialector returns the dialector for driver, matched case-insensitively.
func GetDialector(driver, dsn string) (gorm.Dialector, error) {
	factory, ok := driverFactories[strings.ToLower(strings.TrimSpace(driver))]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	if dsn == "" {
		return nil, fmt.Errorf("empty DSN for database driver %s", driver)
	}
	return factory(dsn), nil
}
