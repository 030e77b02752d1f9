package db

import (
	"github.com/pkg/errors"

	"github.com/wagewise/wagewise/internal/profile"
	"github.com/wagewise/wagewise/store"
	"github.com/wagewise/wagewise/store/db/postgres"
	"github.com/wagewise/wagewise/store/db/sqlite"
)

// ============================================================================
// DATABASE SUPPORT POLICY
// ============================================================================
// This project supports only PostgreSQL and SQLite databases.
//
// PostgreSQL: Full support for production installations.
// SQLite: Default for demo and development profiles.
// MySQL: NOT SUPPORTED.
// ============================================================================

// NewDBDriver creates new db driver based on profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.New("unknown db driver: only 'postgres' and 'sqlite' are supported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
