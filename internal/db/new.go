package db

import (
	"fmt"

	"github.com/pelangilabs/rainbowd/internal/db/mongodb"
	"github.com/pelangilabs/rainbowd/internal/db/sqlite"
	"github.com/pelangilabs/rainbowd/internal/models"
)

// New creates a hybrid database from the configured SQL and NoSQL backends.
func New(sqlConfig, nosqlConfig *models.Config) (Database, error) {
	var sqlDB SQLDatabase
	switch sqlConfig.Provider {
	case "sqlite":
		s, err := sqlite.New(sqlConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create sqlite database: %w", err)
		}
		sqlDB = s
	default:
		return nil, fmt.Errorf("unsupported SQL database provider: %s", sqlConfig.Provider)
	}

	var nosqlDB NoSQLDatabase
	switch nosqlConfig.Provider {
	case "mongodb":
		m, err := mongodb.New(nosqlConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create mongodb database: %w", err)
		}
		nosqlDB = m
	default:
		return nil, fmt.Errorf("unsupported NoSQL database provider: %s", nosqlConfig.Provider)
	}

	return NewHybrid(sqlDB, nosqlDB), nil
}
