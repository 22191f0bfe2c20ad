package cmd

import (
	"fmt"
	"strings"

	"country-registry/core/database"
	"country-registry/feature/country/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// verifySchema checks that the country and currency tables carry every column
// the models map. Migrations are managed outside this service.
func verifySchema(db *gorm.DB, l *zap.Logger) error {
	tables := []struct {
		name    string
		columns []string
	}{
		{models.Country{}.TableName(), models.CountryColumns},
		{models.Currency{}.TableName(), models.CurrencyColumns},
	}

	var problems []string
	for _, table := range tables {
		missing, err := database.VerifyColumns(db, table.name, table.columns)
		if err != nil {
			return fmt.Errorf("failed to inspect table %s: %w", table.name, err)
		}
		if len(missing) > 0 {
			l.Error("Table is missing columns", zap.String("table", table.name), zap.Strings("columns", missing))
			problems = append(problems, table.name+"("+strings.Join(missing, ", ")+")")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("database schema incomplete: %s", strings.Join(problems, "; "))
	}
	return nil
}
