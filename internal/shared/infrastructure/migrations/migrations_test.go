package migrations

import (
	"testing"

	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpFiles(t *testing.T) {
	for _, driver := range []database.Driver{database.DriverSQLite, database.DriverPostgres} {
		t.Run(driver.String(), func(t *testing.T) {
			files, err := UpFiles(driver)
			require.NoError(t, err)
			require.NotEmpty(t, files)
			assert.Equal(t, driver.String()+"/000001_tasks.up.sql", files[0])
		})
	}

	_, err := UpFiles(database.Driver("mysql"))
	assert.Error(t, err)
}
