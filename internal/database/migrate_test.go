package database

import (
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationSources(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres"} {
		t.Run(driver, func(t *testing.T) {
			src, err := iofs.New(migrationFS, "migrations/"+driver)
			require.NoError(t, err)
			defer src.Close()

			var versions []uint
			v, err := src.First()
			for err == nil {
				versions = append(versions, v)
				// up と down が揃っていること
				up, _, upErr := src.ReadUp(v)
				require.NoError(t, upErr, "missing up migration for version %d", v)
				up.Close()
				down, _, downErr := src.ReadDown(v)
				require.NoError(t, downErr, "missing down migration for version %d", v)
				down.Close()

				v, err = src.Next(v)
			}
			assert.Equal(t, []uint{1, 2, 3}, versions)
		})
	}
}

func TestMigrate_UnsupportedDriver(t *testing.T) {
	assert.Error(t, Migrate("sqlite", "file::memory:"))
}
