package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, BackendFile, cfg.Storage.Backend)
	require.Equal(t, "data/snapshot.json", cfg.Storage.SnapshotPath)
	require.Equal(t, "data/seed.json", cfg.Storage.SeedPath)
	require.False(t, cfg.SheetsEnabled())
}

func TestValidateBackend(t *testing.T) {
	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	cfg.Storage.Backend = "redis"
	require.Error(t, cfg.Validate())

	cfg.Storage.Backend = BackendMongoDB
	cfg.MongoDB.URI = ""
	require.Error(t, cfg.Validate())

	cfg.MongoDB.URI = "mongodb://localhost:27017"
	cfg.MongoDB.DBName = "stoktrack"
	require.NoError(t, cfg.Validate())
}

func TestValidateSheetsAllOrNothing(t *testing.T) {
	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	cfg.Sheets.CredentialsPath = "credentials.json"
	require.Error(t, cfg.Validate())

	cfg.Sheets.SpreadsheetID = "sheet-id"
	require.NoError(t, cfg.Validate())
	require.True(t, cfg.SheetsEnabled())
}
