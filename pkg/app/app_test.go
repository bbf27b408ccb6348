package app

import (
	"context"
	"testing"

	"fcf_analysis/pkg/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WithoutOptionalStages(t *testing.T) {
	a, err := New(context.Background(), config.Default(), zerolog.Nop(), Options{})
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Analyzer)
	assert.Nil(t, a.Results)
}

func TestNew_FileStoreWhenNoDatabase(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.ResultsDir = t.TempDir()

	a, err := New(context.Background(), cfg, zerolog.Nop(), Options{Store: true, Quotes: true})
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Results)
	_, err = a.Results.Load(context.Background(), "AAPL")
	assert.Error(t, err, "nothing stored yet")
}

func TestNew_BadDatabaseURL(t *testing.T) {
	cfg := config.Default()
	cfg.Database.URL = "postgres://fcf@localhost:5432/fcf?sslmode=sometimes"

	_, err := New(context.Background(), cfg, zerolog.Nop(), Options{Store: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect result store")
}
