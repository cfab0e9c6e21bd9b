package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabaseDriverFromURL_EmptyURL(t *testing.T) {
	_, err := NewDatabaseDriverFromURL(context.Background(), "")
	require.Error(t, err)

	var driverErr *DriverError
	require.ErrorAs(t, err, &driverErr)
	assert.Contains(t, driverErr.Err, "database URL is empty")
}

func TestNewDatabaseDriverFromURL_InvalidURL(t *testing.T) {
	// Parse failure proves the driver consumes the URL it is handed instead
	// of reading connection parameters from the environment.
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_NAME", "cms")
	t.Setenv("SOLR_INDEXER_DB_USER", "indexer")
	t.Setenv("SOLR_INDEXER_DB_PASSWORD", "secret")

	_, err := NewDatabaseDriverFromURL(context.Background(), "://not-a-url")
	require.Error(t, err)

	var driverErr *DriverError
	require.ErrorAs(t, err, &driverErr)
	assert.Contains(t, driverErr.Err, "failed to parse database URL")
}
