package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("Strips Scheme From Endpoint", func(t *testing.T) {
		client, err := NewClient(Config{
			Endpoint:  "http://localhost:9000",
			AccessKey: "minioadmin",
			SecretKey: "minioadmin",
		})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("Invalid Endpoint", func(t *testing.T) {
		_, err := NewClient(Config{Endpoint: "://not a url"})
		assert.Error(t, err)
	})
}
