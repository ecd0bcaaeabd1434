package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{}, Split(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, Split(" a:9092, ,b:9092 "))
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name  string
		cfg   Config
		valid bool
	}{
		{"file", Config{StorageDriver: DriverFile, ThumbnailMaxBytes: 1}, true},
		{"mongo", Config{StorageDriver: DriverMongo, ThumbnailMaxBytes: 1}, true},
		{"unknown driver", Config{StorageDriver: "sqlite", ThumbnailMaxBytes: 1}, false},
		{"zero upload limit", Config{StorageDriver: DriverFile}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Mongo")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("THUMBNAIL_MAX_BYTES", "1024")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMongo, cfg.StorageDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(1024), cfg.ThumbnailMaxBytes)
	assert.Equal(t, "ecommerce", cfg.MongoDatabase)
}
