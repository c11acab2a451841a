package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "talentops-bot", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "OzProd", cfg.Mongo.Database)
	assert.Equal(t, 10000, cfg.Mongo.QueryTimeout)
	assert.Equal(t, 1, cfg.LLM.MaxRetries)
	assert.Equal(t, 20, cfg.Pipeline.ListLimit)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9090
	cfg.Mongo.Database = "OzStaging"
	applyDefaults(cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "OzStaging", cfg.Mongo.Database)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	require.NoError(t, validate(cfg))

	bad := &Config{}
	applyDefaults(bad)
	bad.Server.Port = -1
	assert.Error(t, validate(bad))

	noURI := &Config{}
	applyDefaults(noURI)
	noURI.Mongo.URI = ""
	assert.Error(t, validate(noURI))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://db.internal:27017")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg := &Config{}
	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	assert.Equal(t, "mongodb://db.internal:27017", cfg.Mongo.URI)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
}
