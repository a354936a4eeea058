package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizbooks/config"
)

func TestSetupWriter_JSON(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	require.NoError(t, SetupWriter(config.LogConfig{Level: "debug", Format: "json"}, &buf))

	l := WithComponent("ledger")
	l.Info().Str("user", "7").Msg("summary")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ledger", entry["component"])
	assert.Equal(t, "summary", entry["message"])
	assert.Equal(t, "7", entry["user"])
}

func TestSetupWriter_LevelFilter(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	require.NoError(t, SetupWriter(config.LogConfig{Level: "warn", Format: "json"}, &buf))

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetupWriter_InvalidLevel(t *testing.T) {
	assert.Error(t, SetupWriter(config.LogConfig{Level: "loud"}, &bytes.Buffer{}))
}
