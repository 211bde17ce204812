package logging

import (
	"bytes"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New("production", &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("category", "travel").Msg("resolved")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "resolved", line["message"])
	assert.Equal(t, "travel", line["category"])
	assert.Equal(t, "carbonsense-backend", line["service"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_DevelopmentLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New("development", &buf)

	logger.Debug().Msg("visible")

	assert.Contains(t, buf.String(), "visible")
}
