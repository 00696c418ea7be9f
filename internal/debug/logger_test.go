package debug

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_Levels(t *testing.T) {
	t.Cleanup(func() { Init(false) })

	var buf bytes.Buffer
	Configure(Options{Output: &buf})
	assert.False(t, Enabled())

	Debug("hidden")
	Warn("slow statement", "sql", "SELECT 1")
	Error("failed")
	assert.Empty(t, buf.String())

	Configure(Options{Enable: true, Output: &buf})
	assert.True(t, Enabled())
	Debug("visible")
	Warn("shown", "sql", "SELECT 1")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "sql=\"SELECT 1\"")
}

func TestConfigure_JSON(t *testing.T) {
	t.Cleanup(func() { Init(false) })

	var buf bytes.Buffer
	Configure(Options{Enable: true, Format: "json", Output: &buf})
	With("component", "pool").Info("acquired", "in_use", 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "acquired", entry["msg"])
	assert.Equal(t, "pool", entry["component"])
	assert.Equal(t, float64(2), entry["in_use"])
}
