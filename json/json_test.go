package json

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonClient_ImportRelativeAndAbsolute(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "costs.json"), []byte(`{"properties":{"rows":[[125.50,"id"]]}}`), 0644))

	client := NewJsonClient(dir, logrus.New())

	var relative map[string]any
	require.NoError(t, client.Import("costs.json", &relative))

	var absolute map[string]any
	require.NoError(t, client.Import(filepath.Join(dir, "costs.json"), &absolute))

	assert.Equal(t, relative, absolute)
	rows := relative["properties"].(map[string]any)["rows"].([]any)
	assert.Equal(t, json.Number("125.50"), rows[0].([]any)[0])
}

func TestJsonClient_ImportErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"properties":`), 0644))

	client := NewJsonClient(dir, logrus.New())

	var payload map[string]any
	assert.Error(t, client.Import("missing.json", &payload))
	assert.Error(t, client.Import("broken.json", &payload))
}

func TestJsonClient_Export(t *testing.T) {
	client := NewJsonClient(".", logrus.New())

	var buffer bytes.Buffer
	require.NoError(t, client.Export(map[string]int{"count": 2}, &buffer))

	assert.Equal(t, "{\n  \"count\": 2\n}\n", buffer.String())
}
