package filepathparser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath_AbsolutePath(t *testing.T) {
	absPath, _ := os.Getwd()
	result, err := ParsePath(absPath)

	require.NoError(t, err)
	assert.Equal(t, absPath, result)
}

func TestParsePath_HomeDir(t *testing.T) {
	home, _ := os.UserHomeDir()
	result, err := ParsePath("~/models/tinyllama.gguf")

	require.NoError(t, err)
	expected, _ := filepath.Abs(filepath.Join(home, "models", "tinyllama.gguf"))
	assert.Equal(t, expected, result)
}

func TestParsePath_HomeDirOnly(t *testing.T) {
	home, _ := os.UserHomeDir()
	result, err := ParsePath("~")

	require.NoError(t, err)
	expected, _ := filepath.Abs(home)
	assert.Equal(t, expected, result)
}

func TestParsePath_RelativePath(t *testing.T) {
	relPath := "models/tinyllama.gguf"
	result, err := ParsePath(relPath)

	require.NoError(t, err)
	expected, _ := filepath.Abs(relPath)
	assert.Equal(t, expected, result)
}

func TestParsePath_EmptyPath(t *testing.T) {
	result, err := ParsePath("")

	require.NoError(t, err)
	wd, _ := os.Getwd()
	assert.Equal(t, wd, result)
}

func TestParseOptionalPath(t *testing.T) {
	result, err := ParseOptionalPath("  ")
	require.NoError(t, err)
	assert.Equal(t, "", result)

	result, err = ParseOptionalPath("costs.json")
	require.NoError(t, err)
	expected, _ := filepath.Abs("costs.json")
	assert.Equal(t, expected, result)
}
