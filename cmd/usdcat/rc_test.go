package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRCDefaults(t *testing.T) {
	rc, err := loadRC(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 2, rc.Indent)
	assert.False(t, rc.Lenient)
	assert.Equal(t, "usda", rc.Format)
	assert.Nil(t, rc.Color)
}

func TestLoadRCFile(t *testing.T) {
	dir := t.TempDir()
	src := "indent: 4\ncolor: false\nlenient: true\nformat: usdc\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "usdcat.yaml"), []byte(src), 0o644))

	rc, err := loadRC(dir)
	require.NoError(t, err)
	assert.Equal(t, 4, rc.Indent)
	assert.True(t, rc.Lenient)
	assert.Equal(t, "usdc", rc.Format)
	require.NotNil(t, rc.Color)
	assert.False(t, *rc.Color)
}

func TestLoadRCEnv(t *testing.T) {
	t.Setenv("USDCAT_INDENT", "8")
	rc, err := loadRC(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 8, rc.Indent)
}

func TestLoadRCBadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "usdcat.yaml"), []byte("indent: [\n"), 0o644))
	_, err := loadRC(dir)
	assert.Error(t, err)
}
