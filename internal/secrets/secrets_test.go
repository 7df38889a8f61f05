// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKeyDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, KeyGemini, "  gm_abc123  \n")
	writeFile(t, dir, KeyYouTube, "yt_xyz789")
	writeFile(t, dir, "empty-key", "")
	writeFile(t, dir, "blank-key", "   \n\t  ")
	writeFile(t, dir, ".gitkeep", "")
	writeFile(t, dir, ".hidden-key", "secret")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	writeFile(t, filepath.Join(dir, "nested"), KeyAnthropic, "ignored")

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		KeyGemini:  "gm_abc123",
		KeyYouTube: "yt_xyz789",
	}, got)
}

func TestLoadMissingOrEmptyDirectory(t *testing.T) {
	for _, dir := range []string{filepath.Join(t.TempDir(), "absent"), t.TempDir()} {
		got, err := Load(dir)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestLoadSkipsUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	dir := t.TempDir()
	writeFile(t, dir, KeyGemini, "gm_1")
	bad := filepath.Join(dir, KeyYouTube)
	require.NoError(t, os.WriteFile(bad, []byte("yt"), 0o000))
	t.Cleanup(func() { os.Chmod(bad, 0o644) })

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{KeyGemini: "gm_1"}, got)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "GOOGLE_API_KEY=g_fallback\nGEMINI_API_KEY=g_primary\nYOUTUBE_API_KEY= yt_1 \nUNRELATED=x\n")

	got, err := LoadEnv(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		KeyGemini:  "g_primary",
		KeyYouTube: "yt_1",
	}, got)
}

func TestLoadEnvGoogleKeyFallsBackForYouTube(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "GOOGLE_API_KEY=g_shared\n")

	got, err := LoadEnv(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		KeyGemini:  "g_shared",
		KeyYouTube: "g_shared",
	}, got)
}

func TestLoadEnvMissingFile(t *testing.T) {
	got, err := LoadEnv(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMerge(t *testing.T) {
	dirSecrets := map[string]string{KeyGemini: "from-dir"}
	envSecrets := map[string]string{KeyGemini: "from-env", KeyYouTube: "yt"}

	got := Merge(dirSecrets, envSecrets)
	assert.Equal(t, "from-dir", got[KeyGemini])
	assert.Equal(t, "yt", got[KeyYouTube])
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
