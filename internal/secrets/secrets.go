// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files and
// from an optional .env file. In the directory, each file is one secret: the
// filename is the key name and the trimmed contents are the value.
//
// Known keys: gemini-api-key, anthropic-api-key, youtube-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	KeyGemini    = "gemini-api-key"
	KeyAnthropic = "anthropic-api-key"
	KeyYouTube   = "youtube-api-key"
)

// envNames maps .env variable names onto secret keys, in priority order.
var envNames = []struct{ env, key string }{
	{"GEMINI_API_KEY", KeyGemini},
	{"GOOGLE_API_KEY", KeyGemini},
	{"ANTHROPIC_API_KEY", KeyAnthropic},
	{"YOUTUBE_API_KEY", KeyYouTube},
	{"GOOGLE_API_KEY", KeyYouTube},
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory is not an error; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadEnv reads a dotenv file and returns the known API keys it defines,
// translated to secret key names. A missing file yields an empty map.
// The process environment is not modified.
func LoadEnv(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}

	secrets := make(map[string]string)
	for _, n := range envNames {
		v := strings.TrimSpace(vars[n.env])
		if v == "" {
			continue
		}
		if _, seen := secrets[n.key]; !seen {
			secrets[n.key] = v
		}
	}
	return secrets, nil
}

// Merge combines secret maps. Earlier maps win over later ones.
func Merge(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for i := len(maps) - 1; i >= 0; i-- {
		for k, v := range maps[i] {
			out[k] = v
		}
	}
	return out
}
