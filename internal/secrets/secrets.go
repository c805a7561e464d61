// Copyright the finance-papers authors, 2025. All rights reserved.

// Package secrets loads API credentials from a directory of plain-text
// files, optionally overlaid with a dotenv file and the process
// environment. Each file in the directory is one secret: the filename is
// the key and the trimmed contents are the value.
//
// Supported key files: openalex-email, openai-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Canonical secret keys.
const (
	KeyOpenAlexEmail = "openalex-email"
	KeyOpenAIAPIKey  = "openai-api-key"
)

// envAliases maps environment variable names to secret keys for the
// dotenv/process-environment overlay.
var envAliases = map[string]string{
	"OPENALEX_EMAIL": KeyOpenAlexEmail,
	"OPENAI_API_KEY": KeyOpenAIAPIKey,
}

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error; Load returns an empty
// map. Unreadable files produce a warning on stderr but do not abort.
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

// LoadWithEnv loads the secrets directory, then fills missing keys from
// the dotenv file at envFile and finally from the process environment.
// Directory values win over dotenv values, which win over the process
// environment. A missing dotenv file is not an error.
func LoadWithEnv(dir, envFile string) (map[string]string, error) {
	secrets, err := Load(dir)
	if err != nil {
		return nil, err
	}

	if envFile != "" {
		vals, err := godotenv.Read(envFile)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading %s: %w", envFile, err)
		}
		for envName, key := range envAliases {
			if secrets[key] == "" && vals[envName] != "" {
				secrets[key] = strings.TrimSpace(vals[envName])
			}
		}
	}

	for envName, key := range envAliases {
		if secrets[key] == "" {
			if v := strings.TrimSpace(os.Getenv(envName)); v != "" {
				secrets[key] = v
			}
		}
	}

	return secrets, nil
}
