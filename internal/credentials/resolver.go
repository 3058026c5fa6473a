// Package credentials resolves the AI service API key from an ordered chain
// of sources. Each source is either available or not at runtime; the first
// non-empty value wins and an exhausted chain is a hard error, never a mock.
package credentials

import (
	"os"
	"path/filepath"

	"japanese-doc-reader/internal/domain"

	"github.com/joho/godotenv"
)

// EnvKey is the environment variable holding the API key.
const EnvKey = "OPENAI_API_KEY"

// Source is a single credential source in the fallback chain.
type Source interface {
	Name() string
	// Resolve returns the key, or "" when this source has no value.
	Resolve() string
}

// EnvSource reads the key from the process environment.
type EnvSource struct{}

func (EnvSource) Name() string    { return "environment" }
func (EnvSource) Resolve() string { return os.Getenv(EnvKey) }

// DotenvSource reads the key from the first candidate .env file that has it.
type DotenvSource struct {
	Paths []string
}

func (DotenvSource) Name() string { return "dotenv" }

func (s DotenvSource) Resolve() string {
	for _, path := range s.Paths {
		vars, err := godotenv.Read(path)
		if err != nil {
			continue
		}
		if key := vars[EnvKey]; key != "" {
			return key
		}
	}
	return ""
}

// SettingsSource reads the key from a persisted user-settings file. The
// source is simply unavailable when the file does not exist.
type SettingsSource struct {
	Path string
}

func (SettingsSource) Name() string { return "settings" }

func (s SettingsSource) Resolve() string {
	if s.Path == "" {
		return ""
	}
	vars, err := godotenv.Read(s.Path)
	if err != nil {
		return ""
	}
	return vars[EnvKey]
}

// DefaultChain builds the documented resolution order: process environment,
// then .env files next to the working directory and the executable, then the
// user-settings file. settingsPath "" means the platform default location.
func DefaultChain(settingsPath string) []Source {
	var envPaths []string
	if cwd, err := os.Getwd(); err == nil {
		envPaths = append(envPaths, filepath.Join(cwd, ".env"))
	}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		envPaths = append(envPaths, filepath.Join(dir, ".env"), filepath.Join(dir, "..", ".env"))
	}

	if settingsPath == "" {
		if cfgDir, err := os.UserConfigDir(); err == nil {
			settingsPath = filepath.Join(cfgDir, "japanese-doc-reader", "settings.conf")
		}
	}

	return []Source{
		EnvSource{},
		DotenvSource{Paths: envPaths},
		SettingsSource{Path: settingsPath},
	}
}

// Resolve walks the chain and returns the first non-empty key. It fails with
// ErrCredentialMissing when every source is exhausted.
func Resolve(sources []Source, logger domain.Logger) (string, error) {
	for _, src := range sources {
		if key := src.Resolve(); key != "" {
			logger.Info("API key resolved", "source", src.Name())
			return key, nil
		}
		logger.Debug("credential source empty", "source", src.Name())
	}
	return "", domain.ErrCredentialMissing
}
