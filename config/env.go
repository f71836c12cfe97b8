package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// EnvPath names the variable holding the config file path
const EnvPath = "RIGIDTRIS_CONFIG"

// LoadEnv loads .env from the working directory if there is one.
// Variables already set in the environment win.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Resolve picks the config path: the flag value if set, else RIGIDTRIS_CONFIG
func Resolve(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvPath)
}

// FromEnv loads .env, resolves the path and loads the file
func FromEnv(flagValue string) (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}
	return Load(Resolve(flagValue))
}
