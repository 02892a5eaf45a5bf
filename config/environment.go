package config

import (
	"os"

	"github.com/joho/godotenv"
)

// IsProduction reports whether the process runs on the hosting platform.
func IsProduction() bool {
	return os.Getenv("RAILWAY_ENVIRONMENT_NAME") != ""
}

// LoadDotEnv loads a .env file outside production. A missing file is not an
// error.
func LoadDotEnv() error {
	if IsProduction() {
		return nil
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
