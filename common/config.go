package common

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const productionEnv = "production"

// LoadDotEnv loads the given .env files (default ".env") into the process
// environment, unless APP_ENV is production.
// Variables already present in the environment are kept, a missing file is ignored.
func LoadDotEnv(filenames ...string) error {
	if os.Getenv("APP_ENV") == productionEnv {
		return nil
	}
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, filename := range filenames {
		if err := godotenv.Load(filename); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// GetEnvDefault returns the env var value or defaultValue when unset or empty
func GetEnvDefault(name string, defaultValue string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvBool returns the boolean value of an env var, false when unset or unparsable
func GetEnvBool(name string) bool {
	value, err := strconv.ParseBool(os.Getenv(name))
	return err == nil && value
}
