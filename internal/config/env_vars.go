package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	apiBaseURLVar = "PFC_API_URL"
	appNameVar    = "PFC_APP_NAME"
	dataFolderVar = "PFC_DATA_FOLDER"
	logLevelVar   = "PFC_LOG_LEVEL"
	timeoutVar    = "PFC_HTTP_TIMEOUT"
)

type EnvConfig interface {
	GetAPIBaseURL() string
	GetAppName() string
	GetDataFolder() string
	GetLogLevel() string
	GetHTTPTimeout() time.Duration
}

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "http://localhost:8000")
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "pfcctl")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(dataFolderVar, "./data")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

func (EnvVars) GetHTTPTimeout() time.Duration {
	raw := GetEnv(timeoutVar, "15s")
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// LoadDotEnv loads a '.env' file from the working directory if one exists.
// A missing file is not an error.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
