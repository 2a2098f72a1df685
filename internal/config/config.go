package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// AppConfig holds the full server configuration.
type AppConfig struct {
	Port       int    `mapstructure:"port"`
	LogLevel   string `mapstructure:"loglevel"`
	LogFormat  string `mapstructure:"logformat"`
	CORSOrigin string `mapstructure:"corsorigin"`

	Firebase struct {
		ProjectID       string `mapstructure:"projectid"`
		CredentialsFile string `mapstructure:"credentialsfile"`
	} `mapstructure:"firebase"`

	JWT struct {
		Secret string `mapstructure:"secret"`
	} `mapstructure:"jwt"`

	Storage struct {
		Endpoint  string `mapstructure:"endpoint"`
		AccessKey string `mapstructure:"accesskey"`
		SecretKey string `mapstructure:"secretkey"`
		Bucket    string `mapstructure:"bucket"`
		UseSSL    bool   `mapstructure:"usessl"`
	} `mapstructure:"storage"`
}

// Load loads configuration from an optional .env file and environment
// variables into target.
// prefix: environment variable prefix (e.g. "MAKEAPI_")
// target: pointer to the config struct to load into
func Load(prefix string, target interface{}) error {
	v := viper.New()

	// 1. Load from .env file (if exists)
	v.SetConfigFile(".env")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// .env is optional; a parse error surfaces later during Unmarshal
			// if anything critical is missing.
		}
	}

	// 2. Load from environment variables.
	// Viper's AutomaticEnv doesn't work well with Unmarshal when the keys are
	// not known up front, so iterate the environment and populate viper.
	prefixUpper := strings.ToUpper(prefix)
	for _, envStr := range os.Environ() {
		pair := strings.SplitN(envStr, "=", 2)
		key, value := pair[0], pair[1]

		if strings.HasPrefix(key, prefixUpper) {
			// MAKEAPI_FIREBASE_PROJECTID -> firebase.projectid
			propKey := strings.TrimPrefix(key, prefixUpper)
			propKey = strings.ToLower(strings.ReplaceAll(propKey, "_", "."))
			propKey = strings.TrimPrefix(propKey, ".")

			v.Set(propKey, value)
		}
	}

	// 3. Unmarshal into struct
	if err := v.Unmarshal(target); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// LoadApp loads an AppConfig with defaults applied.
func LoadApp() (*AppConfig, error) {
	var cfg AppConfig
	if err := Load("MAKEAPI_", &cfg); err != nil {
		return nil, err
	}
	if cfg.Port == 0 {
		cfg.Port = 3000
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "INFO"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "*"
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "makeapi"
	}
	return &cfg, nil
}
