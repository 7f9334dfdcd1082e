package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env            string        `mapstructure:"ENV"`
	Port           string        `mapstructure:"PORT"`
	AdminKey       string        `mapstructure:"ADMIN_KEY"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`

	// Drive. An empty credentials file selects the in-memory store.
	GoogleCredentialsFile string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	ParentFolderID        string `mapstructure:"DRIVE_PARENT_FOLDER_ID"`
	StoreFileID           string `mapstructure:"DRIVE_STORE_FILE_ID"`
	SemaforoMarker        string `mapstructure:"SEMAFORO_MARKER"`
	SourcesJSON           string `mapstructure:"SOURCES_JSON"`

	// Session cache. An empty address selects the in-process store.
	RedisAddr  string        `mapstructure:"REDIS_ADDR"`
	SessionTTL time.Duration `mapstructure:"SESSION_TTL"`
}

// Source maps a semáforo label to the Drive folder holding its spreadsheet.
type Source struct {
	Label  string `json:"label"`
	Folder string `json:"folder"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("SEMAFORO_MARKER", "SEMAFORO")
	v.SetDefault("SESSION_TTL", "2h")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Sources returns the configured semáforo sources in order. SOURCES_JSON is
// a JSON array of {label, folder} pairs; when unset the built-in mapping is
// used.
func (c Config) Sources() ([]Source, error) {
	if c.SourcesJSON == "" {
		return defaultSources(), nil
	}
	var out []Source
	if err := json.Unmarshal([]byte(c.SourcesJSON), &out); err != nil {
		return nil, fmt.Errorf("parse SOURCES_JSON: %w", err)
	}
	for _, s := range out {
		if s.Label == "" || s.Folder == "" {
			return nil, fmt.Errorf("SOURCES_JSON: every source needs label and folder")
		}
	}
	return out, nil
}

func defaultSources() []Source {
	return []Source{
		{Label: "SEMAFORO ELCHE 2.0", Folder: "COMPARTIDO ELCHE 2.0"},
		{Label: "SEMAFORO ELCHE 3.0", Folder: "COMPARTIDO ELCHE 3.0"},
		{Label: "SEMAFORO ELCHE 4.0", Folder: "COMPARTIDO ELCHE 4.0"},
		{Label: "SEMAFORO VIGO 1.0", Folder: "COMPARTIDO VIGO 1.0"},
		{Label: "SEMAFORO VIGO 2.0", Folder: "COMPARTIDO VIGO 2.0"},
		{Label: "SEMAFORO VIGO 3.0", Folder: "COMPARTIDO VIGO 3.0"},
		{Label: "SEMAFORO LEON 1.0", Folder: "COMPARTIDO LEON 1.0"},
	}
}
