package service

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// ErrMissingConfig is returned when a required setting is absent.
var ErrMissingConfig = errors.New("missing required configuration")

// DefaultEnvFiles are read, when present, in this order. A value already set
// in the process environment always wins.
var DefaultEnvFiles = []string{".env.local", ".env"}

const (
	keySupabaseURL = "NEXT_PUBLIC_SUPABASE_URL"
	keySupabaseKey = "NEXT_PUBLIC_SUPABASE_ANON_KEY"
)

type Config struct {
	Environment string
	Port        string
	DBPath      string
	ImagesDir   string

	Supabase struct {
		URL string
		Key string
	}

	Admin struct {
		APIKey string
	}

	Bucket struct {
		Name            string
		Prefix          string
		Endpoint        string
		Region          string
		AccessKeyID     string
		SecretAccessKey string
	}
}

// LoadConfig reads settings from the environment and from envFiles.
// Missing files are ignored; a file that exists but cannot be parsed is an
// error. Required settings are checked separately by the Validate methods so
// commands that do not need them still start.
func LoadConfig(envFiles ...string) (*Config, error) {
	v := viper.New()

	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", "8000")
	v.SetDefault("DB_PATH", "./db/prjimages.db")
	v.SetDefault("IMAGES_DIR", "~/Downloads/project_images")
	v.SetDefault("S3_REGION", "us-east-1")

	// File values sit in the default layer so the environment overrides them.
	seen := map[string]bool{}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		fv := viper.New()
		fv.SetConfigFile(file)
		fv.SetConfigType("env")
		if err := fv.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		for _, key := range fv.AllKeys() {
			if seen[key] {
				continue
			}
			seen[key] = true
			v.SetDefault(key, fv.Get(key))
		}
	}

	v.AutomaticEnv()

	// The original Next.js names come first; the short names are accepted too.
	_ = v.BindEnv(keySupabaseURL, keySupabaseURL, "SUPABASE_URL")
	_ = v.BindEnv(keySupabaseKey, keySupabaseKey, "SUPABASE_KEY")

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		DBPath:      v.GetString("DB_PATH"),
		ImagesDir:   v.GetString("IMAGES_DIR"),
	}

	config.Supabase.URL = strings.TrimSpace(v.GetString(keySupabaseURL))
	config.Supabase.Key = strings.TrimSpace(v.GetString(keySupabaseKey))

	config.Admin.APIKey = v.GetString("ADMIN_API_KEY")

	config.Bucket.Name = v.GetString("S3_BUCKET")
	config.Bucket.Prefix = v.GetString("S3_PREFIX")
	config.Bucket.Endpoint = v.GetString("S3_ENDPOINT")
	config.Bucket.Region = v.GetString("S3_REGION")
	config.Bucket.AccessKeyID = v.GetString("S3_ACCESS_KEY_ID")
	config.Bucket.SecretAccessKey = v.GetString("S3_SECRET_ACCESS_KEY")

	return config, nil
}

// ValidateSupabase reports every missing Supabase setting at once.
func (c *Config) ValidateSupabase() error {
	var missing []string
	if c.Supabase.URL == "" {
		missing = append(missing, keySupabaseURL)
	}
	if c.Supabase.Key == "" {
		missing = append(missing, keySupabaseKey)
	}
	return missingError(missing)
}

func (c *Config) ValidateBucket() error {
	var missing []string
	if c.Bucket.Name == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if c.Bucket.Region == "" {
		missing = append(missing, "S3_REGION")
	}
	return missingError(missing)
}

func missingError(keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s must be set", ErrMissingConfig, strings.Join(keys, " and "))
}
