package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"

	"github.com/fieldlog/fieldlog/internal/app/config"
)

// RawSettings represents the structure of setting.json.
// Pointer fields distinguish "absent" from "set to zero value".
type RawSettings struct {
	Home          *string `json:"home"`
	RewriteOnLoad *bool   `json:"rewrite_on_load"`
	StderrLevel   *string `json:"stderr_level"`

	SyncBucket *string `json:"sync_bucket"`
	SyncPrefix *string `json:"sync_prefix"`
	SyncRegion *string `json:"sync_region"`
}

// LoadSettings loads configuration from setting.json under baseDir.
// Priority: setting.json > FIELDLOG_* environment > defaults.
// A missing file is not an error.
func LoadSettings(fs afero.Fs, baseDir string) (*config.AppConfig, error) {
	settings := &RawSettings{}
	configSource := "default"
	settingPath := ""

	jsonPath := filepath.Join(baseDir, "setting.json")
	if data, err := afero.ReadFile(fs, jsonPath); err == nil {
		if err := json.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("parse %s: %w", jsonPath, err)
		}
		configSource = "json"
		settingPath = jsonPath
	}

	applyEnv(settings)
	applyDefaults(settings, baseDir)

	return config.NewAppConfig(
		*settings.Home,
		*settings.RewriteOnLoad,
		*settings.StderrLevel,
		*settings.SyncBucket,
		*settings.SyncPrefix,
		*settings.SyncRegion,
		configSource,
		settingPath,
	), nil
}

// applyEnv fills fields the file left unset from FIELDLOG_* variables
func applyEnv(settings *RawSettings) {
	setStr := func(dst **string, key string) {
		if *dst == nil {
			if v := os.Getenv(key); v != "" {
				*dst = &v
			}
		}
	}
	setStr(&settings.StderrLevel, "FIELDLOG_STDERR_LEVEL")
	setStr(&settings.SyncBucket, "FIELDLOG_SYNC_BUCKET")
	setStr(&settings.SyncPrefix, "FIELDLOG_SYNC_PREFIX")
	setStr(&settings.SyncRegion, "FIELDLOG_SYNC_REGION")

	if settings.RewriteOnLoad == nil {
		if v := os.Getenv("FIELDLOG_REWRITE_ON_LOAD"); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				settings.RewriteOnLoad = &b
			}
		}
	}
}

// applyDefaults fills in default values for any nil fields
func applyDefaults(settings *RawSettings, baseDir string) {
	if settings.Home == nil {
		v := baseDir
		settings.Home = &v
	}
	if settings.RewriteOnLoad == nil {
		v := false
		settings.RewriteOnLoad = &v
	}
	if settings.StderrLevel == nil {
		v := "warn"
		settings.StderrLevel = &v
	}
	if settings.SyncBucket == nil {
		v := ""
		settings.SyncBucket = &v
	}
	if settings.SyncPrefix == nil {
		v := "fieldlog"
		settings.SyncPrefix = &v
	}
	if settings.SyncRegion == nil {
		v := ""
		settings.SyncRegion = &v
	}
}

// CreateDefaultSettings renders a default setting.json content
func CreateDefaultSettings(baseDir string) []byte {
	settings := &RawSettings{}
	applyDefaults(settings, baseDir)

	data, _ := json.MarshalIndent(settings, "", "  ")
	return data
}
