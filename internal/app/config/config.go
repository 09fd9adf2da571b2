package config

// Config provides read-only access to application configuration.
// It abstracts the configuration source (JSON, defaults) so callers
// never touch setting.json directly.
type Config interface {
	// Core settings
	Home() string          // Base directory (FIELDLOG_HOME)
	RewriteOnLoad() bool   // Persist normalized history back after load
	StderrLevel() string   // Stderr log level

	// Remote mirror settings
	SyncBucket() string // S3 bucket receiving mirrored documents; empty disables sync
	SyncPrefix() string // Key prefix inside the bucket
	SyncRegion() string // AWS region override

	// Metadata
	ConfigSource() string // "json" or "default"
	SettingPath() string  // Path to setting.json if loaded from file
}

// AppConfig is the concrete implementation of Config
type AppConfig struct {
	home          string
	rewriteOnLoad bool
	stderrLevel   string

	syncBucket string
	syncPrefix string
	syncRegion string

	configSource string
	settingPath  string
}

// NewAppConfig creates an AppConfig with all values resolved
func NewAppConfig(
	home string,
	rewriteOnLoad bool,
	stderrLevel string,
	syncBucket string,
	syncPrefix string,
	syncRegion string,
	configSource string,
	settingPath string,
) *AppConfig {
	return &AppConfig{
		home:          home,
		rewriteOnLoad: rewriteOnLoad,
		stderrLevel:   stderrLevel,
		syncBucket:    syncBucket,
		syncPrefix:    syncPrefix,
		syncRegion:    syncRegion,
		configSource:  configSource,
		settingPath:   settingPath,
	}
}

// Home returns the base directory
func (c *AppConfig) Home() string {
	return c.home
}

// RewriteOnLoad reports whether a normalized history blob is written
// back to disk immediately after a load that changed it
func (c *AppConfig) RewriteOnLoad() bool {
	return c.rewriteOnLoad
}

// StderrLevel returns the stderr log level
func (c *AppConfig) StderrLevel() string {
	return c.stderrLevel
}

// SyncBucket returns the mirror bucket name
func (c *AppConfig) SyncBucket() string {
	return c.syncBucket
}

// SyncPrefix returns the mirror key prefix
func (c *AppConfig) SyncPrefix() string {
	return c.syncPrefix
}

// SyncRegion returns the AWS region override
func (c *AppConfig) SyncRegion() string {
	return c.syncRegion
}

// ConfigSource returns where the configuration came from
func (c *AppConfig) ConfigSource() string {
	return c.configSource
}

// SettingPath returns the setting.json path if one was loaded
func (c *AppConfig) SettingPath() string {
	return c.settingPath
}
