package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// ModeDirect queries the host and drives the OLED
	ModeDirect = "direct"
	// ModeTest replays canned df output and prints the canvas as text
	ModeTest = "test"
)

// Config holds the application configuration
type Config struct {
	Mode     string
	LogLevel string

	// Display geometry in pixels
	Width  int
	Height int

	MountPoint      string
	Interval        time.Duration
	InterfacePrefix string // Adapter name prefix treated as the wireless interface

	// Run a single tick and exit
	Once bool

	// Hardware
	I2CBus   string // Empty selects the first available bus
	ResetPin string // Empty disables the reset pulse

	// Commands
	DiskUsageCmd []string
}

// NewConfig creates a new configuration with default values
func NewConfig(mode string) *Config {
	cfg := &Config{
		Mode:            mode,
		LogLevel:        "info",
		Width:           getEnvAsInt("DISPLAY_WIDTH", 128),
		Height:          getEnvAsInt("DISPLAY_HEIGHT", 32),
		MountPoint:      getEnvAsString("MOUNT_POINT", "/"),
		Interval:        time.Duration(getEnvAsInt("REFRESH_INTERVAL_SECONDS", 300)) * time.Second,
		InterfacePrefix: getEnvAsString("INTERFACE_PREFIX", "wl"),
		I2CBus:          getEnvAsString("I2C_BUS", ""),
		ResetPin:        getEnvAsString("RESET_PIN", "GPIO4"),
	}

	if mode == ModeTest {
		cfg.DiskUsageCmd = []string{"cat", "test/df_output.txt"}
	} else {
		cfg.DiskUsageCmd = []string{"df", "--output=used,pcent,avail,size"}
	}

	return cfg
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsTestMode returns true if the host should not be touched
func (c *Config) IsTestMode() bool {
	return c.Mode == ModeTest
}

// fileConfig mirrors the YAML file; unset keys leave the current value alone
type fileConfig struct {
	Width           *int     `yaml:"width"`
	Height          *int     `yaml:"height"`
	MountPoint      *string  `yaml:"mountpoint"`
	Interval        *string  `yaml:"interval"`
	InterfacePrefix *string  `yaml:"interface_prefix"`
	I2CBus          *string  `yaml:"i2c_bus"`
	ResetPin        *string  `yaml:"reset_pin"`
	DiskUsageCmd    []string `yaml:"disk_usage_cmd"`
}

// LoadFile overlays the settings found in a YAML file onto the configuration
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return c.LoadYAML(data)
}

// LoadYAML overlays the settings found in YAML data onto the configuration
func (c *Config) LoadYAML(data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	if fc.Width != nil {
		c.Width = *fc.Width
	}
	if fc.Height != nil {
		c.Height = *fc.Height
	}
	if fc.MountPoint != nil {
		c.MountPoint = *fc.MountPoint
	}
	if fc.Interval != nil {
		interval, err := time.ParseDuration(*fc.Interval)
		if err != nil {
			return fmt.Errorf("invalid interval %q: %w", *fc.Interval, err)
		}
		c.Interval = interval
	}
	if fc.InterfacePrefix != nil {
		c.InterfacePrefix = *fc.InterfacePrefix
	}
	if fc.I2CBus != nil {
		c.I2CBus = *fc.I2CBus
	}
	if fc.ResetPin != nil {
		c.ResetPin = *fc.ResetPin
	}
	if len(fc.DiskUsageCmd) > 0 {
		c.DiskUsageCmd = fc.DiskUsageCmd
	}

	return nil
}

// Validate checks configuration correctness.
// It does not mutate the configuration.
func (c *Config) Validate() error {
	if c.Mode != ModeDirect && c.Mode != ModeTest {
		return fmt.Errorf("invalid mode %q: must be one of: %s, %s", c.Mode, ModeTest, ModeDirect)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid display size %dx%d: width and height must be positive", c.Width, c.Height)
	}
	if c.MountPoint == "" {
		return fmt.Errorf("mount point must not be empty")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("invalid interval %s: must be positive", c.Interval)
	}
	if c.InterfacePrefix == "" {
		return fmt.Errorf("interface prefix must not be empty")
	}
	if len(c.DiskUsageCmd) == 0 {
		return fmt.Errorf("disk usage command must not be empty")
	}
	return nil
}

// getEnvAsInt reads an environment variable and returns it as an integer,
// or returns the default value if not set or invalid
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsString reads an environment variable, or returns the default value if not set
func getEnvAsString(key string, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}
