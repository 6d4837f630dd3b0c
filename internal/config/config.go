package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DefaultTilt is the camera tilt used when the config leaves it unset.
const DefaultTilt = 0.25

// Config holds the paths and sphere settings shared by the commands.
type Config struct {
	// Paths
	IconDir   string `json:"icon_dir"`
	ItemList  string `json:"item_list"`
	CachePath string `json:"cache_path"`
	OutputDir string `json:"output_dir"`

	// Sphere settings
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Radius   float64  `json:"radius"`
	IconSize int      `json:"icon_size"`
	Tilt     *float64 `json:"tilt"` // radians; nil means the default, 0 is upright
	Workers  int      `json:"workers"`

	// CacheTTLHours overrides the persisted entry lifetime.
	CacheTTLHours int `json:"cache_ttl_hours"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	IconDir   string
	ItemList  string
	CachePath string
	OutputDir string
	Width     int
	Height    int
	Workers   int
}

// Resolve applies flags, then fills empty fields with defaults.
// Relative paths are resolved against the icon directory.
func (c *Config) Resolve(flags Flags) {
	if flags.IconDir != "" {
		c.IconDir = flags.IconDir
	}
	if flags.ItemList != "" {
		c.ItemList = flags.ItemList
	}
	if flags.CachePath != "" {
		c.CachePath = flags.CachePath
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.IconDir == "" {
		c.IconDir = detectIconDir()
	}
	if c.IconDir != "" {
		if c.ItemList == "" {
			c.ItemList = findItemList(c.IconDir)
		} else if !filepath.IsAbs(c.ItemList) {
			c.ItemList = filepath.Join(c.IconDir, c.ItemList)
		}
		if c.OutputDir != "" && !filepath.IsAbs(c.OutputDir) {
			c.OutputDir = filepath.Join(c.IconDir, c.OutputDir)
		}
	}
	if c.CachePath == "" {
		c.CachePath = DefaultCachePath()
	}

	if c.Width <= 0 {
		c.Width = 480
	}
	if c.Height <= 0 {
		c.Height = 480
	}
	if c.Radius <= 0 {
		c.Radius = 180
	}
	if c.IconSize <= 0 {
		c.IconSize = 48
	}
	if c.Tilt == nil {
		tilt := DefaultTilt
		c.Tilt = &tilt
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// DefaultCachePath is icons.json under the user cache directory, or under
// the working directory when there is none.
func DefaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		dir = "."
	}
	return filepath.Join(dir, "icon-sphere", "icons.json")
}

func detectIconDir() string {
	cwd, _ := os.Getwd()
	for _, dir := range []string{filepath.Join(cwd, "icons"), filepath.Join(cwd, "assets", "icons")} {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			return dir
		}
	}
	return ""
}

func findItemList(iconDir string) string {
	candidates := []string{
		filepath.Join(iconDir, "items.json"),
		filepath.Join(iconDir, "items.xml"),
		filepath.Join(filepath.Dir(iconDir), "items.json"),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}
