package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/giovifav/ssg/internal/errs"
)

// ConfigFileName is the site configuration file looked up in the site root.
const ConfigFileName = "site.yaml"

// Config represents a validated site configuration.
type Config struct {
	SiteName string `yaml:"site_name"`
	Author   string `yaml:"author"`
	Footer   string `yaml:"footer,omitempty"`
	Output   string `yaml:"output,omitempty"`

	Theme    string `yaml:"theme,omitempty"`     // theme template name (file in assets/ or embedded default)
	ThemeCSS string `yaml:"theme_css,omitempty"` // theme stylesheet copied to the output root

	MaxDepth int `yaml:"max_depth,omitempty"` // maximum content nesting before the build aborts
	ThumbMax int `yaml:"thumb_max,omitempty"` // max thumbnail dimension in pixels
	Workers  int `yaml:"workers,omitempty"`   // parallel render/thumbnail workers

	Languages map[string]LanguageConfig `yaml:"languages,omitempty"`

	NATSURL   string `yaml:"nats_url,omitempty"`   // optional build event publishing
	HistoryDB string `yaml:"history_db,omitempty"` // optional build history database path
}

// LanguageConfig holds per-language overrides for rendered chrome text.
type LanguageConfig struct {
	SiteName string `yaml:"site_name,omitempty"`
	Footer   string `yaml:"footer,omitempty"`
}

// Load reads and validates the site configuration from siteRoot/site.yaml.
func Load(siteRoot string) (*Config, error) {
	// Load .env/.env.local if present; process env wins over file values.
	_ = godotenv.Load(filepath.Join(siteRoot, ".env.local"), filepath.Join(siteRoot, ".env"))

	configPath := filepath.Join(siteRoot, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errs.Wrap(err, errs.CategoryConfig, errs.SeverityFatal,
			fmt.Sprintf("configuration file not found: %s", configPath))
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errs.Wrap(err, errs.CategoryConfig, errs.SeverityFatal, "failed to unmarshal config")
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Footer == "" {
		c.Footer = "Copyright " + c.Author
	}
	if c.Output == "" {
		c.Output = "output"
	}
	if c.Theme == "" {
		c.Theme = "theme.html"
	}
	if c.ThemeCSS == "" {
		c.ThemeCSS = "theme.css"
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = 32
	}
	if c.ThumbMax == 0 {
		c.ThumbMax = 400
	}
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.SiteName == "" {
		return errs.Fatal(errs.CategoryConfig, "site_name is required")
	}
	if c.Author == "" {
		return errs.Fatal(errs.CategoryConfig, "author is required")
	}
	if c.MaxDepth < 1 {
		return errs.Fatal(errs.CategoryConfig, "max_depth must be positive")
	}
	if c.ThumbMax < 16 {
		return errs.Fatal(errs.CategoryConfig, fmt.Sprintf("thumb_max too small: %d", c.ThumbMax))
	}
	if c.Workers < 1 {
		return errs.Fatal(errs.CategoryConfig, "workers must be positive")
	}
	return nil
}

// ChromeFor returns the site name and footer for content at rel, applying
// per-language overrides when the path's first segment names a configured
// language subtree.
func (c *Config) ChromeFor(rel string) (siteName, footer string) {
	siteName, footer = c.SiteName, c.Footer
	seg := rel
	if i := strings.Index(rel, "/"); i >= 0 {
		seg = rel[:i]
	}
	if lc, ok := c.Languages[seg]; ok {
		if lc.SiteName != "" {
			siteName = lc.SiteName
		}
		if lc.Footer != "" {
			footer = lc.Footer
		}
	}
	return siteName, footer
}

// Init creates a new site.yaml with example content.
func Init(siteRoot, siteName, author string, force bool) error {
	configPath := filepath.Join(siteRoot, ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		SiteName: siteName,
		Author:   author,
		Footer:   "Copyright " + author,
		Output:   "output",
		Theme:    "theme.html",
		ThemeCSS: "theme.css",
	}
	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("marshal example config: %w", err)
	}
	if err := os.MkdirAll(siteRoot, 0o755); err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0o644)
}
