package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Browser struct {
	Path            string   `koanf:"PATH"`
	Headless        bool     `koanf:"HEADLESS"`
	Trace           bool     `koanf:"TRACE"`
	Stealth         bool     `koanf:"STEALTH"`
	NoSandbox       bool     `koanf:"NOSANDBOX"`
	ExcludeSwitches []string `koanf:"EXCLUDESWITCHES"`
}

type Search struct {
	URL         string        `koanf:"URL"`
	InputName   string        `koanf:"INPUTNAME"`
	Terms       []string      `koanf:"TERMS"`
	LinkText    string        `koanf:"LINKTEXT"`
	Timeout     time.Duration `koanf:"TIMEOUT"`
	Linger      time.Duration `koanf:"LINGER"`
	Parallelism int           `koanf:"PARALLELISM"`
	Preflight   bool          `koanf:"PREFLIGHT"`
}

type Config struct {
	koanf   *koanf.Koanf
	Browser Browser `koanf:"BROWSER"`
	Search  Search  `koanf:"SEARCH"`
}

const (
	delimiter = "_"
	prefix    = "SC" + delimiter

	BrowserSwitchEnableLogging = "enable-logging"
	SearchURLDefault           = "https://www.google.com/"
	SearchInputNameDefault     = "q"
	SearchTermDefault          = "Selenium"
	SearchTimeoutDefault       = time.Second * 5
	SearchLingerDefault        = time.Second * 10
)

// New loads the defaults, then the yaml file at path when it exists, then SC_ prefixed
// environment variables when includeEnv is set.
func New(path string, includeEnv bool) (*Config, error) {
	k, err := newKoanf()
	if err != nil {
		return nil, err
	}
	if _, err = os.Stat(path); err == nil {
		if err = k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config from yaml file: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error checking config file %s: %w", path, err)
	}
	if includeEnv {
		envProvider := env.ProviderWithValue(prefix, delimiter, environmentVariableModifier)
		if err = k.Load(envProvider, nil); err != nil {
			return nil, fmt.Errorf("error loading config from environment variables: %w", err)
		}
	}
	return unmarshal(k)
}

func NewFromMap(data map[string]interface{}) (*Config, error) {
	k, err := newKoanf()
	if err != nil {
		return nil, err
	}
	cmProvider := confmap.Provider(data, delimiter)
	if err = k.Load(cmProvider, nil); err != nil {
		return nil, err
	}
	return unmarshal(k)
}

func newKoanf() (*koanf.Koanf, error) {
	k := koanf.New(delimiter)
	if err := k.Load(confmap.Provider(defaults(), delimiter), nil); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}
	return k, nil
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	conf := Config{
		koanf: k,
	}
	if err := k.Unmarshal("", &conf); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &conf, nil
}

func (c *Config) Validate() error {
	if c.Search.URL == "" {
		return fmt.Errorf("field 'SEARCH_URL' is required")
	}
	u, err := url.Parse(c.Search.URL)
	if err != nil {
		return fmt.Errorf("field 'SEARCH_URL' is invalid: %w", err)
	}
	if !slices.Contains(validURLSchemes(), u.Scheme) || u.Host == "" {
		return fmt.Errorf("field 'SEARCH_URL' must be an absolute url with scheme one of: %s", strings.Join(validURLSchemes(), ", "))
	}
	if c.Search.InputName == "" {
		return fmt.Errorf("field 'SEARCH_INPUTNAME' is required")
	}
	if len(c.Search.Terms) == 0 {
		return fmt.Errorf("field 'SEARCH_TERMS' requires at least one term")
	}
	for _, term := range c.Search.Terms {
		if strings.TrimSpace(term) == "" {
			return fmt.Errorf("field 'SEARCH_TERMS' contains an empty term")
		}
	}
	if c.Search.Timeout <= 0 {
		return fmt.Errorf("field 'SEARCH_TIMEOUT' must be positive, but got %s", c.Search.Timeout)
	}
	if c.Search.Linger < 0 {
		return fmt.Errorf("field 'SEARCH_LINGER' must not be negative, but got %s", c.Search.Linger)
	}
	if c.Search.Parallelism < 1 {
		return fmt.Errorf("field 'SEARCH_PARALLELISM' must be at least 1, but got %d", c.Search.Parallelism)
	}
	return nil
}

func (c *Config) WriteFile(path string) error {
	data, err := c.koanf.Marshal(yaml.Parser())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Flatten() map[string]interface{} {
	return c.koanf.All()
}

// LinkTextFor returns the partial link text to look for once term has been submitted.
func (s Search) LinkTextFor(term string) string {
	if s.LinkText != "" {
		return s.LinkText
	}
	return term
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"BROWSER_PATH":            "",
		"BROWSER_HEADLESS":        false,
		"BROWSER_TRACE":           false,
		"BROWSER_STEALTH":         false,
		"BROWSER_NOSANDBOX":       true,
		"BROWSER_EXCLUDESWITCHES": []string{BrowserSwitchEnableLogging},
		"SEARCH_URL":              SearchURLDefault,
		"SEARCH_INPUTNAME":        SearchInputNameDefault,
		"SEARCH_TERMS":            []string{SearchTermDefault},
		"SEARCH_LINKTEXT":         "",
		"SEARCH_TIMEOUT":          SearchTimeoutDefault.String(),
		"SEARCH_LINGER":           SearchLingerDefault.String(),
		"SEARCH_PARALLELISM":      1,
		"SEARCH_PREFLIGHT":        false,
	}
}

func validURLSchemes() []string {
	return []string{
		"http",
		"https",
	}
}

func environmentVariableModifier(key string, value string) (string, any) {
	key = strings.TrimPrefix(key, prefix)
	if value == "" {
		return key, nil
	}
	if strings.Contains(value, ",") {
		return key, strings.Split(value, ",")
	}
	return key, value
}
