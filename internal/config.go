package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/mealboard/internal/mealdb"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	MealDB  MealDBConfig      `yaml:"mealdb"`
	Session SessionConfig     `yaml:"session"`
	Events  EventsConfig      `yaml:"events"`
	UI      UIConfig          `yaml:"ui"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.MealDB.Validate(); err != nil {
		return err
	}
	if err := c.Session.Validate(); err != nil {
		return err
	}
	return c.Events.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// MealDBConfig points at the recipe API.
type MealDBConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Validate validates the recipe API configuration.
func (c *MealDBConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(absoluteURL)),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Millisecond)),
	)
}

func absoluteURL(value any) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("must be an absolute URL")
	}
	return nil
}

// SessionConfig controls how long idle browser sessions are kept.
// IdleTimeout 0 keeps sessions forever.
type SessionConfig struct {
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// Validate validates the session configuration.
func (c *SessionConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.IdleTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.SweepInterval, validation.When(c.IdleTimeout > 0, validation.Required, validation.Min(time.Second))),
	)
}

// EventsConfig holds event stream settings.
type EventsConfig struct {
	KeepAlive time.Duration `yaml:"keep_alive"`
}

// Validate validates the event stream configuration.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.KeepAlive, validation.Required, validation.Min(time.Second)),
	)
}

// UIConfig holds page rendering settings.
//
// TemplatesDir, when set, holds *.html files that override the embedded
// templates. Changes there are picked up without a restart.
type UIConfig struct {
	TemplatesDir string `yaml:"templates_dir"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		MealDB: MealDBConfig{
			BaseURL: mealdb.DefaultBaseURL,
			Timeout: 10 * time.Second,
		},
		Session: SessionConfig{
			IdleTimeout:   30 * time.Minute,
			SweepInterval: time.Minute,
		},
		Events: EventsConfig{
			KeepAlive: 15 * time.Second,
		},
	}
}
