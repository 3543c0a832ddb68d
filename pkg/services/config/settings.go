package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/spf13/viper"
)

const envPrefix = "PULSE"

type Settings struct {
	Source   SourceSettings `mapstructure:"source"`
	Mirror   MirrorSettings `mapstructure:"mirror"`
	Server   ServerSettings `mapstructure:"server"`
	Export   ExportSettings `mapstructure:"export"`
	Timezone string         `mapstructure:"timezone"`
}

type SourceSettings struct {
	// Profile names a section of the profiles file. Explicit fields override it.
	Profile               string        `mapstructure:"profile"`
	Kind                  string        `mapstructure:"kind"`
	URL                   string        `mapstructure:"url"`
	Token                 string        `mapstructure:"token"`
	Path                  string        `mapstructure:"path"`
	PerPage               int           `mapstructure:"per_page"`
	Timeout               time.Duration `mapstructure:"timeout"`
	MaxConcurrentRequests int           `mapstructure:"max_concurrent_requests"`
}

type MirrorSettings struct {
	Path     string        `mapstructure:"path"`
	Interval time.Duration `mapstructure:"interval"`
}

type ServerSettings struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type ExportSettings struct {
	Dir    string `mapstructure:"dir"`
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
	Region string `mapstructure:"region"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.profile", "")
	v.SetDefault("source.kind", string(domain.SourceKindFile))
	v.SetDefault("source.url", "")
	v.SetDefault("source.token", "")
	v.SetDefault("source.path", "data")
	v.SetDefault("source.per_page", 200)
	v.SetDefault("source.timeout", 10*time.Second)
	v.SetDefault("source.max_concurrent_requests", 4)
	v.SetDefault("mirror.path", "")
	v.SetDefault("mirror.interval", 15*time.Minute)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("export.dir", "reports")
	v.SetDefault("export.bucket", "")
	v.SetDefault("export.prefix", "")
	v.SetDefault("export.region", "")
	v.SetDefault("timezone", "Local")
}

// LoadSettings reads the YAML settings file at path, if any, over the defaults.
// Every key can be overridden from the environment, e.g. PULSE_SOURCE_URL.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &settings, nil
}

// Location resolves the configured timezone
func (s *Settings) Location() (*time.Location, error) {
	if s.Timezone == "" || s.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

// SourceProfile merges the named registry profile with the explicit source settings.
// registry may be nil when no profile is configured.
func (s *Settings) SourceProfile(ctx context.Context, registry Registry) (*domain.SourceProfile, error) {
	profile := &domain.SourceProfile{Name: "default", Kind: domain.SourceKind(s.Source.Kind)}

	if s.Source.Profile != "" {
		if registry == nil {
			return nil, fmt.Errorf("profile %s requested but no profiles file is loaded", s.Source.Profile)
		}
		p, err := registry.GetConfig(ctx, s.Source.Profile)
		if err != nil {
			return nil, err
		}
		profile = p
	}

	if s.Source.URL != "" {
		profile.URL = s.Source.URL
	}
	if s.Source.Token != "" {
		profile.Token = s.Source.Token
	}
	if s.Source.Path != "" && profile.Path == "" {
		profile.Path = s.Source.Path
	}
	if profile.Kind == "" {
		profile.Kind = domain.SourceKindFile
	}
	return profile, nil
}
