package config

import (
	"context"
	"fmt"
	"sort"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

// Registry reads named record source profiles from an ini file such as ~/.pulsecfg:
//
//	[prod]
//	kind = pocketbase
//	url = https://pb.example.com
//	token = ...
type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetConfig(ctx context.Context, profile string) (*domain.SourceProfile, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	sort.Strings(profiles)
	return profiles, nil
}

func (cr *cfgRegistry) GetConfig(_ context.Context, profile string) (*domain.SourceProfile, error) {
	section, err := cr.cfg.GetSection(profile)
	if err != nil || len(section.Keys()) == 0 {
		return nil, fmt.Errorf("profile %s not found", profile)
	}

	kind := domain.SourceKind(section.Key("kind").MustString(string(domain.SourceKindPocketBase)))
	switch kind {
	case domain.SourceKindPocketBase, domain.SourceKindDuckDB, domain.SourceKindFile:
	default:
		return nil, fmt.Errorf("profile %s: unknown source kind %q", profile, kind)
	}

	return &domain.SourceProfile{
		Name:  profile,
		Kind:  kind,
		URL:   section.Key("url").String(),
		Token: section.Key("token").String(),
		Path:  section.Key("path").String(),
	}, nil
}
