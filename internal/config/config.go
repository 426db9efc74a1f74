package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

var validate = validator.New()

type Config struct {
	Environment string        `yaml:"environment" validate:"required,oneof=production development"`
	XRPL        XRPLConfig    `yaml:"xrpl" validate:"required"`
	NATS        NATSConfig    `yaml:"nats"`
	TokenStore  TokenStoreCfg `yaml:"tokenstore"`
	Log         LogCfg        `yaml:"log"`
}

type XRPLConfig struct {
	URL       string `yaml:"url" validate:"required,url"`
	FaucetURL string `yaml:"faucet_url" validate:"omitempty,url"`
}

type NATSConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url" validate:"required_if=Enabled true,omitempty,url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

type TokenStoreCfg struct {
	Directory string `yaml:"directory"`
}

type LogCfg struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}

	// defaults
	if cfg.NATS.SubjectPrefix == "" {
		cfg.NATS.SubjectPrefix = "xrpl.events"
	}
	if cfg.TokenStore.Directory == "" {
		cfg.TokenStore.Directory = "./data/tokens"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if err := validate.Struct(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
