package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config is the optional config file (~/.config/cropdoc/config.yaml). Fields
// are pointers so "not set" is distinguishable from zero values; explicit CLI
// flags always win.
type Config struct {
	ModelPath string `yaml:"model_path"`
	DataPath  string `yaml:"data_path"`

	ContextSize *int64 `yaml:"context_size"`
	GPULayers   *int64 `yaml:"gpu_layers"`

	MaxTokens     *int64   `yaml:"max_tokens"`
	Temperature   *float64 `yaml:"temperature"`
	TopP          *float64 `yaml:"top_p"`
	RepeatPenalty *float64 `yaml:"repeat_penalty"`

	Host string `yaml:"host"`
	Port *int64 `yaml:"port"`

	HistoryLimit  *int64 `yaml:"history_limit"`
	EnableHistory *bool  `yaml:"enable_history"`
	EnableAuth    *bool  `yaml:"enable_auth"`

	UseTunnel      *bool  `yaml:"use_tunnel"`
	TunnelAgentURL string `yaml:"tunnel_agent_url"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "cropdoc", "config.yaml")
}

// loadConfig reads the config file. A missing file yields a zero Config.
func loadConfig() Config {
	var cfg Config
	path := configPath()
	if path == "" {
		return cfg
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	_ = yaml.Unmarshal(raw, &cfg)
	return cfg
}

// applyCommonConfig fills model and sampling settings from the config file
// when the corresponding flag was not set on the command line.
func applyCommonConfig(c *cli.Command, cfg Config) {
	if cfg.ModelPath != "" && !c.IsSet("model") {
		modelPath = cfg.ModelPath
	}
	if cfg.DataPath != "" && !c.IsSet("data") {
		dataPath = cfg.DataPath
	}
	if cfg.ContextSize != nil && !c.IsSet("max-context") {
		contextSize = *cfg.ContextSize
	}
	if cfg.GPULayers != nil && !c.IsSet("gpu-layers") {
		gpuLayers = *cfg.GPULayers
	}
	if cfg.MaxTokens != nil && !c.IsSet("max-tokens") {
		maxTokens = *cfg.MaxTokens
	}
	if cfg.Temperature != nil && !c.IsSet("temp") && !c.IsSet("temperature") {
		temperature = *cfg.Temperature
	}
	if cfg.TopP != nil && !c.IsSet("top-p") && !c.IsSet("top_p") {
		topP = *cfg.TopP
	}
	if cfg.RepeatPenalty != nil && !c.IsSet("repeat-penalty") && !c.IsSet("repeat_penalty") {
		repeatPenalty = *cfg.RepeatPenalty
	}
	if cfg.HistoryLimit != nil && !c.IsSet("history-limit") {
		historyLimit = *cfg.HistoryLimit
	}
	if cfg.EnableHistory != nil && !c.IsSet("enable-history") {
		enableHistory = *cfg.EnableHistory
	}
	if cfg.EnableAuth != nil && !c.IsSet("enable-auth") {
		enableAuth = *cfg.EnableAuth
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}
