package store

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config is the resolved modelnav configuration.
type Config interface {
	BasePath() string
	// Notation names the converter: "yaml" or "remote".
	Notation() string
	RemoteURL() string
	RemoteTimeout() time.Duration
	EditorTimeout() time.Duration
}

const (
	NotationYAML   = "yaml"
	NotationRemote = "remote"
)

// LoadConfig reads .modelnav.yaml from MODELNAV_CONFIG_PATH or the working
// directory. Every key can be overridden with a MODELNAV_ environment
// variable, e.g. MODELNAV_REMOTE_URL.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", "~/.modelnav")
	v.SetDefault("notation", NotationYAML)
	v.SetDefault("remote.url", "")
	v.SetDefault("remote.timeout", "5s")
	v.SetDefault("editor.timeout", "0s")
	v.SetConfigName(".modelnav") // .yaml is implicit
	v.SetEnvPrefix("MODELNAV")
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	if override := os.Getenv("MODELNAV_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	cfg := &fileConfig{
		Path:         path,
		NotationName: v.GetString("notation"),
		Remote:       v.GetString("remote.url"),
		RemoteWait:   v.GetDuration("remote.timeout"),
		EditorWait:   v.GetDuration("editor.timeout"),
	}
	switch cfg.NotationName {
	case NotationYAML, NotationRemote:
	default:
		return nil, fmt.Errorf("store: unknown notation %q", cfg.NotationName)
	}
	if cfg.NotationName == NotationRemote && cfg.Remote == "" {
		return nil, fmt.Errorf("store: notation %q needs remote.url", NotationRemote)
	}
	return cfg, nil
}

// StaticConfig is a Config with fixed values, for tests and embedding.
type StaticConfig struct {
	Path string
}

func (s StaticConfig) BasePath() string             { return s.Path }
func (s StaticConfig) Notation() string             { return NotationYAML }
func (s StaticConfig) RemoteURL() string            { return "" }
func (s StaticConfig) RemoteTimeout() time.Duration { return 0 }
func (s StaticConfig) EditorTimeout() time.Duration { return 0 }

var envReplacer = strings.NewReplacer(".", "_")

type fileConfig struct {
	Path         string        `json:"path"`
	NotationName string        `json:"notation"`
	Remote       string        `json:"remoteURL"`
	RemoteWait   time.Duration `json:"remoteTimeout"`
	EditorWait   time.Duration `json:"editorTimeout"`
}

func (f *fileConfig) BasePath() string             { return f.Path }
func (f *fileConfig) Notation() string             { return f.NotationName }
func (f *fileConfig) RemoteURL() string            { return f.Remote }
func (f *fileConfig) RemoteTimeout() time.Duration { return f.RemoteWait }
func (f *fileConfig) EditorTimeout() time.Duration { return f.EditorWait }
