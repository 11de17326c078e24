package shared

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvSettingsPath = "ISSUANCE_SETTINGS"
	EnvStorePath    = "ISSUANCE_STORE_PATH"
	EnvMirrorURL    = "ISSUANCE_MIRROR_URL"
	EnvLogLevel     = "ISSUANCE_LOG_LEVEL"
	EnvLogFormat    = "ISSUANCE_LOG_FORMAT"

	DefaultReplyTimeout = 2 * time.Minute
)

// Settings is the daemon level configuration shared by the examples.
type Settings struct {
	Network    string             `yaml:"network"`
	Controller ControllerSettings `yaml:"controller"`
	Hooks      HookSettings       `yaml:"hooks"`
	Mirror     MirrorSettings     `yaml:"mirror"`
	Store      StoreSettings      `yaml:"store"`
	Runtime    RuntimeSettings    `yaml:"runtime"`
	Log        LogConfig          `yaml:"log"`
}

type ControllerSettings struct {
	Address     string `yaml:"address"`
	CoreAddress string `yaml:"coreAddress"`
	Subdenom    string `yaml:"subdenom"`
	Decimals    uint   `yaml:"decimals"`
}

type HookSettings struct {
	PuppeteerAddress string `yaml:"puppeteerAddress"`
	FeedURL          string `yaml:"feedUrl"`
}

type MirrorSettings struct {
	BaseURL string `yaml:"baseUrl"`
	APIKey  string `yaml:"apiKey"`
}

type StoreSettings struct {
	Path string `yaml:"path"`
}

type RuntimeSettings struct {
	ReplyTimeout time.Duration `yaml:"replyTimeout"`
}

// DefaultSettings returns settings for an in-memory testnet deployment.
func DefaultSettings() Settings {
	return Settings{
		Network: NetworkTestnet,
		Runtime: RuntimeSettings{ReplyTimeout: DefaultReplyTimeout},
		Log:     LogConfig{Level: "info", Format: LogFormatConsole},
	}
}

// LoadSettings reads a YAML settings file over the defaults and applies
// environment overrides. An empty path falls back to ISSUANCE_SETTINGS; if
// that is unset only defaults and the environment are used.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	resolvedPath := strings.TrimSpace(path)
	if resolvedPath == "" {
		resolvedPath = strings.TrimSpace(os.Getenv(EnvSettingsPath))
	}
	if resolvedPath != "" {
		data, err := os.ReadFile(resolvedPath)
		if err != nil {
			return Settings{}, fmt.Errorf("failed to read settings: %w", err)
		}
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return Settings{}, fmt.Errorf("failed to parse settings %s: %w", resolvedPath, err)
		}
	}

	applySettingsEnv(&settings)

	network, err := NormalizeNetwork(settings.Network)
	if err != nil {
		return Settings{}, err
	}
	settings.Network = network
	if settings.Runtime.ReplyTimeout <= 0 {
		settings.Runtime.ReplyTimeout = DefaultReplyTimeout
	}
	return settings, nil
}

func applySettingsEnv(settings *Settings) {
	if value := firstNonEmptyEnv("HEDERA_NETWORK"); value != "" {
		settings.Network = value
	}
	if value := firstNonEmptyEnv(EnvStorePath); value != "" {
		settings.Store.Path = value
	}
	if value := firstNonEmptyEnv(EnvMirrorURL); value != "" {
		settings.Mirror.BaseURL = value
	}
	if value := firstNonEmptyEnv(EnvLogLevel); value != "" {
		settings.Log.Level = value
	}
	if value := firstNonEmptyEnv(EnvLogFormat); value != "" {
		settings.Log.Format = value
	}
}
