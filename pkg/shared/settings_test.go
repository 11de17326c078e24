package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func clearSettingsEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"HEDERA_NETWORK", EnvSettingsPath, EnvStorePath, EnvMirrorURL, EnvLogLevel, EnvLogFormat} {
		t.Setenv(key, "")
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	clearSettingsEnv(t)

	settings, err := LoadSettings("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Network != NetworkTestnet {
		t.Fatalf("expected testnet, got %q", settings.Network)
	}
	if settings.Runtime.ReplyTimeout != DefaultReplyTimeout {
		t.Fatalf("expected default reply timeout, got %s", settings.Runtime.ReplyTimeout)
	}
}

func TestLoadSettingsFromFile(t *testing.T) {
	clearSettingsEnv(t)
	path := filepath.Join(t.TempDir(), "issuance.yaml")
	content := `
network: mainnet
controller:
  address: 0.0.5005
  coreAddress: 0.0.1001
  subdenom: udrop
  decimals: 6
hooks:
  puppeteerAddress: 0.0.2002
store:
  path: /var/lib/issuance/kv.db
runtime:
  replyTimeout: 45s
log:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Network != NetworkMainnet {
		t.Fatalf("expected mainnet, got %q", settings.Network)
	}
	if settings.Controller.Subdenom != "udrop" || settings.Controller.Decimals != 6 {
		t.Fatalf("unexpected controller settings: %+v", settings.Controller)
	}
	if settings.Hooks.PuppeteerAddress != "0.0.2002" {
		t.Fatalf("unexpected puppeteer address: %q", settings.Hooks.PuppeteerAddress)
	}
	if settings.Runtime.ReplyTimeout != 45*time.Second {
		t.Fatalf("expected 45s, got %s", settings.Runtime.ReplyTimeout)
	}
	if settings.Log.Format != LogFormatJSON {
		t.Fatalf("expected json log format, got %q", settings.Log.Format)
	}
}

func TestLoadSettingsEnvOverrides(t *testing.T) {
	clearSettingsEnv(t)
	t.Setenv(EnvStorePath, "/tmp/override.db")
	t.Setenv(EnvLogLevel, "warn")

	settings, err := LoadSettings("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Store.Path != "/tmp/override.db" {
		t.Fatalf("expected store override, got %q", settings.Store.Path)
	}
	if settings.Log.Level != "warn" {
		t.Fatalf("expected log level override, got %q", settings.Log.Level)
	}
}

func TestLoadSettingsInvalidYAML(t *testing.T) {
	clearSettingsEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("network: [unterminated"), 0o644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
	if _, err := LoadSettings(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	clearSettingsEnv(t)
	if _, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected read error")
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buffer bytes.Buffer
	logger := NewLogger("issuance", LogConfig{Level: "debug", Format: LogFormatJSON}, &buffer)
	logger.Debug().Str("denom", "udrop").Msg("hello")

	output := buffer.String()
	if !strings.Contains(output, `"app":"issuance"`) || !strings.Contains(output, `"denom":"udrop"`) {
		t.Fatalf("unexpected log output: %s", output)
	}
}

func TestParseLogLevel(t *testing.T) {
	if ParseLogLevel("WARNING") != zerolog.WarnLevel {
		t.Fatal("expected warn level")
	}
	if ParseLogLevel("off") != zerolog.Disabled {
		t.Fatal("expected disabled level")
	}
	if ParseLogLevel("verbose") != zerolog.InfoLevel {
		t.Fatal("expected info fallback")
	}
}
