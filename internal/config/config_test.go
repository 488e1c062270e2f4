package config

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/multierr"

	"github.com/muurk/unitcam/internal/wifi"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %v, want %v", cfg.Version, CurrentVersion)
	}
	if cfg.JoinTimeout() != wifi.DefaultJoinTimeout {
		t.Errorf("JoinTimeout() = %v, want %v", cfg.JoinTimeout(), wifi.DefaultJoinTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestConfig_ProviderSelection(t *testing.T) {
	tests := []struct {
		name       string
		user       [2]string
		def        [2]string
		wantSSID   string
		wantSource wifi.CredentialSource
		wantOK     bool
	}{
		{"user wins", [2]string{"HomeNet", "pass123"}, [2]string{"Fallback", "x"}, "HomeNet", wifi.SourceUser, true},
		{"default when user empty", [2]string{"", ""}, [2]string{"Fallback", "x"}, "Fallback", wifi.SourceDefault, true},
		{"none", [2]string{}, [2]string{}, "", wifi.SourceNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			cfg.SetWiFi(tt.user[0], tt.user[1])
			cfg.SetDefaultWiFi(tt.def[0], tt.def[1])

			creds, source, ok := wifi.SelectCredentials(cfg)
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if creds.SSID != tt.wantSSID {
				t.Errorf("SSID = %v, want %v", creds.SSID, tt.wantSSID)
			}
			if source != tt.wantSource {
				t.Errorf("source = %v, want %v", source, tt.wantSource)
			}
		})
	}
}

func TestConfig_JoinTimeout(t *testing.T) {
	tests := []struct {
		ms   int
		want time.Duration
	}{
		{0, wifi.DefaultJoinTimeout},
		{-5, wifi.DefaultJoinTimeout},
		{2500, 2500 * time.Millisecond},
	}

	for _, tt := range tests {
		cfg := New()
		cfg.WiFi.JoinTimeoutMS = tt.ms
		if got := cfg.JoinTimeout(); got != tt.want {
			t.Errorf("JoinTimeout(%dms) = %v, want %v", tt.ms, got, tt.want)
		}
	}

	cfg := New()
	cfg.SetJoinTimeout(3 * time.Second)
	if cfg.WiFi.JoinTimeoutMS != 3000 {
		t.Errorf("JoinTimeoutMS = %v, want 3000", cfg.WiFi.JoinTimeoutMS)
	}
}

func TestConfig_Redacted(t *testing.T) {
	cfg := New()
	cfg.SetWiFi("HomeNet", "supersecret")

	red := cfg.Redacted()
	if red.WiFi.Password == "supersecret" {
		t.Error("Redacted() leaked the password")
	}
	if red.WiFi.DefaultPassword != "" {
		t.Errorf("DefaultPassword = %q, want empty", red.WiFi.DefaultPassword)
	}
	if cfg.WiFi.Password != "supersecret" {
		t.Error("Redacted() modified the original")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErrs  int
		wantMatch string
	}{
		{"valid", func(c *Config) { c.SetWiFi("HomeNet", "password1"); c.SetHostname("cam1") }, 0, ""},
		{"open network", func(c *Config) { c.SetWiFi("CafeWiFi", "") }, 0, ""},
		{"ssid too long", func(c *Config) { c.SetWiFi(strings.Repeat("a", 33), "") }, 1, "SSID too long"},
		{"short passphrase", func(c *Config) { c.SetWiFi("HomeNet", "pass123") }, 0, ""},
		{"long passphrase", func(c *Config) { c.SetDefaultWiFi("Def", strings.Repeat("p", 64)) }, 0, ""},
		{"password without ssid", func(c *Config) { c.SetWiFi("", "password1") }, 1, "without an SSID"},
		{"negative timeout", func(c *Config) { c.WiFi.JoinTimeoutMS = -1 }, 1, "negative"},
		{"hostname with dot", func(c *Config) { c.SetHostname("cam1.local") }, 1, "invalid character"},
		{"hostname with space", func(c *Config) { c.SetHostname("my cam") }, 1, "invalid character"},
		{"bad version", func(c *Config) { c.Version = 7 }, 1, "unsupported config version"},
		{
			"all reported",
			func(c *Config) {
				c.SetWiFi(strings.Repeat("a", 40), "short")
				c.WiFi.JoinTimeoutMS = -1
				c.SetHostname("-cam")
			},
			3, "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)

			err := cfg.Validate()
			if got := len(multierr.Errors(err)); got != tt.wantErrs {
				t.Fatalf("Validate() errors = %d (%v), want %d", got, err, tt.wantErrs)
			}
			if tt.wantMatch != "" && !strings.Contains(err.Error(), tt.wantMatch) {
				t.Errorf("Validate() = %v, want containing %q", err, tt.wantMatch)
			}
		})
	}
}

func TestWarnings(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErrs  int
		wantMatch string
	}{
		{"good passphrase", func(c *Config) { c.SetWiFi("HomeNet", "password1") }, 0, ""},
		{"open network", func(c *Config) { c.SetWiFi("CafeWiFi", "") }, 0, ""},
		{"short passphrase", func(c *Config) { c.SetWiFi("HomeNet", "pass123") }, 1, "wifi password is usually 8-63"},
		{"long passphrase", func(c *Config) { c.SetDefaultWiFi("Def", strings.Repeat("p", 64)) }, 1, "default wifi password"},
		{"both", func(c *Config) { c.SetWiFi("HomeNet", "short"); c.SetDefaultWiFi("Def", "tiny") }, 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)

			err := cfg.Warnings()
			if got := len(multierr.Errors(err)); got != tt.wantErrs {
				t.Fatalf("Warnings() = %d (%v), want %d", got, err, tt.wantErrs)
			}
			if tt.wantMatch != "" && !strings.Contains(err.Error(), tt.wantMatch) {
				t.Errorf("Warnings() = %v, want containing %q", err, tt.wantMatch)
			}
		})
	}
}

func TestValidateHostname(t *testing.T) {
	tests := []struct {
		hostname string
		wantErr  bool
	}{
		{"", false},
		{"cam1", false},
		{"Unit-Cam-2", false},
		{"cam_1", true},
		{"cam-", true},
		{strings.Repeat("h", 64), true},
	}

	for _, tt := range tests {
		err := ValidateHostname(tt.hostname)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateHostname(%q) error = %v, wantErr %v", tt.hostname, err, tt.wantErr)
		}
	}
}
