package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/z9m/backdrop/pkg/errors"
	"github.com/z9m/backdrop/pkg/layout"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Layout != layout.DefaultConfig() {
		t.Errorf("Layout = %+v, want defaults", c.Layout)
	}
	if c.Assets.Timeout.Duration != DefaultAssetTimeout {
		t.Errorf("asset timeout = %v", c.Assets.Timeout)
	}
	if c.Assets.Brightness != DefaultBrightness {
		t.Errorf("brightness = %d", c.Assets.Brightness)
	}
	if c.Profiles.MongoDatabase != "backdrop" {
		t.Errorf("mongo database = %q", c.Profiles.MongoDatabase)
	}
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
[layout]
h_spacing = 24
min_anchor_height = 40

[cache]
ttl = "72h"

[assets]
timeout = "5s"
brightness = 35
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Layout.HSpacing != 24 || c.Layout.MinAnchorHeight != 40 {
		t.Errorf("layout = %+v", c.Layout)
	}
	if c.Layout.VSpacing != layout.DefaultVSpacing {
		t.Errorf("unset v_spacing = %v, want default", c.Layout.VSpacing)
	}
	if c.Cache.TTL.Duration != 72*time.Hour {
		t.Errorf("ttl = %v", c.Cache.TTL)
	}
	if c.Assets.Timeout.Duration != 5*time.Second || c.Assets.Brightness != 35 {
		t.Errorf("assets = %+v", c.Assets)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"unknown key", "[layout]\nwobble = 1\n", "unknown config keys: layout.wobble"},
		{"bad duration", "[assets]\ntimeout = \"soon\"\n", "decode config"},
		{"bad syntax", "[layout\n", "decode config"},
		{"invalid tunable", "[layout]\nescape_step = -1\n", "escape step"},
		{"brightness range", "[assets]\nbrightness = 150\n", "brightness"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("code = %s, want INVALID_INPUT", errors.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// Missing default file is fine.
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load default: %v", err)
	}
	if c.Layout != layout.DefaultConfig() {
		t.Error("missing file should give defaults")
	}

	// Missing explicit file is not.
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load missing explicit = %v, want FILE_NOT_FOUND", err)
	}

	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[layout]\nv_spacing = 12\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Layout.VSpacing != 12 {
		t.Errorf("v_spacing = %v, want 12", c.Layout.VSpacing)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	want := Default()
	want.Cache.Disabled = true
	want.Profiles.Path = "/etc/backdrop/overlays.json"

	var buf bytes.Buffer
	if err := want.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v\n%s", err, buf.String())
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	if p, _ := DefaultPath(); p != "/tmp/xdg-config/backdrop/config.toml" {
		t.Errorf("DefaultPath() = %s", p)
	}
	if d, _ := CacheDir(); d != "/tmp/xdg-cache/backdrop" {
		t.Errorf("CacheDir() = %s", d)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	home, _ := os.UserHomeDir()
	if d, _ := CacheDir(); d != filepath.Join(home, ".cache", "backdrop") {
		t.Errorf("CacheDir() without XDG = %s", d)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/x.json"); got != filepath.Join(home, "x.json") {
		t.Errorf("expandHome = %s", got)
	}
	if got := expandHome("/abs/x.json"); got != "/abs/x.json" {
		t.Errorf("absolute path changed: %s", got)
	}
}
