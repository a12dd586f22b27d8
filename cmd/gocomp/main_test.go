package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/compositor"
)

const redJob = `
output {
  width  = 4
  height = 3
}

node "rgb" "red" {
  color = [1, 0, 0, 1]
}

node "invert" "inv" {
  inputs = { Fac = 0 }
}

node "composite" "out" {
  path = "renders/out.png"
}

node "viewer" "preview" {}

link {
  from = "red.RGBA"
  to   = "inv.Color"
}

link {
  from = "inv.Color"
  to   = "out.Image"
}

link {
  from = "red.RGBA"
  to   = "preview.Image"
}
`

func writeJob(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(func() { compositor.SetLogger(nil) })
	var out, errOut bytes.Buffer
	err := run(t.Context(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func exitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

func TestRender(t *testing.T) {
	path := writeJob(t, redJob)

	out, _, err := runCmd(t, "render", "--workers", "2", path)
	require.NoError(t, err)
	assert.Contains(t, out, "rendered 1 output(s)")

	f, err := os.Open(filepath.Join(filepath.Dir(path), "renders", "out.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())
	r, g, b, a := img.At(2, 1).RGBA()
	assert.Equal(t, []uint32{0xffff, 0, 0, 0xffff}, []uint32{r, g, b, a})
}

func TestValidate(t *testing.T) {
	path := writeJob(t, redJob)

	out, _, err := runCmd(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok (4 nodes")
	assert.Contains(t, out, "2 outputs")
	assert.NoFileExists(t, filepath.Join(filepath.Dir(path), "renders", "out.png"))
}

func TestNodes(t *testing.T) {
	out, _, err := runCmd(t, "nodes")
	require.NoError(t, err)
	assert.Contains(t, out, "KIND")
	for _, want := range []string{"mix", "Fac:value,Image1:color,Image2:color", "composite", "texture"} {
		assert.Contains(t, out, want)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(compositor.NodeTypes())+1)
}

func TestExitCodes(t *testing.T) {
	valid := writeJob(t, redJob)
	unknownKind := writeJob(t, `
output {
  width  = 1
  height = 1
}
node "bokeh" "b" {}
`)
	badSize := writeJob(t, `
output {
  width  = 0
  height = 1
}
`)

	tests := []struct {
		name string
		env  map[string]string
		args []string
		want int
	}{
		{"missing job argument", nil, []string{"render"}, exitUsage},
		{"extra argument", nil, []string{"nodes", "x"}, exitUsage},
		{"unknown flag", nil, []string{"render", "--frobnicate", valid}, exitUsage},
		{"bad log level", nil, []string{"--log-level", "loud", "nodes"}, exitUsage},
		{"bad env quality", map[string]string{"GOCOMP_RENDER_QUALITY": "ultra"}, []string{"render", valid}, exitUsage},
		{"missing config file", nil, []string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "nodes"}, exitUsage},
		{"missing job file", nil, []string{"render", filepath.Join(t.TempDir(), "none.hcl")}, exitJob},
		{"unknown node kind", nil, []string{"validate", unknownKind}, exitJob},
		{"invalid canvas", nil, []string{"render", badSize}, exitJob},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, _, err := runCmd(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, exitCode(err), "err = %v", err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "gocomp.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  format: json\nrender:\n  workers: 3\n  quality: medium\n"), 0o600))
	t.Setenv("GOCOMP_RENDER_TILE_SIZE", "32")
	t.Setenv("GOCOMP_RENDER_WORKERS", "5")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("quality", "high", "")
	flags.String("sampler", "bilinear", "")
	require.NoError(t, flags.Set("quality", "low"))

	cfg, err := loadConfig(cfgPath, flags)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Render.Workers, "env overrides the config file")
	assert.Equal(t, 32, cfg.Render.TileSize)
	assert.Equal(t, "low", cfg.Render.Quality, "a set flag overrides the config file")
	assert.Equal(t, "bilinear", cfg.Render.Sampler)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRate)
}

func TestConfigValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Log:     LogConfig{Level: "info", Format: "text"},
			Render:  RenderConfig{Quality: "high", Sampler: "bilinear"},
			Tracing: TracingConfig{SampleRate: 1},
		}
	}
	good := base()
	require.NoError(t, good.Validate())

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"level", func(c *Config) { c.Log.Level = "trace" }},
		{"format", func(c *Config) { c.Log.Format = "xml" }},
		{"workers", func(c *Config) { c.Render.Workers = -1 }},
		{"tile size", func(c *Config) { c.Render.TileSize = -8 }},
		{"quality", func(c *Config) { c.Render.Quality = "ultra" }},
		{"sampler", func(c *Config) { c.Render.Sampler = "lanczos" }},
		{"sample rate", func(c *Config) { c.Tracing.SampleRate = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.modify(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger("warn", "json", &buf)
	l.Info("hidden")
	l.Warn("shown", "k", 1)
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":1`)

	buf.Reset()
	l = newLogger("bogus", "text", &buf)
	l.Debug("hidden")
	l.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestWatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.hcl")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o600))

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, slog.New(slog.DiscardHandler), func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("b"), 0o600)
		select {
		case <-changed:
			return true
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watchFile did not return after cancel")
	}
}
