package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"skyreview/internal/config"
	"skyreview/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("SKYREVIEW_BATCH", "")
	t.Setenv("SKYREVIEW_API_TOKEN", "")
	t.Setenv("SKYREVIEW_TEXT_BASE_URL", "")

	cfg := testsupport.NewConfig(t, opts...)
	batch := cfg.BatchDir()
	testsupport.WriteArticle(t, batch, "a1", testsupport.Descriptor{
		"event_type":    "flood",
		"location_name": "Porto Alegre",
		"source":        "planet",
	}, "p_20230101.png")
	testsupport.WriteArticle(t, batch, "a2", testsupport.Descriptor{"event_type": "wildfire"})
	testsupport.WriteArticle(t, batch, "a3", testsupport.Descriptor{"event_type": "no change"})

	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIContext(t, context.Background(), args, configPath)
}

func runCLIContext(t *testing.T, ctx context.Context, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
