package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kbforge/klegen/pkg/errors"
	"github.com/kbforge/klegen/pkg/pipeline"
)

func TestRootCommandSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"generate", "info", "keys", "diagram", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.SetLogLevel(LogDebug)

	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("log level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestLoadConfigDefaultMissing(t *testing.T) {
	dir := t.TempDir()
	restore := chdir(t, dir)
	defer restore()

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() with absent default file: %v", err)
	}
	if cfg.OutDir != "" || cfg.Columns != "" || cfg.NoRouting || cfg.Diagram {
		t.Errorf("absent default config should be empty, got %+v", cfg)
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Fatalf("expected invalid path error, got %v", err)
	}
}

func TestLoadConfigParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "klegen.toml")
	content := "out_dir = \"build\"\ncolumns = \"pos\"\nno_routing = true\ndiagram = true\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.OutDir != "build" {
		t.Errorf("OutDir = %q, want %q", cfg.OutDir, "build")
	}
	if cfg.Columns != "pos" {
		t.Errorf("Columns = %q, want %q", cfg.Columns, "pos")
	}
	if !cfg.NoRouting || !cfg.Diagram {
		t.Errorf("bool settings not parsed: %+v", cfg)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("out_dir = [broken"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := loadConfig(path)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestApplyConfigPrecedence(t *testing.T) {
	cfg := &Config{OutDir: "from-file", Columns: "pos", NoRouting: true, Diagram: true}

	cmd := &cobra.Command{Use: "test"}
	var opts pipeline.Options
	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "", "")
	cmd.Flags().StringVar(&opts.Policy, "columns", "", "")
	cmd.Flags().BoolVar(&opts.NoRouting, "no-routing", false, "")
	cmd.Flags().BoolVar(&opts.Diagram, "diagram", false, "")

	// Flag set on the command line wins over the file.
	if err := cmd.Flags().Set("out", "from-flag"); err != nil {
		t.Fatal(err)
	}
	opts.OutDir = "from-flag"

	applyConfig(cmd, cfg, &opts)

	if opts.OutDir != "from-flag" {
		t.Errorf("OutDir = %q, want flag value to win", opts.OutDir)
	}
	if opts.Policy != "pos" {
		t.Errorf("Policy = %q, want file value %q", opts.Policy, "pos")
	}
	if !opts.NoRouting {
		t.Error("NoRouting should come from the file when the flag is unset")
	}
	if !opts.Diagram {
		t.Error("Diagram should come from the file when the flag is unset")
	}
}

// chdir switches the working directory for a test and returns a restore func.
func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	return func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	}
}
