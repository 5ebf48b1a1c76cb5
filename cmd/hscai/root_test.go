package main

import (
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "hscai" {
			t.Errorf("expected use 'hscai', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions and version", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty descriptions")
		}
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("has directory flags", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name      string
			shorthand string
		}{
			{"config", "c"},
			{"exam-dir", "d"},
			{"store-dir", ""},
			{"store-format", ""},
		}
		for _, tt := range tests {
			flag := cmd.PersistentFlags().Lookup(tt.name)
			if flag == nil {
				t.Errorf("expected %s flag", tt.name)
				continue
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("%s: expected shorthand %q, got %q", tt.name, tt.shorthand, flag.Shorthand)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := []string{"sync", "questions", "search", "report", "inspect", "tag", "watch", "init", "version"}
		for _, name := range want {
			sub, _, err := cmd.Find([]string{name})
			if err != nil || sub == cmd {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})

	t.Run("silences usage on errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage || !cmd.SilenceErrors {
			t.Error("expected usage and errors to be silenced")
		}
	})
}

// TestSlug tests revision file names derived from queries.
func TestSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query string
		want  string
	}{
		{"integration by substitution", "integration-by-substitution"},
		{"  Geometric   Series!! ", "geometric-series"},
		{"f(x) = x^2", "f-x-x-2"},
		{"???", "revision"},
		{"", "revision"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()
			if got := slug(tt.query); got != tt.want {
				t.Errorf("slug(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}
