package config

import (
	"os"
	"path/filepath"
	"testing"

	"raffle-spinner.klederson.com/internal/spin"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if p.Spinner != spin.DefaultSettings() || p.ItemHeight != DefaultItemHeight || p.DBDriver != "sqlite" {
		t.Errorf("unexpected defaults: %+v", p)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "spinner:\n  min_spin_duration: 3\n  deceleration_rate: fast\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Spinner.MinSpinDuration != 3 || p.Spinner.DecelerationRate != spin.DecelerationFast {
		t.Errorf("spinner = %+v", p.Spinner)
	}
	if p.ItemHeight != DefaultItemHeight {
		t.Errorf("item height = %v, want default", p.ItemHeight)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("spinner: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSave_ThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := Defaults()
	want.Spinner = spin.Settings{MinSpinDuration: 7.5, DecelerationRate: spin.DecelerationSlow}
	want.DBDriver = "postgres"
	want.DBPath = "postgres://localhost/raffle"

	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SPINNER_MIN_SPIN_DURATION", "4.5")
	t.Setenv("SPINNER_DECELERATION_RATE", "SLOW")
	t.Setenv("SPINNER_DB", "/tmp/draws.db")

	p := Defaults()
	if err := p.ApplyEnv(); err != nil {
		t.Fatal(err)
	}
	if p.Spinner.MinSpinDuration != 4.5 || p.Spinner.DecelerationRate != spin.DecelerationSlow {
		t.Errorf("spinner = %+v", p.Spinner)
	}
	if p.DBPath != "/tmp/draws.db" {
		t.Errorf("db path = %q", p.DBPath)
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	t.Setenv("SPINNER_MIN_SPIN_DURATION", "fast")
	p := Defaults()
	if err := p.ApplyEnv(); err == nil {
		t.Error("expected error for non-numeric duration")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Preferences)
	}{
		{"zero duration", func(p *Preferences) { p.Spinner.MinSpinDuration = 0 }},
		{"bad rate", func(p *Preferences) { p.Spinner.DecelerationRate = "ludicrous" }},
		{"zero item height", func(p *Preferences) { p.ItemHeight = 0 }},
		{"bad log level", func(p *Preferences) { p.LogLevel = "loud" }},
		{"bad driver", func(p *Preferences) { p.DBDriver = "mysql" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Defaults()
			tt.mutate(&p)
			if err := p.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
