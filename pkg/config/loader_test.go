package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoader_LoadDefaults(t *testing.T) {
	cfg, err := NewLoader(WithConfigPaths()).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "planner-service" {
		t.Errorf("expected app name 'planner-service', got %s", cfg.App.Name)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected HTTP port 8080, got %d", cfg.HTTP.Port)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Log.Level)
	}
	if got := cfg.Planning.PricePerMeter["duct"]; got != 900.0 {
		t.Errorf("expected duct price 900, got %v", got)
	}
	if got := cfg.Planning.DurationPerMeter["aerial"]; got != 2.0 {
		t.Errorf("expected aerial duration 2, got %v", got)
	}
	if cfg.Planning.MaxWorkersPerInfra != 4 {
		t.Errorf("expected max workers 4, got %d", cfg.Planning.MaxWorkersPerInfra)
	}
	if got := len(cfg.Planning.PhaseBudgetFractions); got != 4 {
		t.Fatalf("expected 4 phase fractions, got %d", got)
	}
	if cfg.Planning.PhaseBudgetFractions[0] != 0.40 {
		t.Errorf("expected first phase fraction 0.40, got %v", cfg.Planning.PhaseBudgetFractions[0])
	}
	if cfg.Planning.GeneratorAutonomyHours != 20.0 {
		t.Errorf("expected generator autonomy 20h, got %v", cfg.Planning.GeneratorAutonomyHours)
	}
	if got := cfg.Planning.Priority["hospital"]; got != 1.0 {
		t.Errorf("expected hospital priority 1.0, got %v", got)
	}
}

func TestLoader_LoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
app:
  name: custom-planner
  version: 2.0.0
  environment: staging
http:
  port: 9000
planning:
  total_budget: 500000
  daily_wage: 250
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	loader := NewLoader(WithConfigPaths(configPath))
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "custom-planner" {
		t.Errorf("expected app name 'custom-planner', got %s", cfg.App.Name)
	}
	if cfg.HTTP.Port != 9000 {
		t.Errorf("expected HTTP port 9000, got %d", cfg.HTTP.Port)
	}
	if cfg.Planning.TotalBudget != 500000 {
		t.Errorf("expected total budget 500000, got %v", cfg.Planning.TotalBudget)
	}
	if cfg.Planning.DailyWage != 250 {
		t.Errorf("expected daily wage 250, got %v", cfg.Planning.DailyWage)
	}
	// Values not in the file keep their defaults.
	if got := cfg.Planning.PricePerMeter["aerial"]; got != 500.0 {
		t.Errorf("expected aerial price 500, got %v", got)
	}
}

func TestLoader_EnvOverrides(t *testing.T) {
	t.Setenv("RECONNECT_HTTP_PORT", "7070")
	t.Setenv("RECONNECT_PLANNING_TOTAL_BUDGET", "750000")
	t.Setenv("RECONNECT_PLANNING_SAFETY_MARGIN", "0.9")

	cfg, err := NewLoader(WithConfigPaths()).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.HTTP.Port != 7070 {
		t.Errorf("expected HTTP port 7070, got %d", cfg.HTTP.Port)
	}
	if cfg.Planning.TotalBudget != 750000 {
		t.Errorf("expected total budget 750000, got %v", cfg.Planning.TotalBudget)
	}
	if cfg.Planning.SafetyMargin != 0.9 {
		t.Errorf("expected safety margin 0.9, got %v", cfg.Planning.SafetyMargin)
	}
}

func TestLoader_ConfigEnvVar(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "override.yaml")

	err := os.WriteFile(configPath, []byte("app:\n  name: from-env-path\n"), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("CONFIG_PATH", configPath)

	cfg, err := NewLoader(WithConfigPaths()).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "from-env-path" {
		t.Errorf("expected app name 'from-env-path', got %s", cfg.App.Name)
	}
}
