package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}

	if cfg.Server.Addr != ":8000" {
		t.Errorf("unexpected default addr %q", cfg.Server.Addr)
	}
	if cfg.Data.Store != "memory" || cfg.LLM.Provider != "gemini" {
		t.Errorf("unexpected defaults: store=%q provider=%q", cfg.Data.Store, cfg.LLM.Provider)
	}
	if cfg.Context.RecordsPerSymbol != 10 || cfg.Context.MaxTotalRecords != 30 {
		t.Errorf("unexpected context caps: %+v", cfg.Context)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9000"
data:
  store: "sqlite"
llm:
  provider: "ollama"
  timeout_seconds: 5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Addr != ":9000" || cfg.Data.Store != "sqlite" {
		t.Errorf("yaml values not applied: %+v", cfg)
	}
	if cfg.LLM.Provider != "ollama" || cfg.LLM.TimeoutSeconds != 5 {
		t.Errorf("llm values not applied: %+v", cfg.LLM)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":7777")
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("LLM_TIMEOUT_SECONDS", "15")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":7777" {
		t.Errorf("env addr not applied: %q", cfg.Server.Addr)
	}
	if cfg.LLM.Provider != "ollama" || cfg.LLM.TimeoutSeconds != 15 {
		t.Errorf("env llm values not applied: %+v", cfg.LLM)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cfg, _ := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	cfg.LLM.Provider = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown provider should fail validation")
	}

	cfg, _ = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	cfg.Data.Store = "papyrus"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown store should fail validation")
	}
}
