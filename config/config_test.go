package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"DB_HOST", "DB_NAME", "GPT_MODEL", "SERVER_PORT", "POSE_OUTPUT_STRIDE", "TOKEN_TTL"} {
		t.Setenv(key, "")
	}

	cfg := fromEnv()

	if cfg.DB.Host != "localhost" {
		t.Errorf("DB.Host: got %q, want %q", cfg.DB.Host, "localhost")
	}
	if cfg.DB.DBName != "lifesync" {
		t.Errorf("DB.DBName: got %q, want %q", cfg.DB.DBName, "lifesync")
	}
	if cfg.GPT.Model != defaultModel {
		t.Errorf("GPT.Model: got %q, want %q", cfg.GPT.Model, defaultModel)
	}
	if cfg.GPT.MaxTokens != 300 {
		t.Errorf("GPT.MaxTokens: got %d, want 300", cfg.GPT.MaxTokens)
	}
	if cfg.Pose.OutputStride != 32 || cfg.Pose.InputResolution != 256 || cfg.Pose.QuantBytes != 2 {
		t.Errorf("Pose: got %+v", cfg.Pose)
	}
	if cfg.Auth.TokenTTL != 72*time.Hour {
		t.Errorf("Auth.TokenTTL: got %v, want 72h", cfg.Auth.TokenTTL)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port: got %q, want %q", cfg.Server.Port, "8080")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("GPT_MAX_TOKENS", "512")
	t.Setenv("GPT_TEMPERATURE", "0.2")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("POSE_ENDPOINT", "http://pose:9000/estimate")

	cfg := fromEnv()

	if cfg.DB.Host != "db.internal" {
		t.Errorf("DB.Host: got %q", cfg.DB.Host)
	}
	if cfg.GPT.MaxTokens != 512 {
		t.Errorf("GPT.MaxTokens: got %d", cfg.GPT.MaxTokens)
	}
	if cfg.GPT.Temperature < 0.19 || cfg.GPT.Temperature > 0.21 {
		t.Errorf("GPT.Temperature: got %v", cfg.GPT.Temperature)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("Auth.TokenTTL: got %v", cfg.Auth.TokenTTL)
	}
	if cfg.Pose.Endpoint != "http://pose:9000/estimate" {
		t.Errorf("Pose.Endpoint: got %q", cfg.Pose.Endpoint)
	}
}

func TestLoadReadsConfigFileAndExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	body := []byte(`
server:
  port: "9090"
gpt:
  apikey: "${LIFESYNC_TEST_GPT_KEY}"
db:
  dbname: wellness
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), body, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LIFESYNC_TEST_GPT_KEY", "secret-key")

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port: got %q, want %q", cfg.Server.Port, "9090")
	}
	if cfg.GPT.APIKey != "secret-key" {
		t.Errorf("GPT.APIKey: got %q, want %q", cfg.GPT.APIKey, "secret-key")
	}
	if cfg.DB.DBName != "wellness" {
		t.Errorf("DB.DBName: got %q", cfg.DB.DBName)
	}
	if cfg.GPT.Model != defaultModel {
		t.Errorf("GPT.Model default: got %q", cfg.GPT.Model)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout default: got %v", cfg.ShutdownTimeout)
	}
}

func TestDSN(t *testing.T) {
	c := DBConfig{Host: "h", Port: "1", User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	want := "host=h port=1 user=u password=p dbname=d sslmode=disable"
	if got := c.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}
