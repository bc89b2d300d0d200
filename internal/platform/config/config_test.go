package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	env := map[string]string{
		"API_FIRESTORE_PROJECT_ID": "sakisou-dev",
	}

	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Firestore.ProjectID != "sakisou-dev" {
		t.Errorf("unexpected firestore project: %s", cfg.Firestore.ProjectID)
	}
	if cfg.AI.TextModel != defaultGeminiModel {
		t.Errorf("expected default text model %s, got %s", defaultGeminiModel, cfg.AI.TextModel)
	}
	if cfg.AI.ImageModel != defaultImagenModel {
		t.Errorf("expected default image model %s, got %s", defaultImagenModel, cfg.AI.ImageModel)
	}
	if cfg.AI.Location != defaultGeminiLocation {
		t.Errorf("expected default location %s, got %s", defaultGeminiLocation, cfg.AI.Location)
	}
	if cfg.RateLimits.MaxRequests != defaultRateLimitRequests {
		t.Errorf("unexpected default rate limit: %d", cfg.RateLimits.MaxRequests)
	}
	if cfg.RateLimits.Window != defaultRateLimitWindow {
		t.Errorf("unexpected default rate limit window: %s", cfg.RateLimits.Window)
	}
	if cfg.Gallery.TrendingWindowDays != defaultTrendingWindowDays {
		t.Errorf("unexpected default trending window: %d", cfg.Gallery.TrendingWindowDays)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"API_SERVER_PORT":              "9090",
		"API_SERVER_READ_TIMEOUT":      "20s",
		"API_SERVER_WRITE_TIMEOUT":     "90s",
		"API_SERVER_IDLE_TIMEOUT":      "2m",
		"API_FIRESTORE_PROJECT_ID":     "sakisou-prod",
		"API_FIRESTORE_EMULATOR_HOST":  "127.0.0.1:8200",
		"API_STORAGE_IMAGES_BUCKET":    "sakisou-images-prod",
		"API_AI_API_KEY":               "test-key",
		"API_AI_TEXT_MODEL":            "gemini-2.0-flash",
		"API_AI_IMAGE_MODEL":           "imagen-3.0-fast-generate-001",
		"API_AI_TEXT_TIMEOUT":          "45s",
		"API_AI_DISABLE_IMAGE":         "true",
		"API_RATELIMIT_MAX_REQUESTS":   "50",
		"API_RATELIMIT_WINDOW":         "5m",
		"API_RATELIMIT_SWEEP_INTERVAL": "1m",
		"API_GALLERY_TRENDING_DAYS":    "14",
	}

	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("unexpected port: %s", cfg.Server.Port)
	}
	if cfg.Server.WriteTimeout != 90*time.Second {
		t.Errorf("unexpected write timeout: %s", cfg.Server.WriteTimeout)
	}
	if cfg.Firestore.EmulatorHost != "127.0.0.1:8200" {
		t.Errorf("unexpected emulator host: %s", cfg.Firestore.EmulatorHost)
	}
	if cfg.Storage.ImagesBucket != "sakisou-images-prod" {
		t.Errorf("unexpected images bucket: %s", cfg.Storage.ImagesBucket)
	}
	if cfg.AI.APIKey != "test-key" {
		t.Errorf("unexpected api key: %s", cfg.AI.APIKey)
	}
	if cfg.AI.TextModel != "gemini-2.0-flash" {
		t.Errorf("unexpected text model: %s", cfg.AI.TextModel)
	}
	if cfg.AI.TextTimeout != 45*time.Second {
		t.Errorf("unexpected text timeout: %s", cfg.AI.TextTimeout)
	}
	if !cfg.AI.DisableImage {
		t.Errorf("expected image generation to be disabled")
	}
	if cfg.RateLimits.MaxRequests != 50 {
		t.Errorf("unexpected rate limit: %d", cfg.RateLimits.MaxRequests)
	}
	if cfg.RateLimits.Window != 5*time.Minute {
		t.Errorf("unexpected rate limit window: %s", cfg.RateLimits.Window)
	}
	if cfg.Gallery.TrendingWindowDays != 14 {
		t.Errorf("unexpected trending window: %d", cfg.Gallery.TrendingWindowDays)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	env := map[string]string{
		"API_RATELIMIT_MAX_REQUESTS": "-1",
	}

	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatalf("expected validation error")
	}

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	fields := validationErr.Fields()
	want := map[string]bool{
		"Firestore.ProjectID":    false,
		"RateLimits.MaxRequests": false,
	}
	for _, field := range fields {
		if _, ok := want[field]; ok {
			want[field] = true
		}
	}
	for field, seen := range want {
		if !seen {
			t.Errorf("expected %s in validation fields, got %v", field, fields)
		}
	}
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# local overrides\nexport API_SERVER_PORT=7070\nAPI_FIRESTORE_PROJECT_ID=\"sakisou-local\"\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(WithEnvFile(envPath), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port from .env, got %s", cfg.Server.Port)
	}
	if cfg.Firestore.ProjectID != "sakisou-local" {
		t.Errorf("expected quoted value to be trimmed, got %s", cfg.Firestore.ProjectID)
	}
}

func TestEnvMapTakesPrecedenceOverDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("API_SERVER_PORT=7070\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	env := map[string]string{
		"API_SERVER_PORT":          "6060",
		"API_FIRESTORE_PROJECT_ID": "sakisou-dev",
	}

	cfg, err := Load(WithEnvFile(envPath), WithEnvMap(env), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "6060" {
		t.Errorf("expected explicit env map to win, got %s", cfg.Server.Port)
	}
}
