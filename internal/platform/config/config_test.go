package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	env := map[string]string{
		"API_FIRESTORE_PROJECT_ID": "vitrina-dev",
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
	if cfg.PubSub.ProjectID != "vitrina-dev" {
		t.Errorf("expected pubsub project to default to firestore project, got %s", cfg.PubSub.ProjectID)
	}
	if cfg.PubSub.StockEventTopic != defaultStockEventTopic {
		t.Errorf("expected default stock event topic, got %s", cfg.PubSub.StockEventTopic)
	}
	if cfg.Shipping.FreeThreshold != defaultShippingFreeThreshold {
		t.Errorf("unexpected default free threshold: %d", cfg.Shipping.FreeThreshold)
	}
	if cfg.Shipping.FlatRate != defaultShippingFlatRate {
		t.Errorf("unexpected default flat rate: %d", cfg.Shipping.FlatRate)
	}
	if !cfg.Features.EnableStockEvents {
		t.Error("expected stock events enabled by default")
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"API_SERVER_PORT":              "9090",
		"API_SERVER_READ_TIMEOUT":      "20s",
		"API_SERVER_WRITE_TIMEOUT":     "25s",
		"API_SERVER_IDLE_TIMEOUT":      "2m",
		"API_FIRESTORE_PROJECT_ID":     "vitrina-prod",
		"API_FIRESTORE_EMULATOR_HOST":  "localhost:8900",
		"API_PUBSUB_PROJECT_ID":        "vitrina-events",
		"API_PUBSUB_STOCK_EVENT_TOPIC": "stock-events-prod",
		"API_SHIPPING_FREE_THRESHOLD":  "75000",
		"API_SHIPPING_FLAT_RATE":       "4990",
		"API_FEATURE_STOCK_EVENTS":     "false",
		"API_FEATURE_FEATURED_ROW":     "false",
	}

	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.IdleTimeout != 2*time.Minute {
		t.Errorf("unexpected idle timeout: %s", cfg.Server.IdleTimeout)
	}
	if cfg.Firestore.EmulatorHost != "localhost:8900" {
		t.Errorf("unexpected emulator host: %s", cfg.Firestore.EmulatorHost)
	}
	if cfg.PubSub.ProjectID != "vitrina-events" {
		t.Errorf("expected explicit pubsub project, got %s", cfg.PubSub.ProjectID)
	}
	if cfg.PubSub.StockEventTopic != "stock-events-prod" {
		t.Errorf("unexpected stock event topic %s", cfg.PubSub.StockEventTopic)
	}
	if cfg.Shipping.FreeThreshold != 75000 {
		t.Errorf("unexpected free threshold %d", cfg.Shipping.FreeThreshold)
	}
	if cfg.Shipping.FlatRate != 4990 {
		t.Errorf("unexpected flat rate %d", cfg.Shipping.FlatRate)
	}
	if cfg.Features.EnableStockEvents {
		t.Error("expected stock events disabled")
	}
	if cfg.Features.EnableFeaturedRow {
		t.Error("expected featured row disabled")
	}
}

func TestLoadDotEnvFallback(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "API_SERVER_PORT=7070\nAPI_FIRESTORE_PROJECT_ID=vitrina-dot\n"
	if err := os.WriteFile(envPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write dotenv file: %v", err)
	}

	cfg, err := Load(WithEnvFile(envPath), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port from dotenv 7070, got %s", cfg.Server.Port)
	}
	if cfg.Firestore.ProjectID != "vitrina-dot" {
		t.Errorf("expected firestore project from dotenv, got %s", cfg.Firestore.ProjectID)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	_, err := Load(WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestLoadEnvMapPrecedence(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "API_FIRESTORE_PROJECT_ID=dot-project\nAPI_SERVER_PORT=7070\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("failed writing env file: %v", err)
	}

	overrides := map[string]string{
		"API_FIRESTORE_PROJECT_ID": "override-project",
	}

	cfg, err := Load(WithEnvFile(envPath), WithEnvMap(overrides), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Firestore.ProjectID != "override-project" {
		t.Fatalf("expected override project, got %s", cfg.Firestore.ProjectID)
	}
	if cfg.Server.Port != "7070" {
		t.Fatalf("expected dotenv port fallback, got %s", cfg.Server.Port)
	}
}
