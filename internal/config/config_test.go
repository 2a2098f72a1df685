package config

import "testing"

func TestLoadAppFromEnv(t *testing.T) {
	t.Setenv("MAKEAPI_PORT", "8080")
	t.Setenv("MAKEAPI_FIREBASE_PROJECTID", "my-project")
	t.Setenv("MAKEAPI_JWT_SECRET", "s3cret")
	t.Setenv("MAKEAPI_STORAGE_ENDPOINT", "localhost:9000")
	t.Setenv("MAKEAPI_STORAGE_USESSL", "true")

	cfg, err := LoadApp()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("port: %d", cfg.Port)
	}
	if cfg.Firebase.ProjectID != "my-project" {
		t.Errorf("project id: %q", cfg.Firebase.ProjectID)
	}
	if cfg.JWT.Secret != "s3cret" {
		t.Errorf("jwt secret: %q", cfg.JWT.Secret)
	}
	if cfg.Storage.Endpoint != "localhost:9000" || !cfg.Storage.UseSSL {
		t.Errorf("storage: %+v", cfg.Storage)
	}
}

func TestLoadAppDefaults(t *testing.T) {
	cfg, err := LoadApp()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port == 0 {
		t.Error("port default missing")
	}
	if cfg.LogLevel == "" || cfg.LogFormat == "" {
		t.Errorf("log defaults missing: %+v", cfg)
	}
	if cfg.CORSOrigin == "" {
		t.Error("cors default missing")
	}
	if cfg.Storage.Bucket == "" {
		t.Error("bucket default missing")
	}
}
