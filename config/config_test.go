package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nickyhof/ifxsql/core"
	"github.com/nickyhof/ifxsql/esql"
	"github.com/nickyhof/ifxsql/script"
)

const sample = `
server:
  name: ol_prod
  database: stores
  user: informix
  password: secret
engine:
  data_dir: /var/lib/ifxsql
  max_buffer_size: 65536
metrics:
  enabled: true
  prefix: stores
  timeout: 2s
s3:
  region: eu-west-1
  endpoint: http://localhost:9000
git:
  type: token
  token: abc
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Server.Name != "ol_prod" || cfg.Server.Database != "stores" {
		t.Errorf("Unexpected server section %+v", cfg.Server)
	}
	if cfg.Server.User != "informix" || cfg.Server.Password != "secret" {
		t.Errorf("Unexpected credentials %+v", cfg.Server)
	}
	if cfg.Engine.DataDir != "/var/lib/ifxsql" || cfg.Engine.MaxBufferSize != 65536 {
		t.Errorf("Unexpected engine section %+v", cfg.Engine)
	}
	if cfg.Engine.TextLength != core.UDTStringLen {
		t.Errorf("Expected default text length %d, got %d", core.UDTStringLen, cfg.Engine.TextLength)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Prefix != "stores" || cfg.Metrics.Timeout != 2*time.Second {
		t.Errorf("Unexpected metrics section %+v", cfg.Metrics)
	}
	if cfg.Metrics.Listen != ":9464" {
		t.Errorf("Expected default listen address, got %q", cfg.Metrics.Listen)
	}
	if cfg.S3 == nil || cfg.S3.Region != "eu-west-1" || cfg.S3.Endpoint != "http://localhost:9000" {
		t.Errorf("Unexpected S3 section %+v", cfg.S3)
	}
	if cfg.Git == nil || cfg.Git.Type != script.AuthTypeToken || cfg.Git.Token != "abc" {
		t.Errorf("Unexpected git section %+v", cfg.Git)
	}
}

func TestServerFromEnvironment(t *testing.T) {
	t.Setenv(esql.ServerEnv, "ol_env")

	cfg, err := Parse([]byte("server:\n  database: stores\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Server.Name != "ol_env" {
		t.Errorf("Expected server from INFORMIXSERVER, got %q", cfg.Server.Name)
	}
	if cfg.S3 != nil || cfg.Git != nil {
		t.Error("Expected no S3 or git sections")
	}

	if got := Default().Server.Name; got != "ol_env" {
		t.Errorf("Expected default server from INFORMIXSERVER, got %q", got)
	}
}

func TestValidate(t *testing.T) {
	if _, err := Parse([]byte("engine:\n  text_length: -1\n")); !errors.Is(err, ErrNegativeTextLength) {
		t.Errorf("Expected ErrNegativeTextLength, got %v", err)
	}
	if _, err := Parse([]byte("engine:\n  max_buffer_size: -5\n")); !errors.Is(err, ErrNegativeBufferSize) {
		t.Errorf("Expected ErrNegativeBufferSize, got %v", err)
	}
	if _, err := Parse([]byte("server: [unclosed")); err == nil {
		t.Error("Expected a parse error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ifxsql.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Name != "ol_prod" {
		t.Errorf("Expected ol_prod, got %q", cfg.Server.Name)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
