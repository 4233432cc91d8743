package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDecodesAllSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
[server]
http_port = 8080
read_timeout = 10
write_timeout = 10
idle_timeout = 60
shutdown_timeout = 5

[database]
host = "localhost"
port = 5432
user = "booking"
password = "secret"
dbname = "booking"
sslmode = "disable"
max_open_conns = 10
max_idle_conns = 5
conn_max_lifetime = 300

[logs]
file = ""
level = "info"

[metrics]
enabled = true
service_name = "booking-core"
path = "/metrics"

[redis]
addr = "localhost:6379"
db = 0

[policy]
business_timezone = "Europe/Moscow"
currency = "RUB"
hold_ttl_minutes = 15
reschedule_lock_hours = 3
cancel_lock_hours = 3
future_window_days = 60
slot_grid_minutes = 15
max_reschedules = 3

[payments]
url = "http://payments.internal"
timeout = 5

[notifier]
url = "http://notifier.internal"
timeout = 5

[worker]
hold_expirer_interval_seconds = 30
reminder_dispatch_interval_seconds = 60
reconcile_interval_seconds = 120
batch_size = 100
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.HTTPPort != 8080 {
		t.Fatalf("Server.HTTPPort = %d, want 8080", cfg.Server.HTTPPort)
	}
	if cfg.Database.DSN() == "" {
		t.Fatal("expected non-empty DSN")
	}
	if !cfg.Metrics.Enabled {
		t.Fatal("expected metrics enabled")
	}
	if cfg.Policy.BusinessTimezone != "Europe/Moscow" {
		t.Fatalf("Policy.BusinessTimezone = %q, want Europe/Moscow", cfg.Policy.BusinessTimezone)
	}
	if cfg.Worker.BatchSize != 100 {
		t.Fatalf("Worker.BatchSize = %d, want 100", cfg.Worker.BatchSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
