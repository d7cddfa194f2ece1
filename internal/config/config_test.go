package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validConfig = `
server:
  listen_address: "0.0.0.0:9000"
  read_timeout: "10s"
  output_dir: "/var/exports/"
logging:
  level: debug
  format: json
export:
  csv:
    delimiter: ";"
jobs:
  - name: users
    filename: users.xlsx
    schedule: "0 3 * * *"
    scenario: admin
    sheets:
      - title: Users
        source:
          type: sql
          driver: sqlite
          dsn: "file:users.db"
          query: "SELECT id, name FROM users"
      - title: Notes
        source:
          type: inline
          rows:
            - ["a", 1]
            - ["b", 2]
  - name: warehouse
    filename: warehouse.csv
    sheets:
      - title: Stock
        source:
          type: hive
          host: hive.internal
          query: "SELECT * FROM stock"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:9000" {
		t.Errorf("listen address = %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("read timeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("write timeout = %v, want default", cfg.Server.WriteTimeout)
	}
	if cfg.Export.CSV.Delimiter != ";" {
		t.Errorf("delimiter = %q", cfg.Export.CSV.Delimiter)
	}
	if cfg.Export.HTML.HeaderRow == nil || !*cfg.Export.HTML.HeaderRow {
		t.Error("html header row should default to true")
	}

	users, ok := cfg.Job("users")
	if !ok {
		t.Fatal("job users not found")
	}
	if users.Scenario != "admin" {
		t.Errorf("users scenario = %q", users.Scenario)
	}
	if got := users.Sheets[1].Source.Rows; len(got) != 2 || got[1][1] != 2 {
		t.Errorf("inline rows = %v", got)
	}
	if users.Sheets[0].Source.Timeout != DefaultQueryTimeout {
		t.Errorf("sql timeout = %v", users.Sheets[0].Source.Timeout)
	}

	warehouse, _ := cfg.Job("warehouse")
	if warehouse.Scenario != DefaultScenario {
		t.Errorf("warehouse scenario = %q, want %q", warehouse.Scenario, DefaultScenario)
	}
	hive := warehouse.Sheets[0].Source
	if hive.Port != DefaultHivePort || hive.Auth != DefaultHiveAuth {
		t.Errorf("hive defaults = %d %q", hive.Port, hive.Auth)
	}

	if _, ok := cfg.Job("missing"); ok {
		t.Error("Job(missing) found something")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("EXCEL_SERVER_LISTEN_ADDRESS", ":7000")
	t.Setenv("EXCEL_LOGGING_LEVEL", "warn")
	t.Setenv("EXCEL_METRICS_ENABLED", "true")
	t.Setenv("EXCEL_EXPORT_SCENARIO", "report")

	cfg, err := Parse([]byte(validConfig))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.ListenAddress != ":7000" {
		t.Errorf("listen address = %q", cfg.Server.ListenAddress)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
	if !cfg.Metrics.Enabled {
		t.Error("metrics should be enabled")
	}
	warehouse, _ := cfg.Job("warehouse")
	if warehouse.Scenario != "report" {
		t.Errorf("warehouse scenario = %q, want report", warehouse.Scenario)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		config string
		fields []string
	}{
		{
			name: "bad logging",
			config: `
logging:
  level: loud
  format: xml
`,
			fields: []string{"logging.level", "logging.format"},
		},
		{
			name: "bad delimiter",
			config: `
export:
  csv:
    delimiter: ";;"
`,
			fields: []string{"export.csv.delimiter"},
		},
		{
			name: "incomplete job",
			config: `
jobs:
  - schedule: "every day"
`,
			fields: []string{"jobs[0].name", "jobs[0].filename", "jobs[0].schedule", "jobs[0].sheets"},
		},
		{
			name: "bad sheets",
			config: `
jobs:
  - name: a
    filename: a.csv
    sheets:
      - title: "Bad:Title"
        source: {type: inline}
      - title: Data
        source: {type: sql, driver: mysql}
      - title: DATA
        source: {type: ftp}
`,
			fields: []string{
				"jobs[0].sheets[0].title",
				"jobs[0].sheets[1].source.dsn",
				"jobs[0].sheets[1].source.query",
				"jobs[0].sheets[1].source.driver",
				"jobs[0].sheets[2].title",
				"jobs[0].sheets[2].source.type",
			},
		},
		{
			name: "duplicate jobs",
			config: `
jobs:
  - name: a
    filename: a.csv
    sheets: [{title: A, source: {type: csv, file: a.csv}}]
  - name: a
    filename: b.csv
    sheets: [{title: B, source: {type: json}}]
`,
			fields: []string{"jobs[1].name", "jobs[1].sheets[0].source.file"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.config))
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			got := make([]string, len(verr.Errors))
			for i, fe := range verr.Errors {
				got[i] = fe.Field
			}
			if strings.Join(got, ",") != strings.Join(tt.fields, ",") {
				t.Errorf("fields = %v, want %v", got, tt.fields)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	one := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if one.Error() != "configuration validation failed: a: bad" {
		t.Errorf("Error() = %q", one.Error())
	}
	two := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}}
	if !strings.Contains(two.Error(), "2 errors") || !strings.Contains(two.Error(), "  - b: worse") {
		t.Errorf("Error() = %q", two.Error())
	}
}
