// Package config describes the YAML file that drives the excel command:
// server settings, codec defaults and named export jobs.
package config

import "time"

// Config is the root of the configuration file.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Export  ExportConfig  `yaml:"export"`
	Jobs    []JobConfig   `yaml:"jobs"`
}

type ServerConfig struct {
	ListenAddress   string        `yaml:"listen_address"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// OutputDir receives scheduled exports. It is prepended verbatim to the
	// job filename, so it normally ends with a path separator.
	OutputDir string `yaml:"output_dir"`
	// Watch reloads jobs when the configuration file changes.
	Watch bool `yaml:"watch"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ExportConfig holds the defaults every job starts from.
type ExportConfig struct {
	Scenario string     `yaml:"scenario"`
	CSV      CSVConfig  `yaml:"csv"`
	HTML     HTMLConfig `yaml:"html"`
	XLSX     XLSXConfig `yaml:"xlsx"`
	XLS      XLSConfig  `yaml:"xls"`
}

type CSVConfig struct {
	Delimiter string `yaml:"delimiter"`
	CRLF      bool   `yaml:"crlf"`
	BOM       bool   `yaml:"bom"`
	Null      string `yaml:"null"`
}

type HTMLConfig struct {
	Title     string `yaml:"title"`
	HeaderRow *bool  `yaml:"header_row"`
}

type XLSXConfig struct {
	BoldHeader  bool    `yaml:"bold_header"`
	ColumnWidth float64 `yaml:"column_width"`
}

type XLSConfig struct {
	BoldHeader bool `yaml:"bold_header"`
}

// JobConfig is one named workbook.
type JobConfig struct {
	Name     string `yaml:"name"`
	Filename string `yaml:"filename"`
	// Schedule is a cron expression; jobs without one only run on demand.
	Schedule string        `yaml:"schedule"`
	Scenario string        `yaml:"scenario"`
	Sheets   []SheetConfig `yaml:"sheets"`
}

type SheetConfig struct {
	Title  string       `yaml:"title"`
	Source SourceConfig `yaml:"source"`
}

// Source types.
const (
	SourceInline = "inline"
	SourceCSV    = "csv"
	SourceJSON   = "json"
	SourceYAML   = "yaml"
	SourceSQL    = "sql"
	SourceHive   = "hive"
)

// SourceConfig says where the rows of a worksheet come from. Which fields
// apply depends on Type.
type SourceConfig struct {
	Type string `yaml:"type"`

	// inline
	Rows [][]any `yaml:"rows"`

	// csv, json, yaml
	File string `yaml:"file"`
	// Header turns the keys of the first JSON or YAML object into a header
	// row. CSV files are copied as they are.
	Header bool `yaml:"header"`

	// sql
	Driver string `yaml:"driver"` // postgres, sqlite
	DSN    string `yaml:"dsn"`

	// sql, hive
	Query   string        `yaml:"query"`
	Timeout time.Duration `yaml:"timeout"`

	// hive
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Auth     string `yaml:"auth"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Job returns the job called name.
func (c *Config) Job(name string) (JobConfig, bool) {
	for _, job := range c.Jobs {
		if job.Name == name {
			return job, true
		}
	}
	return JobConfig{}, false
}
