package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/robfig/cron/v3"

	"github.com/go-data-exporter/excel/sheet"
)

// FieldError is a validation failure of one configuration field.
type FieldError struct {
	// Field is the dotted path of the field, e.g. "jobs[0].sheets[1].title".
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every FieldError found by Validate.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate checks cfg and returns a ValidationError listing every problem,
// or nil.
func Validate(cfg *Config) error {
	var errs []FieldError
	errs = append(errs, validateLogging(&cfg.Logging)...)
	errs = append(errs, validateExport(&cfg.Export)...)

	names := make(map[string]bool, len(cfg.Jobs))
	for i := range cfg.Jobs {
		field := fmt.Sprintf("jobs[%d]", i)
		job := &cfg.Jobs[i]
		if job.Name != "" {
			if names[job.Name] {
				errs = append(errs, FieldError{field + ".name", fmt.Sprintf("duplicate job name %q", job.Name)})
			}
			names[job.Name] = true
		}
		errs = append(errs, validateJob(field, job)...)
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateLogging(cfg *LoggingConfig) []FieldError {
	var errs []FieldError
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{"logging.level", fmt.Sprintf("unknown level %q", cfg.Level)})
	}
	switch cfg.Format {
	case "text", "json":
	default:
		errs = append(errs, FieldError{"logging.format", fmt.Sprintf("must be text or json, got %q", cfg.Format)})
	}
	return errs
}

func validateExport(cfg *ExportConfig) []FieldError {
	var errs []FieldError
	if utf8.RuneCountInString(cfg.CSV.Delimiter) != 1 {
		errs = append(errs, FieldError{"export.csv.delimiter", "must be a single character"})
	} else if r, _ := utf8.DecodeRuneInString(cfg.CSV.Delimiter); r == '"' || r == '\r' || r == '\n' {
		errs = append(errs, FieldError{"export.csv.delimiter", fmt.Sprintf("%q cannot be used as a delimiter", r)})
	}
	if cfg.XLSX.ColumnWidth < 0 {
		errs = append(errs, FieldError{"export.xlsx.column_width", "must not be negative"})
	}
	return errs
}

func validateJob(field string, job *JobConfig) []FieldError {
	var errs []FieldError
	if job.Name == "" {
		errs = append(errs, FieldError{field + ".name", "is required"})
	}
	if job.Filename == "" {
		errs = append(errs, FieldError{field + ".filename", "is required"})
	}
	if job.Schedule != "" {
		if _, err := cron.ParseStandard(job.Schedule); err != nil {
			errs = append(errs, FieldError{field + ".schedule", err.Error()})
		}
	}
	if len(job.Sheets) == 0 {
		errs = append(errs, FieldError{field + ".sheets", "at least one sheet is required"})
	}
	titles := make(map[string]bool, len(job.Sheets))
	for i, s := range job.Sheets {
		sheetField := fmt.Sprintf("%s.sheets[%d]", field, i)
		if err := sheet.ValidateTitle(s.Title); err != nil {
			errs = append(errs, FieldError{sheetField + ".title", err.Error()})
		} else if key := strings.ToLower(s.Title); titles[key] {
			errs = append(errs, FieldError{sheetField + ".title", fmt.Sprintf("duplicate title %q", s.Title)})
		} else {
			titles[key] = true
		}
		errs = append(errs, validateSource(sheetField+".source", &s.Source)...)
	}
	return errs
}

func validateSource(field string, src *SourceConfig) []FieldError {
	var errs []FieldError
	required := func(name, value string) {
		if value == "" {
			errs = append(errs, FieldError{field + "." + name, fmt.Sprintf("is required for %s sources", src.Type)})
		}
	}
	switch src.Type {
	case SourceInline:
	case SourceCSV, SourceJSON, SourceYAML:
		required("file", src.File)
	case SourceSQL:
		required("dsn", src.DSN)
		required("query", src.Query)
		switch src.Driver {
		case "postgres", "sqlite":
		default:
			errs = append(errs, FieldError{field + ".driver", fmt.Sprintf("must be postgres or sqlite, got %q", src.Driver)})
		}
	case SourceHive:
		required("host", src.Host)
		required("query", src.Query)
		if src.Port <= 0 || src.Port > 65535 {
			errs = append(errs, FieldError{field + ".port", fmt.Sprintf("invalid port %d", src.Port)})
		}
	case "":
		errs = append(errs, FieldError{field + ".type", "is required"})
	default:
		errs = append(errs, FieldError{field + ".type", fmt.Sprintf("unknown source type %q", src.Type)})
	}
	return errs
}
