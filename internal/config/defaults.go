package config

import "time"

const (
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultOutputDir       = "./"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	DefaultMetricsPath = "/metrics"

	DefaultScenario     = "search"
	DefaultCSVDelimiter = ","
	DefaultHTMLTitle    = "Export"

	DefaultQueryTimeout = time.Minute
	DefaultHivePort     = 10000
	DefaultHiveAuth     = "NONE"
)

// ApplyDefaults fills every unset field with its default value.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.OutputDir == "" {
		cfg.Server.OutputDir = DefaultOutputDir
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	if cfg.Export.Scenario == "" {
		cfg.Export.Scenario = DefaultScenario
	}
	if cfg.Export.CSV.Delimiter == "" {
		cfg.Export.CSV.Delimiter = DefaultCSVDelimiter
	}
	if cfg.Export.HTML.Title == "" {
		cfg.Export.HTML.Title = DefaultHTMLTitle
	}
	if cfg.Export.HTML.HeaderRow == nil {
		headerRow := true
		cfg.Export.HTML.HeaderRow = &headerRow
	}

	for i := range cfg.Jobs {
		job := &cfg.Jobs[i]
		if job.Scenario == "" {
			job.Scenario = cfg.Export.Scenario
		}
		for j := range job.Sheets {
			src := &job.Sheets[j].Source
			switch src.Type {
			case SourceSQL:
				if src.Timeout == 0 {
					src.Timeout = DefaultQueryTimeout
				}
			case SourceHive:
				if src.Timeout == 0 {
					src.Timeout = DefaultQueryTimeout
				}
				if src.Port == 0 {
					src.Port = DefaultHivePort
				}
				if src.Auth == "" {
					src.Auth = DefaultHiveAuth
				}
			}
		}
	}
}
