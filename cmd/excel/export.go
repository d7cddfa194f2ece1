package main

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-data-exporter/excel"
	"github.com/go-data-exporter/excel/internal/loader"
)

func newExportCmd(flags *globalFlags) *cobra.Command {
	var (
		out      string
		format   string
		filename string
	)
	cmd := &cobra.Command{
		Use:   "export JOB...",
		Short: "Export configured jobs once",
		Long: `Export one or more configured jobs.

Each workbook is written to the output directory joined with the job
filename, or to stdout when --out is "-".

Examples:
  excel export users --out ./exports/
  excel export users orders --format html
  excel export users --out - --filename users.xlsx > users.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			dir := out
			if dir == "" {
				dir = cfg.Server.OutputDir
			}
			if dir == "-" {
				dir = excel.Output
			}
			var f excel.Format
			if format != "" {
				if f, err = excel.ParseFormat(format); err != nil {
					return err
				}
			}

			l := loader.New(logger, flags.baseDir())
			for _, name := range args {
				job, ok := cfg.Job(name)
				if !ok {
					return fmt.Errorf("job %q is not configured", name)
				}
				target := job.Filename
				if filename != "" {
					target = filename
				}
				if f != "" {
					target = strings.TrimSuffix(target, path.Ext(target)) + string(f)
				}
				opts := append(loader.Options(cfg.Export), excel.WithOutput(cmd.OutOrStdout()))
				book, err := l.Build(cmd.Context(), job, opts...)
				if err != nil {
					return err
				}
				if !book.Export(target, dir) {
					return fmt.Errorf("job %q: export failed", job.Name)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", `output directory, "-" for stdout (default: server.output_dir)`)
	cmd.Flags().StringVarP(&format, "format", "f", "", "override the format (xls, xlsx, html, csv)")
	cmd.Flags().StringVar(&filename, "filename", "", "override the job filename")
	return cmd
}
