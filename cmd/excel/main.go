// Command excel exports the workbooks described in a YAML job file, either
// once from the command line or on demand and on schedule from an HTTP
// server.
//
// Usage:
//
//	# Write the users job into ./exports/
//	excel export users --config jobs.yaml --out ./exports/
//
//	# Stream a job to stdout as XLSX
//	excel export users --format xlsx --out - > users.xlsx
//
//	# Serve jobs over HTTP and run the scheduled ones
//	excel serve --config jobs.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
