// Package cli assembles the treelint root command, wiring configuration
// loading, structured logging, and the normalize, audit, and workflow
// subcommands.
package cli
