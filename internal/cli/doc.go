// Package cli implements the pingboard command-line interface.
//
// Commands are thin: each one resolves settings, builds a prober and a
// monitor loop, and hands them to the package that does the work.
//
// # Command Structure
//
// The root command runs the live panel. Subcommands cover everything else:
//
//	pingboard              - Live latency panel (plain lines when piped)
//	pingboard once         - Probe every target once and print a table
//	pingboard targets      - List the built-in target catalog
//	pingboard init         - Create .pingboard.yaml
//	pingboard version      - Print version information
//
// # Settings Resolution
//
// Settings are layered lowest to highest:
//
//  1. Built-in defaults (config.DefaultConfig)
//  2. The config file (--config, ./.pingboard.yaml, or the global file)
//  3. PINGBOARD_* environment variables, including any set by a .env file
//  4. Flags given explicitly on the command line
//
// The merged result is validated once before anything is probed, so a bad
// interval from any layer fails with the same CONFIG error.
//
// # Machine Output
//
// once and targets accept --json and then write a single JSONEnvelope to
// stdout, errors included, so scripts never have to scrape stderr.
package cli
