// Package main hosts the skyreview CLI entrypoint and command graph.
//
// `skyreview serve` runs the review web server for the configured batch. The
// remaining commands inspect and edit the same feedback file from the
// terminal: list the catalog, report progress, record judgments and read the
// review journal. Configuration resolution happens once per invocation in
// commandContext so subcommands only deal with their own output.
package main
