// Package app provides the command execution logic of the frb CLI.
// It builds the FRED client from the loaded configuration, runs a single
// endpoint call and prints the shaped result.
package app
