// Package utils holds small helpers shared by the frb packages:
// the User-Agent provider of outgoing requests, content type checks for request dumps,
// "name=value" argument parsing and safe integer conversion.
package utils
