// Package config resolves carlog's settings once per process.
//
// Sources, from highest to lowest precedence:
//
//   - command-line flags (--db, --source, --format, --metrics-file, --verbose)
//   - CARLOG_* environment variables
//   - a YAML file named by --config
//   - a .env file next to the executable
//   - defaults: car.sqlite and tableValues.json next to the executable
//
// Paths never depend on the working directory unless the user passes a
// relative path explicitly.
package config
