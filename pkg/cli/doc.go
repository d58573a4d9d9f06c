// Package cli provides the ragstack command-line interface for inspecting
// settings and checking the services they point at.
//
// # Commands
//
// show: Print every resolved setting with its source, secrets masked
//
//	ragstack show -env-file .env -format yaml
//
// check: Probe each configured dependency once and exit non-zero on failure
//
//	ragstack check -timeout 3s -only postgres,redis
//
// serve: Run the health server until SIGINT or SIGTERM
//
//	ragstack serve -addr :9090 -otel-endpoint localhost:4317
//
// All commands accept -env-file (default .env, empty to disable) and
// -log-level. Settings that fail to load abort the command with every field
// error listed.
package cli
