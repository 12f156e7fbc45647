// Package startup loads and validates server configuration from
// environment variables and logs the boot sequence.
package startup
