// Package logging provides a small leveled logging facade for the
// photo archive.
//
// Levels are DEBUG, INFO, WARN and ERROR, selected at process start via
// the LOG_LEVEL environment variable (DEBUG=1 also enables debug output).
package logging
