// Package logging builds the process zerolog logger from configuration.
package logging
