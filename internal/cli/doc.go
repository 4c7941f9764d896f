// Package cli is the cobra command tree of the cook binary. It reads the
// configuration, builds the application and maps failures to process exit
// codes.
package cli
