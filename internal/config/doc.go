// Package config holds the application settings and knows where to find
// them. Values come, in increasing priority, from built-in defaults, a YAML
// file, COOK_ prefixed environment variables and command line flags.
package config
