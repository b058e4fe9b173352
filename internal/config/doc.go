// Package config manages stashwalk configuration.
//
// Settings live in stashwalk.yml inside the repository's git directory and can
// be overridden per invocation by command-line flags.
package config
