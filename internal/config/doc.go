// Package config loads and validates the rendering settings used by the
// screenline command.
package config
