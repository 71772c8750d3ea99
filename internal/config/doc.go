// Package config provides configuration structures and utilities for webharvest.
// It defines the scrape target, traversal mode, request settings, output
// selection and post-processing options, plus the optional per-site YAML file.
package config
