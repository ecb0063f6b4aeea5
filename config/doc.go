// Package config loads SafePlates configuration from a YAML file with
// environment variable overrides.
//
// Resolution order (highest wins):
//  1. SAFEPLATES_* environment variables
//  2. the YAML config file
//  3. built-in defaults
//
// Example config.yaml:
//
//	store:
//	  backend: sqlite
//	  path: safeplates.db
//	llm:
//	  model: gpt-4
//	categories: [nuts, dairy, gluten, shellfish, eggs]
package config
