// Package config loads the YAML configuration of the wxr-parse tool.
//
// # Schema
//
//	log_mode: dev         # dev | prod
//	output: json          # json | yaml | dump
//	concurrency: 4        # files parsed in parallel
//	database:
//	  path: ./import.db   # empty disables the SQLite import
//
// Every key is optional; missing values are filled by defaults.
package config
