// Package confloader provides configuration loading mechanism.
//
// This package implements a layered configuration loader on top of koanf.
//
//   - loader.go: Loader, merging a YAML file, environment variables and maps
//   - provider.go: koanf provider backed by an in-memory map
//
// Priority (highest to lowest):
//
//  1. Maps loaded after Load (command-line overrides)
//  2. Environment variables
//  3. Configuration file
//  4. Values already present in the target struct
//
// Keys are flat: WS_CONNECT_TIMEOUT maps to connect_timeout.
//
// @design DS-0502
package confloader
