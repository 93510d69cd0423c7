// Package config provides AppCore's configuration layer: an explicit
// registry of prefix-scoped section models, YAML file loading with
// APPCORE_* environment overrides, and a debounced file watcher for live
// reload.
//
// The Registry replaces implicit global registration: the embedding
// application creates one, registers its configuration sections under
// normalized prefixes (collisions fail fast), and passes it into bootstrap
// explicitly.
package config
