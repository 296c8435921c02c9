// Package config implements the timing configuration for the lab console
// client.
//
// Values resolve in three layers: built-in baseline, LCC_TIMING_* environment
// overrides, then an optional lcc.yaml overlay. The resolved configuration is
// validated before use; sessions never start with an inconsistent timing set.
package config
