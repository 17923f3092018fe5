// Package models defines the core data structures used throughout the
// certificate generator.
//
// It includes:
//   - Participant: Represents one certificate recipient parsed from the CSV
//   - Summary: Accumulates rendered/sent/skipped/failed counts for a run
//
// Models carry no behavior beyond naming and validation; rendering and
// delivery live in the services package.
package models
