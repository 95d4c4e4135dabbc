// Package store persists clipmark state in SQLite: the range lists keyed
// by video path, and the outcome history of export runs.
package store
