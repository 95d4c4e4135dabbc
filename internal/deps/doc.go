// Package deps verifies the external tools and disk headroom clipmark
// needs before an export run.
package deps
