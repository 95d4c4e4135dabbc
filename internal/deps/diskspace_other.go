//go:build !linux

package deps

import "errors"

// FreeSpace is unsupported off Linux; callers skip the preflight check.
func FreeSpace(path string) (uint64, error) {
	return 0, errors.ErrUnsupported
}
