//go:build windows

package trash

import "fmt"

// Move is not implemented on Windows yet; the caller aggregates the
// error into its per-directory report.
func Move(path string) error {
	return fmt.Errorf("trash %s: recycle bin support not implemented on windows", path)
}
