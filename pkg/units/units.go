// Package units provides the 1024-based multipliers XP amounts are scaled by.
// The platform reports XP in kilobyte-equivalent units.
package units

// Binary size multipliers.
const (
	KiB = 1024
	MiB = 1024 * KiB
)

// KiBToMiB converts a kilobyte-equivalent amount to megabytes.
func KiBToMiB(amount float64) float64 {
	return amount / KiB
}
