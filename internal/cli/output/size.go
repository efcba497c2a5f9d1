package output

import "fmt"

var sizeUnits = []string{"B", "KB", "MB"}

// ReadableSize formats a byte count with one decimal, dividing by 1024
// until the value fits the unit. GB is the largest unit.
func ReadableSize(n int64) string {
	size := float64(n)
	for _, unit := range sizeUnits {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f GB", size)
}
