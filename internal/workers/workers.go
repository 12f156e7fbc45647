package workers

import (
	"os"
	"runtime"
	"strconv"
)

// Count returns a worker count for a given task type. GOMAXPROCS
// already reflects container CPU limits (Go 1.19+), so the count
// scales with what the pod actually gets.
//
// The multiplier adjusts for task characteristics:
//   - 1.0 for CPU-bound tasks (thumbnail encoding)
//   - 2.0 for I/O-bound tasks (blob writes)
//
// The limit parameter caps the count to prevent resource exhaustion;
// 0 means no cap. UPLOAD_WORKERS overrides the computed value.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv("UPLOAD_WORKERS"); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	available := runtime.GOMAXPROCS(0)
	count := int(float64(available) * multiplier)

	if count < 1 {
		count = 1
	}
	if limit > 0 && count > limit {
		count = limit
	}
	return count
}

// ForCPU returns a worker count for CPU-bound tasks (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns a worker count for I/O-bound tasks (2 per CPU).
func ForIO(limit int) int {
	return Count(2.0, limit)
}
