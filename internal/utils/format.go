// Package utils provides shared utility functions
package utils

import (
	"math"

	"github.com/dustin/go-humanize"
)

const bytesPerMB = 1024 * 1024

// BytesToMB converts bytes to megabytes rounded to 2 decimal places.
func BytesToMB(size int64) float64 {
	return math.Round(float64(size)/bytesPerMB*100) / 100
}

// FormatFileSize converts a size to a human-readable string (e.g. "1.5 MiB")
func FormatFileSize(size int64) string {
	if size < 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(size))
}
