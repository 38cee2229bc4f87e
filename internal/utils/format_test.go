package utils

import "testing"

func TestBytesToMB(t *testing.T) {
	tests := []struct {
		name     string
		bytes    int64
		expected float64
	}{
		{"zero", 0, 0},
		{"one MB", 1024 * 1024, 1},
		{"half MB", 512 * 1024, 0.5},
		{"rounds down", 1024*1024 + 4000, 1},
		{"rounds up", 1024*1024 + 8000, 1.01},
		{"small file", 20 * 1024, 0.02},
		{"large", 1536 * 1024 * 1024, 1536},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BytesToMB(tt.bytes)
			if result != tt.expected {
				t.Errorf("BytesToMB(%d) = %v, want %v", tt.bytes, result, tt.expected)
			}
		})
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		name     string
		size     int64
		expected string
	}{
		{"zero", 0, "0 B"},
		{"negative", -100, "0 B"},
		{"small", 500, "500 B"},
		{"one KiB", 1024, "1.0 KiB"},
		{"one MiB", 1024 * 1024, "1.0 MiB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatFileSize(tt.size)
			if result != tt.expected {
				t.Errorf("FormatFileSize(%d) = %q, want %q", tt.size, result, tt.expected)
			}
		})
	}
}
