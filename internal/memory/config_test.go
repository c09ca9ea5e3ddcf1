package memory

import (
	"runtime/debug"
	"testing"
)

// restoreMemoryLimit undoes the process-wide side effect of
// ConfigureFromEnv after the test.
func restoreMemoryLimit(t *testing.T) {
	t.Helper()
	old := debug.SetMemoryLimit(-1)
	t.Cleanup(func() { debug.SetMemoryLimit(old) })
}

func TestConfigureFromEnvNoVariables(t *testing.T) {
	restoreMemoryLimit(t)
	t.Setenv("GOMEMLIMIT", "")
	t.Setenv("MEMORY_LIMIT", "")
	t.Setenv("MEMORY_RATIO", "")

	result := ConfigureFromEnv()

	if result.Configured {
		t.Error("Expected Configured=false with no environment variables")
	}
	if result.Source != "none" {
		t.Errorf("Expected source none, got %q", result.Source)
	}
}

func TestConfigureFromEnvGOMEMLIMITTakesPrecedence(t *testing.T) {
	restoreMemoryLimit(t)
	t.Setenv("GOMEMLIMIT", "500MiB")
	t.Setenv("MEMORY_LIMIT", "1073741824")

	// The runtime applies GOMEMLIMIT at startup; simulate that here.
	debug.SetMemoryLimit(500 * 1024 * 1024)

	result := ConfigureFromEnv()

	if !result.Configured {
		t.Fatal("Expected Configured=true")
	}
	if result.Source != "GOMEMLIMIT" {
		t.Errorf("Expected source GOMEMLIMIT, got %q", result.Source)
	}
	if result.GoMemLimit != 500*1024*1024 {
		t.Errorf("Expected GoMemLimit %d, got %d", 500*1024*1024, result.GoMemLimit)
	}
}

func TestConfigureFromEnvMemoryLimit(t *testing.T) {
	restoreMemoryLimit(t)
	t.Setenv("GOMEMLIMIT", "")
	t.Setenv("MEMORY_LIMIT", "1073741824") // 1 GiB
	t.Setenv("MEMORY_RATIO", "")

	result := ConfigureFromEnv()

	if !result.Configured {
		t.Fatal("Expected Configured=true")
	}
	if result.Source != "MEMORY_LIMIT" {
		t.Errorf("Expected source MEMORY_LIMIT, got %q", result.Source)
	}
	if result.ContainerLimit != 1073741824 {
		t.Errorf("Expected ContainerLimit 1073741824, got %d", result.ContainerLimit)
	}
	if result.Ratio != DefaultMemoryRatio {
		t.Errorf("Expected default ratio %.2f, got %.2f", DefaultMemoryRatio, result.Ratio)
	}

	limit := int64(1073741824)
	want := int64(float64(limit) * DefaultMemoryRatio)
	if result.GoMemLimit != want {
		t.Errorf("Expected GoMemLimit %d, got %d", want, result.GoMemLimit)
	}
	if got := debug.SetMemoryLimit(-1); got != want {
		t.Errorf("Expected runtime limit %d, got %d", want, got)
	}
}

func TestConfigureFromEnvCustomRatio(t *testing.T) {
	restoreMemoryLimit(t)
	t.Setenv("GOMEMLIMIT", "")
	t.Setenv("MEMORY_LIMIT", "2147483648") // 2 GiB
	t.Setenv("MEMORY_RATIO", "0.75")

	result := ConfigureFromEnv()

	if result.Ratio != 0.75 {
		t.Errorf("Expected ratio 0.75, got %.2f", result.Ratio)
	}
	want := int64(float64(2147483648) * 0.75)
	if result.GoMemLimit != want {
		t.Errorf("Expected GoMemLimit %d, got %d", want, result.GoMemLimit)
	}
}

func TestConfigureFromEnvInvalidMemoryLimit(t *testing.T) {
	restoreMemoryLimit(t)
	t.Setenv("GOMEMLIMIT", "")
	t.Setenv("MEMORY_LIMIT", "not-a-number")

	result := ConfigureFromEnv()

	if result.Configured {
		t.Error("Expected Configured=false for an unparseable limit")
	}
	if result.Source != "none" {
		t.Errorf("Expected source none, got %q", result.Source)
	}
}

func TestConfigureFromEnvBadRatioFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		ratio string
	}{
		{"Not a number", "lots"},
		{"Zero", "0"},
		{"Negative", "-0.5"},
		{"Above one", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restoreMemoryLimit(t)
			t.Setenv("GOMEMLIMIT", "")
			t.Setenv("MEMORY_LIMIT", "1073741824")
			t.Setenv("MEMORY_RATIO", tt.ratio)

			result := ConfigureFromEnv()

			if result.Ratio != DefaultMemoryRatio {
				t.Errorf("Expected fallback to default ratio %.2f, got %.2f",
					DefaultMemoryRatio, result.Ratio)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"Bytes", 512, "512 B"},
		{"Kibibytes", 2048, "2.0 KiB"},
		{"Mebibytes", 400 * 1024 * 1024, "400.0 MiB"},
		{"Gibibytes", 1073741824, "1.0 GiB"},
		{"Fractional", 1536, "1.5 KiB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatBytes(tt.bytes); got != tt.want {
				t.Errorf("formatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}
