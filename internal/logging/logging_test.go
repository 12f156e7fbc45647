package logging

import (
	"os"
	"sync"
	"testing"
)

func resetLevel() {
	levelOnce = sync.Once{}
	currentLevel = LevelInfo
}

func TestLogLevelFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		envValue string
		expected LogLevel
	}{
		{name: "Debug via LOG_LEVEL", envVar: "LOG_LEVEL", envValue: "debug", expected: LevelDebug},
		{name: "Info via LOG_LEVEL", envVar: "LOG_LEVEL", envValue: "info", expected: LevelInfo},
		{name: "Warn via LOG_LEVEL", envVar: "LOG_LEVEL", envValue: "warn", expected: LevelWarn},
		{name: "Warning alias", envVar: "LOG_LEVEL", envValue: "warning", expected: LevelWarn},
		{name: "Error via LOG_LEVEL", envVar: "LOG_LEVEL", envValue: "error", expected: LevelError},
		{name: "Case insensitive", envVar: "LOG_LEVEL", envValue: "DEBUG", expected: LevelDebug},
		{name: "Unknown defaults to info", envVar: "LOG_LEVEL", envValue: "bogus", expected: LevelInfo},
		{name: "DEBUG env wins", envVar: "DEBUG", envValue: "1", expected: LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetLevel()
			os.Unsetenv("LOG_LEVEL")
			os.Unsetenv("DEBUG")
			t.Setenv(tt.envVar, tt.envValue)

			if got := GetLevel(); got != tt.expected {
				t.Errorf("GetLevel() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsDebugEnabled(t *testing.T) {
	resetLevel()
	os.Unsetenv("DEBUG")
	t.Setenv("LOG_LEVEL", "debug")

	if !IsDebugEnabled() {
		t.Error("IsDebugEnabled() = false with LOG_LEVEL=debug")
	}

	resetLevel()
	t.Setenv("LOG_LEVEL", "error")
	if IsDebugEnabled() {
		t.Error("IsDebugEnabled() = true with LOG_LEVEL=error")
	}
}
