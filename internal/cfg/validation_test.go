package cfg

import (
	"testing"
	"time"
)

// createValidSettings creates a valid Settings struct for testing
func createValidSettings() *Settings {
	return &Settings{
		DatabaseURL:  "sqlite:///./local.db",
		Port:         "8501",
		AppPath:      "/srv/FraudGuardStream/app.py",
		MetricsPort:  9090,
		ReadyCheck:   true,
		ReadyTimeout: 60 * time.Second,
		LogLevel:     "info",
	}
}

func TestValidateSettings_ValidConfig(t *testing.T) {
	settings := createValidSettings()

	err := validateSettings(settings)
	if err != nil {
		t.Errorf("Expected valid config to pass, got error: %v", err)
	}
}

func TestValidateSettings_MetricsDisabled(t *testing.T) {
	settings := createValidSettings()
	settings.MetricsPort = 0

	if err := validateSettings(settings); err != nil {
		t.Errorf("Expected disabled metrics port to pass, got error: %v", err)
	}
}

func TestValidateSettings_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Settings)
	}{
		{"port zero", func(s *Settings) { s.Port = "0" }},
		{"port negative", func(s *Settings) { s.Port = "-1" }},
		{"port too large", func(s *Settings) { s.Port = "65536" }},
		{"port with spaces", func(s *Settings) { s.Port = " 8501" }},
		{"metrics port too low", func(s *Settings) { s.MetricsPort = 1023 }},
		{"metrics port too high", func(s *Settings) { s.MetricsPort = 70000 }},
		{"metrics port equals port", func(s *Settings) { s.MetricsPort = 8501 }},
		{"ready timeout too short", func(s *Settings) { s.ReadyTimeout = 500 * time.Millisecond }},
		{"ready timeout too long", func(s *Settings) { s.ReadyTimeout = 11 * time.Minute }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := createValidSettings()
			tt.mutate(settings)

			if err := validateSettings(settings); err == nil {
				t.Errorf("Expected validation error for %s", tt.name)
			}
		})
	}
}

func TestValidateSettings_BoundaryPorts(t *testing.T) {
	for _, port := range []string{"1", "65535"} {
		settings := createValidSettings()
		settings.Port = port
		if err := validateSettings(settings); err != nil {
			t.Errorf("Expected port %s to pass, got error: %v", port, err)
		}
	}
}
