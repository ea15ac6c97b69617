package launch

import (
	"testing"

	"fraudguard-launcher/internal/cfg"

	"github.com/stretchr/testify/assert"
)

func TestBuildCommand(t *testing.T) {
	argv := BuildCommand("/usr/bin/python", "/x/FraudGuardStream/app.py", "9000")

	assert.Equal(t, []string{
		"/usr/bin/python", "-m", "streamlit", "run", "/x/FraudGuardStream/app.py",
		"--server.port", "9000",
		"--server.address", "0.0.0.0",
		"--server.headless", "true",
	}, argv)
}

func TestBuildCommand_FreshSlice(t *testing.T) {
	a := BuildCommand("py", "app.py", "8501")
	b := BuildCommand("py", "app.py", "8501")
	a[0] = "changed"

	assert.Equal(t, "py", b[0])
}

func TestChildEnv(t *testing.T) {
	settings := cfg.Settings{DatabaseURL: "sqlite:///./local.db", Port: "8501"}

	tests := []struct {
		name   string
		parent []string
		expect []string
	}{
		{
			name:   "both absent",
			parent: []string{"HOME=/root"},
			expect: []string{"HOME=/root", "DATABASE_URL=sqlite:///./local.db", "PORT=8501"},
		},
		{
			name:   "both present",
			parent: []string{"PORT=9000", "DATABASE_URL=postgres://x"},
			expect: []string{"PORT=9000", "DATABASE_URL=postgres://x"},
		},
		{
			name:   "present but empty",
			parent: []string{"DATABASE_URL="},
			expect: []string{"DATABASE_URL=", "PORT=8501"},
		},
		{
			name:   "similar key is not a match",
			parent: []string{"PORTAL=1"},
			expect: []string{"PORTAL=1", "DATABASE_URL=sqlite:///./local.db", "PORT=8501"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := append([]string(nil), tt.parent...)
			env := ChildEnv(tt.parent, settings)

			assert.Equal(t, tt.expect, env)
			assert.Equal(t, before, tt.parent, "parent must not be modified")
		})
	}
}
