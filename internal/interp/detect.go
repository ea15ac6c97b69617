package interp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"fraudguard-launcher/internal/common"

	"github.com/rs/zerolog/log"
)

// Source records how an interpreter path was chosen.
type Source string

const (
	SourceOverride      Source = "override"
	SourceVirtualEnv    Source = "virtualenv"
	SourceIntrospection Source = "introspection"
	SourcePath          Source = "path"
	SourceFallback      Source = "fallback"
)

const probeScript = `import json, sys
print(json.dumps({
    "prefix": sys.prefix,
    "base_prefix": getattr(sys, "base_prefix", ""),
    "real_prefix": getattr(sys, "real_prefix", ""),
    "executable": sys.executable,
}))`

var candidates = []string{"python3", common.DefaultPythonBinary}

// Detector gathers the inputs for Resolve from the host.
type Detector struct {
	Override     string
	Lookup       func(key string) (string, bool)
	LookPath     func(file string) (string, error)
	Probe        func(ctx context.Context, python string) (Prefixes, error)
	GOOS         string
	ProbeTimeout time.Duration
}

func NewDetector(override string) *Detector {
	return &Detector{
		Override:     override,
		Lookup:       os.LookupEnv,
		LookPath:     exec.LookPath,
		Probe:        Introspect,
		GOOS:         runtime.GOOS,
		ProbeTimeout: 5 * time.Second,
	}
}

// Detect returns the interpreter to launch the dashboard with. It never
// fails: when nothing better is known the bare name "python" is returned and
// left for the spawn to reject.
func (d *Detector) Detect(ctx context.Context) (string, Source) {
	if d.Override != "" {
		return d.Override, SourceOverride
	}

	if venv, _ := d.Lookup(common.EnvVirtualEnv); venv != "" {
		return VenvPython(venv, d.GOOS), SourceVirtualEnv
	}

	for _, name := range candidates {
		path, err := d.LookPath(name)
		if err != nil {
			continue
		}

		probeCtx, cancel := context.WithTimeout(ctx, d.ProbeTimeout)
		prefixes, err := d.Probe(probeCtx, path)
		cancel()
		if err != nil {
			log.Debug().Err(err).Str("python", path).Msg("interpreter introspection failed")
			return path, SourcePath
		}
		if prefixes.Executable == "" {
			prefixes.Executable = path
		}
		return Resolve(prefixes, d.GOOS), SourceIntrospection
	}

	return common.DefaultPythonBinary, SourceFallback
}

// Introspect asks python for its installation prefixes.
func Introspect(ctx context.Context, python string) (Prefixes, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, python, "-c", probeScript)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return Prefixes{}, fmt.Errorf("introspect %s: %w: %s", python, err, bytes.TrimSpace(stderr.Bytes()))
	}

	var p Prefixes
	if err := json.Unmarshal(bytes.TrimSpace(out), &p); err != nil {
		return Prefixes{}, fmt.Errorf("decode introspection output of %s: %w", python, err)
	}
	return p, nil
}
