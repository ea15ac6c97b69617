package launch

import (
	"strings"

	"fraudguard-launcher/internal/cfg"
	"fraudguard-launcher/internal/common"
)

// BuildCommand returns the streamlit invocation for appPath. The order and
// spelling of every element is what `streamlit run` expects.
func BuildCommand(interpreter, appPath, port string) []string {
	return []string{
		interpreter,
		common.ModuleFlag, common.DashboardModule, common.DashboardRunVerb, appPath,
		common.FlagServerPort, port,
		common.FlagServerAddress, common.BindAllInterfaces,
		common.FlagServerHeadless, common.HeadlessTrue,
	}
}

// ChildEnv returns parent extended with DATABASE_URL and PORT from s when
// parent does not already carry them. parent itself is not modified.
func ChildEnv(parent []string, s cfg.Settings) []string {
	env := make([]string, len(parent), len(parent)+2)
	copy(env, parent)

	for _, kv := range [][2]string{
		{common.EnvDatabaseURL, s.DatabaseURL},
		{common.EnvPort, s.Port},
	} {
		if !hasKey(parent, kv[0]) {
			env = append(env, kv[0]+"="+kv[1])
		}
	}
	return env
}

func hasKey(env []string, key string) bool {
	prefix := key + "="
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			return true
		}
	}
	return false
}
