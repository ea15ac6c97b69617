package common

// Environment variable keys
const (
	EnvDatabaseURL  = "DATABASE_URL"
	EnvPort         = "PORT"
	EnvPython       = "PYTHON"
	EnvVirtualEnv   = "VIRTUAL_ENV"
	EnvAppPath      = "APP_PATH"
	EnvConfigFile   = "CONFIG_FILE"
	EnvEnvFile      = "ENV_FILE"
	EnvMetricsPort  = "METRICS_PORT"
	EnvDataPath     = "DATA_PATH"
	EnvReadyCheck   = "READY_CHECK"
	EnvReadyTimeout = "READY_TIMEOUT"
	EnvLogLevel     = "LOG_LEVEL"
)

// Configuration defaults
const (
	DefaultDatabaseURL  = "sqlite:///./local.db"
	DefaultPort         = "8501"
	DefaultEnvFile      = ".env"
	DefaultMetricsPort  = 0 // disabled
	DefaultReadyCheck   = true
	DefaultLogLevel     = "info"
	DefaultAppDir       = "FraudGuardStream"
	DefaultAppFile      = "app.py"
	DefaultPythonBinary = "python"
)

// Dashboard framework invocation. The spellings are part of the streamlit CLI
// contract and must not change.
const (
	ModuleFlag         = "-m"
	DashboardModule    = "streamlit"
	DashboardRunVerb   = "run"
	FlagServerPort     = "--server.port"
	FlagServerAddress  = "--server.address"
	FlagServerHeadless = "--server.headless"
	BindAllInterfaces  = "0.0.0.0"
	HeadlessTrue       = "true"
	HealthPath         = "/_stcore/health"
)

// Console messages
const (
	MsgShuttingDown = "\nShutting down..."
	MsgRunErrorFmt  = "Error running app: %v"
)

// Validation constants
const (
	MinPort         = 1
	MaxPort         = 65535
	MinMetricsPort  = 1024
	MaxMetricsPort  = 65535
	MinReadyTimeout = 1   // seconds
	MaxReadyTimeout = 600 // seconds
)
