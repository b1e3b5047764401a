package config

// EnvPrefix is empty because every field names its variable explicitly.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names used outside struct tags (tests, error messages).
const (
	EnvAppEnv          = "BOBBIN_APP_ENV"
	EnvAppPort         = "BOBBIN_APP_PORT"
	EnvUpstreamBaseURL = "BOBBIN_UPSTREAM_BASE_URL"
	EnvRedisURL        = "BOBBIN_REDIS_URL"
	EnvDBDSN           = "BOBBIN_DB_DSN"
	EnvSessionSecret   = "BOBBIN_SESSION_SECRET"
)
