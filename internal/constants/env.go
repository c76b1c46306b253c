package constants

const (
	// Environment variables
	EnvDBConnection = "TALLY_DB_CONNECTION"
	EnvConfigDir    = "TALLY_CONFIG_DIR"
	EnvDebug        = "TALLY_DEBUG"
	EnvDayZone      = "TALLY_DAY_ZONE"

	// DefaultDayZone is the reference zone for completion date keys. A fixed
	// zone keeps every process writing to the same calendar-day bucket.
	DefaultDayZone = "UTC"
)
