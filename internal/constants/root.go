package constants

const (
	AppName            = "tally"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/tally/tally.db"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// HighFrequencyThreshold is the completions_per_day value above which a
	// habit is treated as an unlimited counter.
	HighFrequencyThreshold = 100

	// MaxHabitTitleLen matches the width of habits.title.
	MaxHabitTitleLen = 255

	// Log file constants
	LogDirName     = "logs"
	LogFileName    = "tally.log"
	LogMaxSizeMB   = 10
	LogMaxBackups  = 3
	LogMaxAgeDays  = 28
	DefaultLogRoot = "~/.config/tally"
)

// Frequency is how often a habit is meant to be performed.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ValidFrequencies lists the accepted frequency values in display order.
var ValidFrequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly}
