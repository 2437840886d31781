package constants

import "time"

const (
	AppName            = "punchcard"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/punchcard/punchcard.db"
	ConnectionEnvVar   = "PUNCHCARD_DB_CONNECTION"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DateTimeFormat is used for event timestamps entered on the command line
	DateTimeFormat = "2006-01-02 15:04"

	Day  = 24 * time.Hour
	Week = 7 * Day

	// MaxMinutes is the largest minute count a TimeValue accumulator may hold
	MaxMinutes = 1<<31 - 1

	// LongSession flags sessions that probably miss a clock-out
	LongSession = 16 * time.Hour

	// ReportWorkers bounds the number of weeks aggregated concurrently
	ReportWorkers = 4
)
