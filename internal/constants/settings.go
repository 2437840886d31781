package constants

const (
	SettingWeeklyTarget     = "weekly_target"
	SettingWorkDays         = "work_days"
	SettingAutoPauseEnabled = "auto_pause_enabled"
	SettingAutoPauseBegin   = "auto_pause_begin"
	SettingAutoPauseEnd     = "auto_pause_end"
	SettingFlexiEnabled     = "flexi_enabled"
	SettingFlexiStart       = "flexi_start"
	SettingFlexiStartDate   = "flexi_start_date"
	SettingDistributeFlexi  = "distribute_flexi_reduction"
	SettingTimezone         = "timezone"

	// Default Settings Values
	DefaultWeeklyTarget     = "40:00"
	DefaultWorkDays         = "mon,tue,wed,thu,fri"
	DefaultAutoPauseEnabled = false
	DefaultAutoPauseBegin   = "12:00"
	DefaultAutoPauseEnd     = "12:30"
	DefaultFlexiEnabled     = true
	DefaultFlexiStart       = "0:00"
	DefaultDistributeFlexi  = false
	DefaultTimezone         = "Local" // Use system local timezone by default
)
