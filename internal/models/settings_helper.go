package models

import (
	"strconv"
	"time"

	"github.com/julianstephens/punchcard/internal/constants"
	"github.com/julianstephens/punchcard/internal/errors"
	"github.com/julianstephens/punchcard/internal/timevalue"
	"github.com/julianstephens/punchcard/internal/utils"
)

// DefaultSettings returns the settings written by init.
func DefaultSettings() Settings {
	s := Settings{
		WeeklyTargetMin:  timevalue.MustParse(constants.DefaultWeeklyTarget).Minutes(),
		AutoPauseEnabled: constants.DefaultAutoPauseEnabled,
		AutoPauseBegin:   constants.DefaultAutoPauseBegin,
		AutoPauseEnd:     constants.DefaultAutoPauseEnd,
		FlexiEnabled:     constants.DefaultFlexiEnabled,
		FlexiStartMin:    timevalue.MustParse(constants.DefaultFlexiStart).Minutes(),
		DistributeFlexi:  constants.DefaultDistributeFlexi,
		Timezone:         constants.DefaultTimezone,
	}
	days, _ := utils.ParseWeekdays(constants.DefaultWorkDays)
	for _, d := range days {
		s.WorkDays[d] = true
	}
	return s
}

// MapToSettings converts stored key/value pairs into Settings, starting from the defaults
// so keys added by later versions fall back cleanly.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()
	for key, value := range data {
		if err := ApplySetting(&settings, key, value); err != nil {
			return Settings{}, err
		}
	}
	return settings, nil
}

// ApplySetting validates value and stores it under key. Unknown keys are rejected.
func ApplySetting(s *Settings, key, value string) error {
	switch key {
	case constants.SettingWeeklyTarget:
		v, err := timevalue.Parse(value)
		if err != nil {
			return err
		}
		if v.IsNegative() {
			return errors.Invalid("%s must not be negative", key)
		}
		s.WeeklyTargetMin = v.Minutes()
	case constants.SettingWorkDays:
		days, err := utils.ParseWeekdays(value)
		if err != nil {
			return errors.Invalid("%s: %v", key, err)
		}
		s.WorkDays = [7]bool{}
		for _, d := range days {
			s.WorkDays[d] = true
		}
	case constants.SettingAutoPauseEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Invalid("%s: %v", key, err)
		}
		s.AutoPauseEnabled = b
	case constants.SettingAutoPauseBegin, constants.SettingAutoPauseEnd:
		if !utils.ValidateTimeFormat(value) {
			return errors.Invalid("%s must be HH:MM, got %q", key, value)
		}
		if key == constants.SettingAutoPauseBegin {
			s.AutoPauseBegin = value
		} else {
			s.AutoPauseEnd = value
		}
	case constants.SettingFlexiEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Invalid("%s: %v", key, err)
		}
		s.FlexiEnabled = b
	case constants.SettingFlexiStart:
		v, err := timevalue.Parse(value)
		if err != nil {
			return err
		}
		s.FlexiStartMin = v.Minutes()
	case constants.SettingFlexiStartDate:
		if value == "" {
			s.FlexiStartDate = nil
			return nil
		}
		d, err := time.Parse(constants.DateFormat, value)
		if err != nil {
			return errors.Invalid("%s must be YYYY-MM-DD, got %q", key, value)
		}
		s.FlexiStartDate = &d
	case constants.SettingDistributeFlexi:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Invalid("%s: %v", key, err)
		}
		s.DistributeFlexi = b
	case constants.SettingTimezone:
		if !utils.ValidateTimezone(value) {
			return errors.Invalid("unknown timezone %q", value)
		}
		s.Timezone = value
	default:
		return errors.Invalid("unknown setting %q", key)
	}
	return nil
}

// SettingsToMap converts Settings to the key/value pairs stored in the settings table.
func SettingsToMap(s Settings) map[string]string {
	m := map[string]string{
		constants.SettingWeeklyTarget:     timevalue.FromMinutes(s.WeeklyTargetMin).String(),
		constants.SettingWorkDays:         utils.FormatWeekdays(s.WorkDayList()),
		constants.SettingAutoPauseEnabled: strconv.FormatBool(s.AutoPauseEnabled),
		constants.SettingAutoPauseBegin:   s.AutoPauseBegin,
		constants.SettingAutoPauseEnd:     s.AutoPauseEnd,
		constants.SettingFlexiEnabled:     strconv.FormatBool(s.FlexiEnabled),
		constants.SettingFlexiStart:       timevalue.FromMinutes(s.FlexiStartMin).String(),
		constants.SettingFlexiStartDate:   "",
		constants.SettingDistributeFlexi:  strconv.FormatBool(s.DistributeFlexi),
		constants.SettingTimezone:         s.Timezone,
	}
	if s.FlexiStartDate != nil {
		m[constants.SettingFlexiStartDate] = s.FlexiStartDate.Format(constants.DateFormat)
	}
	return m
}

// Location resolves the configured timezone, falling back to the local zone.
func (s Settings) Location() *time.Location {
	loc, err := utils.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
