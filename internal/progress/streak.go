package progress

import "time"

// DateLayout is the calendar-date format used for streak bookkeeping.
const DateLayout = "2006-01-02"

// UpdateStreak advances the daily streak for activity at now.
//
// All day arithmetic is UTC. The original client used a mix of a fixed US
// zone and UTC date slicing; UTC is the single zone this server commits to.
//
// Rules: no prior activity starts a streak of 1; same-day activity leaves the
// streak unchanged; exactly one calendar day elapsed increments; a longer gap
// resets to 1. An unparseable stored date is treated as no prior activity.
func UpdateStreak(streak int, lastActiveDate string, now time.Time) (int, string) {
	today := now.UTC().Format(DateLayout)
	if lastActiveDate == "" {
		return 1, today
	}

	last, err := time.ParseInLocation(DateLayout, lastActiveDate, time.UTC)
	if err != nil {
		return 1, today
	}

	cur, _ := time.ParseInLocation(DateLayout, today, time.UTC)
	days := int(cur.Sub(last).Hours() / 24)

	switch {
	case days < 1:
		return streak, today
	case days == 1:
		return streak + 1, today
	default:
		return 1, today
	}
}
