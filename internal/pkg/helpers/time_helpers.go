package helpers

import "time"

// Layouts of the date and time inputs used by event forms
const (
	DateInputLayout = "2006-01-02"
	TimeInputLayout = "15:04"
)

// ComposeDateTime joins a date input ("2006-01-02") and a time input ("15:04", seconds optional)
// into an instant in loc.
func ComposeDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateInputLayout+"T"+TimeInputLayout, date+"T"+clock, loc)
	if err == nil {
		return t, nil
	}
	return time.ParseInLocation(DateInputLayout+"T"+TimeInputLayout+":05", date+"T"+clock, loc)
}

// FormatEventDate renders a date like "Mon, Sep 15, 2025"
func FormatEventDate(t time.Time) string {
	return t.Format("Mon, Jan 2, 2006")
}

// FormatEventTime renders a 12-hour clock time like "02:30 PM"
func FormatEventTime(t time.Time) string {
	return t.Format("03:04 PM")
}
