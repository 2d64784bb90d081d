package booking

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// SessionDuration is the fixed length of every mentoring session. The end
// instant is always start + 3h regardless of any range in the time description
// ("1 PM - 4 PM" is 3 hours by convention, not by parsing the range).
const SessionDuration = 3 * time.Hour

var (
	// ErrInvalidTimeFormat means the time description contains no hour+AM/PM pair.
	ErrInvalidTimeFormat = errors.New("invalid time format")
	// ErrInvalidDate means the composed instant did not parse to a valid date/time.
	ErrInvalidDate = errors.New("invalid date format")
)

// timePattern extracts the first "<digits> AM/PM" pair from a free-form time
// description such as "Tuesday 1 PM - 4 PM". Surrounding text is ignored.
// The digits are deliberately not range-checked here: out-of-range hours like
// "13 PM" pass the match and fail later when the composed instant is parsed.
var timePattern = regexp.MustCompile(`(?i)(\d+)\s*(PM|AM)`)

// Session is a booking request after successful date/time normalization.
// SessionDate and SessionTime keep the caller's original strings for the
// confirmation email; StartsAt/EndsAt are the derived UTC instants.
type Session struct {
	MentorName  string
	UserEmail   string
	SessionDate string
	SessionTime string
	StartsAt    time.Time
	EndsAt      time.Time
}

// Normalize parses a calendar date ("2025-06-10") and a loose time description
// ("1 PM", "Tuesday 1 PM - 4 PM") into a Session with UTC start and end
// instants. Minutes are always zero; only on-the-hour bookings are supported.
func Normalize(date, timeDescription string) (*Session, error) {
	m := timePattern.FindStringSubmatch(timeDescription)
	if m == nil {
		return nil, ErrInvalidTimeFormat
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil {
		// Matched digits too large for an int; treat like any other bad instant.
		return nil, ErrInvalidDate
	}
	period := strings.ToUpper(m[2])
	if period == "PM" && hour != 12 {
		hour += 12
	} else if period == "AM" && hour == 12 {
		hour = 0
	}

	instant := fmt.Sprintf("%sT%02d:00:00.000Z", date, hour)
	start, err := time.Parse("2006-01-02T15:04:05.000Z", instant)
	if err != nil {
		return nil, ErrInvalidDate
	}

	return &Session{
		SessionDate: date,
		SessionTime: timeDescription,
		StartsAt:    start,
		EndsAt:      start.Add(SessionDuration),
	}, nil
}
