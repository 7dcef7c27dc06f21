package league

// WindowKind selects how a window filters games.
type WindowKind int

const (
	// WindowAllTime imposes no filter.
	WindowAllTime WindowKind = iota
	// WindowSeason keeps games belonging to one season.
	WindowSeason
	// WindowDate keeps games played on one calendar date.
	WindowDate
	// WindowRange keeps games within an inclusive date range.
	WindowRange
)

// Window is a time scope applied to game selection. The contract is purely
// "games whose gameDate falls within the window, and whose season matches
// when windowed by season" — the same results must come back whether the
// filter runs in SQL or in process.
type Window struct {
	Kind     WindowKind
	SeasonID int64
	Date     string
	Start    string
	End      string
}

// AllTime returns the unbounded window.
func AllTime() Window {
	return Window{Kind: WindowAllTime}
}

// ForSeason windows on a single season.
func ForSeason(seasonID int64) Window {
	return Window{Kind: WindowSeason, SeasonID: seasonID}
}

// ForDate windows on one calendar date.
func ForDate(date string) (Window, error) {
	if !ValidDate(date) {
		return Window{}, Validationf("date %q is not a YYYY-MM-DD date", date)
	}
	return Window{Kind: WindowDate, Date: date}, nil
}

// ForRange windows on an inclusive date range.
func ForRange(start, end string) (Window, error) {
	if !ValidDate(start) {
		return Window{}, Validationf("start date %q is not a YYYY-MM-DD date", start)
	}
	if !ValidDate(end) {
		return Window{}, Validationf("end date %q is not a YYYY-MM-DD date", end)
	}
	if start > end {
		return Window{}, Validationf("start date %s is after end date %s", start, end)
	}
	return Window{Kind: WindowRange, Start: start, End: end}, nil
}

// Matches reports whether a game with the given season and date falls inside
// the window. Dates are ISO strings, so lexicographic comparison is
// chronological.
func (w Window) Matches(seasonID int64, gameDate string) bool {
	switch w.Kind {
	case WindowSeason:
		return seasonID == w.SeasonID
	case WindowDate:
		return gameDate == w.Date
	case WindowRange:
		return gameDate >= w.Start && gameDate <= w.End
	}
	return true
}
