package investor

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// SameIdentity reports whether a candidate refers to this investor.
// Usernames are compared when both sides have one, otherwise names are
// compared case-insensitively.
func (i *Investor) SameIdentity(name, username string) bool {
	username = strings.TrimSpace(username)
	if i.Username != "" && username != "" {
		return i.Username == username
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	return foldCase(i.Name) == foldCase(name)
}

// FindMatch returns the first investor in the list that matches the candidate, or nil
func FindMatch(investors []*Investor, name, username string) *Investor {
	for _, inv := range investors {
		if inv.SameIdentity(name, username) {
			return inv
		}
	}
	return nil
}

// NextInvestorID returns one more than the largest numeric id in use.
// Non-numeric ids are ignored; an empty list yields "1".
func NextInvestorID(ids []string) string {
	var max int64
	for _, id := range ids {
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return strconv.FormatInt(max+1, 10)
}

// FallbackInvestorID derives an id from the clock, used when existing ids cannot be listed
func FallbackInvestorID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// foldCase applies Unicode case folding; a Caser is stateful so one is made per call
func foldCase(s string) string {
	return cases.Fold().String(s)
}
