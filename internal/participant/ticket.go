package participant

import (
	"sort"
	"strings"
	"unicode"
)

// NormalizeTicket trims whitespace and strips leading zeros.
// An all-zero ticket becomes "0"; a blank ticket stays blank.
// Whitespace between leading zeros is stripped with them, so the result is
// always a fixed point.
func NormalizeTicket(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t := strings.TrimLeftFunc(s, func(r rune) bool {
		return r == '0' || unicode.IsSpace(r)
	})
	if t == "" {
		return "0"
	}
	return t
}

// SameTicket reports whether a and b name the same ticket.
func SameTicket(a, b string) bool {
	return NormalizeTicket(a) == NormalizeTicket(b)
}

// TicketLess orders tickets numerically when both are digit-only and
// lexically otherwise. Numeric tickets sort before non-numeric ones.
func TicketLess(a, b string) bool {
	na, nb := NormalizeTicket(a), NormalizeTicket(b)
	da, db := isDigits(na), isDigits(nb)
	switch {
	case da && db:
		if len(na) != len(nb) {
			return len(na) < len(nb)
		}
		return na < nb
	case da != db:
		return da
	default:
		return na < nb
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func sortByTicket(list []Participant) {
	sort.SliceStable(list, func(i, j int) bool {
		return TicketLess(list[i].TicketNumber, list[j].TicketNumber)
	})
}
