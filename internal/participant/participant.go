package participant

import "strings"

// Participant is one raffle entry.
type Participant struct {
	FirstName    string
	LastName     string
	TicketNumber string
}

// FullName returns "First Last", trimmed.
func (p Participant) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// DisplayName returns the full name or "[no name]" if both parts are empty.
func (p Participant) DisplayName() string {
	if n := p.FullName(); n != "" {
		return n
	}
	return "[no name]"
}

// Ticket returns the normalized ticket number.
func (p Participant) Ticket() string {
	return NormalizeTicket(p.TicketNumber)
}

// Sorted returns a copy of list ordered by ticket number.
func Sorted(list []Participant) []Participant {
	out := make([]Participant, len(list))
	copy(out, list)
	sortByTicket(out)
	return out
}

// IndexOf returns the index of the first participant whose ticket matches
// ticket after normalization, or -1.
func IndexOf(list []Participant, ticket string) int {
	want := NormalizeTicket(ticket)
	if want == "" {
		return -1
	}
	for i := range list {
		if NormalizeTicket(list[i].TicketNumber) == want {
			return i
		}
	}
	return -1
}
