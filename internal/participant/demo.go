package participant

import (
	"fmt"
	"strconv"
)

var demoFirstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda",
	"David", "Elizabeth", "William", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
	"Thomas", "Sarah", "Christopher", "Karen", "Charles", "Lisa", "Daniel", "Nancy",
	"Matthew", "Betty", "Anthony", "Helen", "Mark", "Sandra", "Donald", "Donna",
	"Steven", "Carol", "Kenneth", "Ruth", "Andrew", "Sharon", "Joshua", "Michelle",
	"Kevin", "Laura", "Brian", "Emily", "George", "Kimberly", "Timothy", "Deborah",
}

var demoLastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson",
	"Thomas", "Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson",
	"White", "Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson", "Walker",
	"Young", "Allen", "King", "Wright", "Scott", "Torres", "Nguyen", "Hill",
}

// Generate creates count participants with random names and consecutive
// tickets starting at start. Tickets are zero-padded to the width of the
// largest ticket, so Generate(5000, 10001, rng) yields "10001".."15000"
// and Generate(100, 1, rng) yields "001".."100".
func Generate(count, start int, rng interface{ Intn(n int) int }) []Participant {
	if count <= 0 {
		return nil
	}
	width := len(strconv.Itoa(start + count - 1))
	out := make([]Participant, count)
	for i := range out {
		out[i] = Participant{
			FirstName:    demoFirstNames[rng.Intn(len(demoFirstNames))],
			LastName:     demoLastNames[rng.Intn(len(demoLastNames))],
			TicketNumber: fmt.Sprintf("%0*d", width, start+i),
		}
	}
	return out
}
