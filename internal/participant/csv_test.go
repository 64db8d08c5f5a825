package participant

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"
)

func TestReadCSV_HeaderAliases(t *testing.T) {
	data := "First Name,Surname,Ticket #\nAda,Lovelace,007\nAlan,Turing,8\n"
	list, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(list))
	}
	if list[0].FirstName != "Ada" || list[0].LastName != "Lovelace" || list[0].TicketNumber != "007" {
		t.Errorf("unexpected first row: %+v", list[0])
	}
}

func TestReadCSV_NameColumnSplit(t *testing.T) {
	data := "name,ticket_number\nGrace Brewster Hopper,1\nCher,2\n"
	list, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list[0].FirstName != "Grace" || list[0].LastName != "Brewster Hopper" {
		t.Errorf("split name = %q / %q", list[0].FirstName, list[0].LastName)
	}
	if list[1].FirstName != "Cher" || list[1].LastName != "" {
		t.Errorf("single name = %q / %q", list[1].FirstName, list[1].LastName)
	}
}

func TestReadCSV_SkipsBlankTickets(t *testing.T) {
	data := "first,last,ticket\nA,B,1\nC,D,\nE,F,3\n"
	list, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 participants, got %d", len(list))
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty", "", ErrEmptyCSV},
		{"no ticket column", "first,last\nA,B\n", ErrNoTicketColumn},
		{"duplicate after normalization", "first,ticket\nA,7\nB,007\n", ErrDuplicateTicket},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestWriteCSV_ReadBack(t *testing.T) {
	in := Generate(25, 1, rand.New(rand.NewSource(3)))

	var buf bytes.Buffer
	if err := WriteCSV(&buf, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "first,last,ticket_number\n") {
		t.Fatalf("unexpected header: %q", strings.SplitN(buf.String(), "\n", 2)[0])
	}

	out, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d rows, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("row %d: got %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestGenerate_TicketPadding(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	list := Generate(100, 1, rng)
	if list[0].TicketNumber != "001" || list[99].TicketNumber != "100" {
		t.Errorf("got %q..%q, want 001..100", list[0].TicketNumber, list[99].TicketNumber)
	}

	list = Generate(5000, 10001, rng)
	if list[0].TicketNumber != "10001" || list[4999].TicketNumber != "15000" {
		t.Errorf("got %q..%q, want 10001..15000", list[0].TicketNumber, list[4999].TicketNumber)
	}

	if Generate(0, 1, rng) != nil {
		t.Error("expected nil for zero count")
	}
}
