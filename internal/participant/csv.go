package participant

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	ErrEmptyCSV        = errors.New("csv has no header row")
	ErrNoTicketColumn  = errors.New("csv has no ticket number column")
	ErrDuplicateTicket = errors.New("duplicate ticket number")
)

// column indexes resolved from the header row; -1 means absent.
type columns struct {
	first, last, name, ticket int
}

var headerAliases = map[string]string{
	"first":        "first",
	"firstname":    "first",
	"given":        "first",
	"givenname":    "first",
	"last":         "last",
	"lastname":     "last",
	"surname":      "last",
	"familyname":   "last",
	"name":         "name",
	"fullname":     "name",
	"ticket":       "ticket",
	"ticketnumber": "ticket",
	"ticketno":     "ticket",
	"ticketid":     "ticket",
	"entry":        "ticket",
	"entrynumber":  "ticket",
}

func canonicalHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.TrimPrefix(h, "\ufeff")
	r := strings.NewReplacer(" ", "", "_", "", "-", "", "#", "", ".", "")
	return headerAliases[r.Replace(h)]
}

func mapColumns(header []string) (columns, error) {
	c := columns{first: -1, last: -1, name: -1, ticket: -1}
	for i, h := range header {
		switch canonicalHeader(h) {
		case "first":
			if c.first < 0 {
				c.first = i
			}
		case "last":
			if c.last < 0 {
				c.last = i
			}
		case "name":
			if c.name < 0 {
				c.name = i
			}
		case "ticket":
			if c.ticket < 0 {
				c.ticket = i
			}
		}
	}
	if c.ticket < 0 {
		return c, ErrNoTicketColumn
	}
	return c, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// ReadCSV parses participants from CSV data with a header row.
// Rows with a blank ticket number are skipped.
func ReadCSV(r io.Reader) ([]Participant, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var out []Participant
	seen := make(map[string]int)
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", row, err)
		}

		ticket := field(rec, cols.ticket)
		if ticket == "" {
			continue
		}
		norm := NormalizeTicket(ticket)
		if prev, ok := seen[norm]; ok {
			return nil, fmt.Errorf("%w %q on row %d (first seen on row %d)", ErrDuplicateTicket, ticket, row, prev)
		}
		seen[norm] = row

		p := Participant{
			FirstName:    field(rec, cols.first),
			LastName:     field(rec, cols.last),
			TicketNumber: ticket,
		}
		if p.FirstName == "" && p.LastName == "" && cols.name >= 0 {
			full := field(rec, cols.name)
			if i := strings.IndexByte(full, ' '); i >= 0 {
				p.FirstName, p.LastName = full[:i], strings.TrimSpace(full[i+1:])
			} else {
				p.FirstName = full
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// LoadCSV reads participants from a CSV file.
func LoadCSV(path string) ([]Participant, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open participants file: %w", err)
	}
	defer f.Close()

	list, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

// WriteCSV writes participants with a first,last,ticket_number header.
func WriteCSV(w io.Writer, list []Participant) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"first", "last", "ticket_number"}); err != nil {
		return err
	}
	for _, p := range list {
		if err := cw.Write([]string{p.FirstName, p.LastName, p.TicketNumber}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
