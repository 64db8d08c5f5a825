package main

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"raffle-spinner.klederson.com/internal/participant"
	"raffle-spinner.klederson.com/internal/reel"
	"raffle-spinner.klederson.com/internal/spin"
)

func TestWriteGIF_UnknownTicketLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spin.gif")
	people := participant.Generate(20, 1000, rand.New(rand.NewSource(1)))

	_, _, err := writeGIF(path, reel.GIFRequest{Participants: people, TargetTicket: "nope"})
	if !errors.Is(err, spin.ErrTicketNotFound) {
		t.Fatalf("err = %v, want ErrTicketNotFound", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("%s should not exist after a rejected render: %v", path, statErr)
	}
}

func TestWriteGIF_NoParticipants(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spin.gif")

	_, _, err := writeGIF(path, reel.GIFRequest{TargetTicket: "1"})
	if !errors.Is(err, spin.ErrNoParticipants) {
		t.Fatalf("err = %v, want ErrNoParticipants", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("%s should not exist: %v", path, statErr)
	}
}

func TestWriteGIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spin.gif")
	people := participant.Generate(20, 1000, rand.New(rand.NewSource(1)))
	ticket := people[4].TicketNumber

	res, size, err := writeGIF(path, reel.GIFRequest{
		Participants: people,
		TargetTicket: ticket,
		Settings:     spin.Settings{MinSpinDuration: 0.5, DecelerationRate: spin.DecelerationFast},
		Width:        80,
		FPS:          8,
		Seed:         2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !participant.SameTicket(res.Result.Winner.TicketNumber, ticket) {
		t.Errorf("winner = %q, want %q", res.Result.Winner.TicketNumber, ticket)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if size == 0 || uint64(info.Size()) != size {
		t.Errorf("size = %d, file has %d bytes", size, info.Size())
	}
}
