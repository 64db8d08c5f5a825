package reel

import (
	"bytes"
	"errors"
	"image/gif"
	"testing"
	"time"

	"raffle-spinner.klederson.com/internal/spin"
)

func TestRenderGIF(t *testing.T) {
	var buf bytes.Buffer
	req := GIFRequest{
		Participants: people(150),
		TargetTicket: "120",
		Settings:     spin.Settings{MinSpinDuration: 1, DecelerationRate: spin.DecelerationFast},
		Width:        160,
		FPS:          10,
		Linger:       time.Second,
		Seed:         1,
	}
	res, err := RenderGIF(&buf, req)
	if err != nil {
		t.Fatal(err)
	}
	if res.Result.Winner.TicketNumber != "120" {
		t.Errorf("winner = %q, want 120", res.Result.Winner.TicketNumber)
	}
	if !res.Result.Swapped {
		t.Error("150 participants should swap subsets")
	}

	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(g.Image) != res.Frames {
		t.Errorf("images = %d, want %d", len(g.Image), res.Frames)
	}
	if b := g.Image[0].Bounds(); b.Dx() != 160 || b.Dy() != 100 {
		t.Errorf("bounds = %v", b)
	}
	if last := g.Delay[len(g.Delay)-1]; last != 10+100 {
		t.Errorf("last delay = %d, want 110", last)
	}
}

func TestRenderGIF_Deterministic(t *testing.T) {
	req := GIFRequest{
		Participants: people(30),
		TargetTicket: "007",
		Settings:     spin.Settings{MinSpinDuration: 0.5},
		Width:        80,
		FPS:          8,
		Seed:         42,
	}
	var a, b bytes.Buffer
	if _, err := RenderGIF(&a, req); err != nil {
		t.Fatal(err)
	}
	if _, err := RenderGIF(&b, req); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("same seed should render the same gif")
	}
}

func TestRenderGIF_UnknownTicket(t *testing.T) {
	var buf bytes.Buffer
	_, err := RenderGIF(&buf, GIFRequest{Participants: people(5), TargetTicket: "999"})
	if !errors.Is(err, spin.ErrTicketNotFound) {
		t.Errorf("err = %v, want ErrTicketNotFound", err)
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written on error")
	}
}

func TestRenderGIF_FrameDelays(t *testing.T) {
	for _, tc := range []struct {
		fps     int
		wantFPS int
	}{
		{fps: 30, wantFPS: 30},
		{fps: 7, wantFPS: 7},
		{fps: 250, wantFPS: 100},
	} {
		var buf bytes.Buffer
		_, err := RenderGIF(&buf, GIFRequest{
			Participants: people(20),
			TargetTicket: "005",
			Settings:     spin.Settings{MinSpinDuration: 0.5, DecelerationRate: spin.DecelerationFast},
			Width:        80,
			FPS:          tc.fps,
			Seed:         3,
		})
		if err != nil {
			t.Fatalf("fps %d: %v", tc.fps, err)
		}
		g, err := gif.DecodeAll(&buf)
		if err != nil {
			t.Fatalf("fps %d: decode: %v", tc.fps, err)
		}

		total := 0
		for i, d := range g.Delay {
			if d <= 0 {
				t.Fatalf("fps %d: frame %d has delay %d", tc.fps, i, d)
			}
			total += d
			// The running total tracks the frame clock, rounded down
			// to whole centiseconds.
			want := (i + 1) * 100 / tc.wantFPS
			if total != want {
				t.Fatalf("fps %d: %d cs after frame %d, want %d", tc.fps, total, i, want)
			}
		}
	}
}
