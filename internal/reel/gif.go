package reel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"raffle-spinner.klederson.com/internal/config"
	"raffle-spinner.klederson.com/internal/participant"
	"raffle-spinner.klederson.com/internal/spin"
)

var (
	colorBackground = color.RGBA{0x0B, 0x0F, 0x0C, 0xFF}
	colorRowEven    = color.RGBA{0x10, 0x1A, 0x12, 0xFF}
	colorRowOdd     = color.RGBA{0x16, 0x24, 0x19, 0xFF}
	colorText       = color.RGBA{0x00, 0xFF, 0x41, 0xFF}
	colorTextBlur   = color.RGBA{0x00, 0x8F, 0x11, 0xFF}
	colorTicket     = color.RGBA{0x00, 0x4A, 0x0A, 0xFF}
	colorPointer    = color.RGBA{0xFF, 0xD7, 0x00, 0xFF}
	colorWinnerText = color.RGBA{0x0B, 0x0F, 0x0C, 0xFF}
)

// ErrRunaway is returned when a recorded spin fails to finish in time.
var ErrRunaway = errors.New("spin did not finish")

// GIFRequest describes one draw to record as an animated GIF.
type GIFRequest struct {
	Participants []participant.Participant
	TargetTicket string
	Settings     spin.Settings
	Width        int           // pixels; config.GIFWidth when zero
	FPS          int           // config.GIFFPS when zero
	Linger       time.Duration // how long the last frame holds
	Seed         int64         // RNG seed, so the same request renders the same GIF
	Logger       *zerolog.Logger
}

// GIFResult reports what was recorded.
type GIFResult struct {
	Result spin.Result
	Frames int
}

type recordedFrame struct {
	position float64
	subset   []participant.Participant
	speed    float64
}

// maxGIFFPS is the highest rate a GIF can express: one frame per centisecond.
const maxGIFFPS = 100

// RenderGIF replays the draw frame by frame at a fixed rate and writes it to
// w as an animated GIF. The spin runs on a manual clock, so the output does
// not depend on wall time.
func RenderGIF(w io.Writer, req GIFRequest) (GIFResult, error) {
	if req.Width <= 0 {
		req.Width = config.GIFWidth
	}
	if req.FPS <= 0 {
		req.FPS = config.GIFFPS
	}
	if req.FPS > maxGIFFPS {
		req.FPS = maxGIFFPS
	}
	if req.Linger < 0 {
		req.Linger = 0
	}

	frames, res, err := record(req)
	if err != nil {
		return GIFResult{}, err
	}
	if err := encode(w, req, frames); err != nil {
		return GIFResult{}, fmt.Errorf("failed to encode gif: %w", err)
	}
	return GIFResult{Result: res, Frames: len(frames)}, nil
}

func record(req GIFRequest) ([]recordedFrame, spin.Result, error) {
	clk := spin.NewManualClock()
	loop := spin.NewFrameLoop()

	var (
		s        *spin.Spinner
		frames   []recordedFrame
		pos      float64
		drew     bool
		res      spin.Result
		finished bool
		spinErr  error
		speed    Speed
	)
	s = spin.NewSpinner(spin.Options{
		Clock:     clk,
		Scheduler: loop,
		RNG:       rand.New(rand.NewSource(req.Seed)),
		Logger:    req.Logger,
	}, spin.SpinnerCallbacks{
		OnPositionUpdate: func(p float64) error {
			pos, drew = p, true
			return nil
		},
		OnSpinComplete: func(r spin.Result) {
			res, finished = r, true
		},
		OnError: func(err error) {
			spinErr = err
		},
	})

	if err := s.Spin(spin.Request{
		Participants: req.Participants,
		TargetTicket: req.TargetTicket,
		Settings:     req.Settings,
	}); err != nil {
		return nil, spin.Result{}, err
	}

	interval := time.Second / time.Duration(req.FPS)
	settings := req.Settings
	if settings == (spin.Settings{}) {
		settings = spin.DefaultSettings()
	}
	limit := int(2*settings.Duration()/interval) + 2*req.FPS

	for i := 0; loop.Pending(); i++ {
		if i >= limit {
			s.Cancel()
			return nil, spin.Result{}, fmt.Errorf("%w after %d frames", ErrRunaway, limit)
		}
		drew = false
		now := clk.Advance(interval)
		loop.Step(now)
		if !drew {
			continue
		}
		speed.Update(pos, spin.DefaultItemHeight, now)
		frames = append(frames, recordedFrame{position: pos, subset: s.Subset(), speed: speed.RowsPerSec})
	}

	if spinErr != nil {
		return nil, spin.Result{}, spinErr
	}
	if !finished {
		return nil, spin.Result{}, fmt.Errorf("%w: no winner", ErrRunaway)
	}
	return frames, res, nil
}

func encode(w io.Writer, req GIFRequest, frames []recordedFrame) error {
	if len(frames) == 0 {
		return fmt.Errorf("%w: no frames drawn", ErrRunaway)
	}
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return err
	}

	W := req.Width
	rowPx := float64(W) / 8
	H := int(rowPx) * config.ReelRows

	rendered := make([]image.Image, len(frames))
	var wg sync.WaitGroup
	wg.Add(len(frames))
	for i := range frames {
		go func(i int) {
			defer wg.Done()
			// Faces cache glyphs and are not safe to share between goroutines.
			face := truetype.NewFace(regular, &truetype.Options{
				Size:    rowPx * 0.4,
				Hinting: font.HintingFull,
			})
			dc := gg.NewContext(W, H)
			dc.SetFontFace(face)
			f := frames[i]
			landed := i == len(frames)-1
			drawReel(dc, Window(f.subset, f.position, spin.DefaultItemHeight), rowPx, f.speed > config.BlurSpeed, landed)
			rendered[i] = dc.Image()
		}(i)
	}
	wg.Wait()

	palette := []color.Color{
		color.Black,
		color.White,
		colorBackground,
		colorRowEven,
		colorRowOdd,
		colorText,
		colorTextBlur,
		colorTicket,
		colorPointer,
	}

	images := make([]*image.Paletted, len(rendered))
	delays := make([]int, len(rendered))
	for i, render := range rendered {
		bounds := render.Bounds()
		paletted := image.NewPaletted(bounds, palette)
		draw.Draw(paletted, bounds, render, bounds.Min, draw.Src)
		images[i] = paletted
		// Frame delays are whole centiseconds; spread the remainder so the
		// running total stays on the wall clock.
		delays[i] = (i+1)*100/req.FPS - i*100/req.FPS
	}
	delays[len(delays)-1] += int(req.Linger / (10 * time.Millisecond))

	return gif.EncodeAll(w, &gif.GIF{
		Image: images,
		Delay: delays,
	})
}

func drawReel(dc *gg.Context, v View, rowPx float64, blurred, landed bool) {
	W := float64(dc.Width())
	pad := rowPx * 0.35

	dc.SetColor(colorBackground)
	dc.Clear()

	for i, p := range v.Rows {
		y := (float64(i) - v.Frac) * rowPx
		if (v.Top+i)%2 == 0 {
			dc.SetColor(colorRowEven)
		} else {
			dc.SetColor(colorRowOdd)
		}
		dc.DrawRectangle(0, y, W, rowPx)
		dc.Fill()

		centered := landed && i == spin.CenterIndex
		if centered {
			dc.SetColor(colorPointer)
			dc.DrawRectangle(0, y, W, rowPx)
			dc.Fill()
		}

		switch {
		case centered:
			dc.SetColor(colorWinnerText)
		case blurred:
			dc.SetColor(colorTextBlur)
		default:
			dc.SetColor(colorText)
		}
		dc.DrawStringAnchored(p.DisplayName(), pad*2, y+rowPx/2, 0, 0.35)

		if !centered {
			dc.SetColor(colorTicket)
		}
		dc.DrawStringAnchored(p.TicketNumber, W-pad*2, y+rowPx/2, 1, 0.35)
	}

	// Pointer frame around the center row.
	top := float64(spin.CenterIndex) * rowPx
	dc.SetColor(colorPointer)
	dc.SetLineWidth(3)
	dc.DrawRectangle(1.5, top+1.5, W-3, rowPx-3)
	dc.Stroke()

	mid := top + rowPx/2
	dc.MoveTo(0, mid-pad/2)
	dc.LineTo(pad, mid)
	dc.LineTo(0, mid+pad/2)
	dc.ClosePath()
	dc.MoveTo(W, mid-pad/2)
	dc.LineTo(W-pad, mid)
	dc.LineTo(W, mid+pad/2)
	dc.ClosePath()
	dc.Fill()
}
