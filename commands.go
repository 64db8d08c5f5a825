package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"raffle-spinner.klederson.com/internal/config"
	"raffle-spinner.klederson.com/internal/participant"
	"raffle-spinner.klederson.com/internal/reel"
	"raffle-spinner.klederson.com/internal/spin"
)

func newRenderCmd() *cobra.Command {
	var (
		out    string
		fps    int
		width  int
		seed   int64
		linger time.Duration
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Record one draw as an animated GIF",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := loadPreferences()
			if err != nil {
				return err
			}
			log := consoleLogger(cmd.ErrOrStderr(), prefs)

			people, source, err := loadParticipants()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}
			ticket := flagTicket
			if ticket == "" && len(people) > 0 {
				ticket = people[rand.New(rand.NewSource(seed)).Intn(len(people))].TicketNumber
			}

			start := time.Now()
			res, size, err := writeGIF(out, reel.GIFRequest{
				Participants: people,
				TargetTicket: ticket,
				Settings:     prefs.Spinner,
				Width:        width,
				FPS:          fps,
				Linger:       linger,
				Seed:         seed,
				Logger:       &log,
			})
			if err != nil {
				return err
			}

			log.Info().
				Str("file", out).
				Str("size", humanize.Bytes(size)).
				Int("frames", res.Frames).
				Str("source", source).
				Str("winner", res.Result.Winner.DisplayName()).
				Str("ticket", res.Result.Winner.TicketNumber).
				Dur("took", time.Since(start)).
				Msg("gif written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "spin.gif", "Output GIF file")
	cmd.Flags().IntVar(&fps, "fps", config.GIFFPS, "Frames per second")
	cmd.Flags().IntVar(&width, "width", config.GIFWidth, "Image width in pixels")
	cmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed (random when unset)")
	cmd.Flags().DurationVar(&linger, "linger", config.GIFLingerSecs*time.Second, "How long the result stays on screen")
	return cmd
}

// writeGIF renders req into path. The request is checked before the file is
// created, and a failed render leaves no file behind.
func writeGIF(path string, req reel.GIFRequest) (reel.GIFResult, uint64, error) {
	if len(req.Participants) == 0 {
		return reel.GIFResult{}, 0, spin.ErrNoParticipants
	}
	if participant.IndexOf(req.Participants, req.TargetTicket) < 0 {
		return reel.GIFResult{}, 0, fmt.Errorf("%w: %q", spin.ErrTicketNotFound, req.TargetTicket)
	}

	f, err := os.Create(path)
	if err != nil {
		return reel.GIFResult{}, 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	res, err := func() (reel.GIFResult, error) {
		w := bufio.NewWriter(f)
		res, err := reel.RenderGIF(w, req)
		if err != nil {
			return res, err
		}
		if err := w.Flush(); err != nil {
			return res, fmt.Errorf("failed to write %s: %w", path, err)
		}
		return res, nil
	}()
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to write %s: %w", path, cerr)
	}
	if err != nil {
		os.Remove(path)
		return reel.GIFResult{}, 0, err
	}

	size := uint64(0)
	if info, statErr := os.Stat(path); statErr == nil {
		size = uint64(info.Size())
	}
	return res, size, nil
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent winners",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := loadPreferences()
			if err != nil {
				return err
			}
			store, err := openHistory(cmd.Context(), prefs)
			if err != nil {
				return err
			}
			defer store.Close()

			draws, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			total, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(draws) == 0 {
				fmt.Fprintln(out, "No draws recorded yet.")
				return nil
			}
			fmt.Fprintf(out, "%-12s  %-28s  %10s  %s\n", "TICKET", "WINNER", "ENTRIES", "DRAWN")
			for _, d := range draws {
				name := d.Name()
				if name == "" {
					name = "[no name]"
				}
				fmt.Fprintf(out, "%-12s  %-28s  %10s  %s\n",
					d.TicketNumber, name, humanize.Comma(int64(d.Participants)), humanize.Time(d.DrawnAt))
			}
			fmt.Fprintf(out, "\n%s of %s draws\n", humanize.Comma(int64(len(draws))), humanize.Comma(int64(total)))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "How many draws to show")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		count int
		start int
		out   string
		seed  int64
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a CSV of sample participants",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive, got %d", count)
			}
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}
			people := participant.Generate(count, start, rand.New(rand.NewSource(seed)))

			w := cmd.OutOrStdout()
			if out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			bw := bufio.NewWriter(w)
			if err := participant.WriteCSV(bw, people); err != nil {
				return err
			}
			return bw.Flush()
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", config.DemoParticipants, "Number of participants")
	cmd.Flags().IntVar(&start, "start", config.DemoStartTicket, "First ticket number")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file, - for stdout")
	cmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed (random when unset)")
	return cmd
}
