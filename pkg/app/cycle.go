package app

import (
	"context"
	"fmt"
	"time"

	"github.com/womat/debug"
)

const (
	DefaultCycleDuration = 30 * time.Second
	DefaultCycleStep     = 2 * time.Second

	// pauseSlice bounds the reaction time on a cancelled context while pausing.
	pauseSlice = 100 * time.Millisecond
)

// CycleRequest runs through the cycle sequence of a device profile.
type CycleRequest struct {
	Device string
	// Start is an optional command sent once before the cycle, e.g. ON.
	Start string
	// Duration is the time in which new commands are started.
	Duration time.Duration
	// Step is the pause after every command.
	Step time.Duration
}

// Cycle sends the cycle sequence of the device in a loop until the duration is over.
// Every command claims the output pin on its own.
func (app *App) Cycle(ctx context.Context, req CycleRequest) error {
	p, err := app.profiles.Get(req.Device)
	if err != nil {
		return err
	}
	if len(p.Cycle) == 0 {
		return fmt.Errorf("%w: device %s has no cycle", ErrInvalidRequest, p.Name)
	}
	if req.Duration <= 0 || req.Step < 0 {
		return fmt.Errorf("%w: cycle duration %v, step %v", ErrInvalidRequest, req.Duration, req.Step)
	}

	if req.Start != "" {
		if err = app.cycleSend(ctx, p.Name, req.Start); err != nil {
			return err
		}
		if err = app.pause(ctx, req.Step); err != nil {
			return err
		}
	}

	debug.InfoLog.Printf("cycling %s for %v", p.Name, req.Duration)
	start := app.clock.Now()
	for i := 0; app.clock.Now()-start < req.Duration; i++ {
		if err = app.cycleSend(ctx, p.Name, p.Cycle[i%len(p.Cycle)]); err != nil {
			return err
		}
		if err = app.pause(ctx, req.Step); err != nil {
			return err
		}
	}
	return nil
}

func (app *App) cycleSend(ctx context.Context, device, command string) error {
	fmt.Fprintf(app.out, "%s %s\n", device, command)
	return app.Transmit(ctx, Request{Device: device, Command: command})
}

// pause sleeps for d on the app clock or until ctx is cancelled.
func (app *App) pause(ctx context.Context, d time.Duration) error {
	for d > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		s := d
		if s > pauseSlice {
			s = pauseSlice
		}
		app.clock.Sleep(s)
		d -= s
	}
	return ctx.Err()
}
