package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const interactiveHelp = `commands:
  DEVICE COMMAND [REPEAT]   send a command, e.g. yamaha vol+ or osram red 2
  repeat [N]                send N repeat frames
  cycle DEVICE [SECONDS]    run through the cycle sequence of a device
  show DEVICE COMMAND       print the encoded command
  list [DEVICE]             list the devices or the commands of a device
  help                      this help
  quit                      exit`

// Interactive reads commands line by line from in and executes them one after another.
// It returns if in is exhausted, a quit command is read or ctx is cancelled.
// A failed command is reported and the next one is read.
func (app *App) Interactive(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	fmt.Fprintln(app.out, "type help for the commands, quit to exit")
	for {
		fmt.Fprint(app.out, "> ")

		select {
		case <-ctx.Done():
			fmt.Fprintln(app.out)
			return nil

		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return nil
				}
			}

			quit, err := app.execute(ctx, line)
			if quit || ctx.Err() != nil {
				return nil
			}
			if err != nil {
				fmt.Fprintf(app.out, "error: %v\n", err)
			}
		}
	}
}

// execute runs a single interactive command.
func (app *App) execute(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit", "q":
		return true, nil

	case "help":
		fmt.Fprintln(app.out, interactiveHelp)
		return false, nil

	case "list":
		if len(fields) == 1 {
			for _, d := range app.Devices() {
				fmt.Fprintln(app.out, d)
			}
			return false, nil
		}
		return false, app.List(fields[1])

	case "show":
		if len(fields) != 3 {
			return false, fmt.Errorf("%w: usage show DEVICE COMMAND", ErrInvalidRequest)
		}
		return false, app.Show(Request{Device: fields[1], Command: fields[2]})

	case "repeat":
		n := 1
		if len(fields) > 1 {
			if n, err = count(fields[1]); err != nil {
				return false, err
			}
		}
		return false, app.SendRepeat(ctx, n)

	case "cycle":
		if len(fields) < 2 {
			return false, fmt.Errorf("%w: usage cycle DEVICE [SECONDS]", ErrInvalidRequest)
		}
		req := CycleRequest{Device: fields[1], Duration: DefaultCycleDuration, Step: DefaultCycleStep}
		if len(fields) > 2 {
			s, err := count(fields[2])
			if err != nil {
				return false, err
			}
			req.Duration = time.Duration(s) * time.Second
		}
		return false, app.Cycle(ctx, req)
	}

	if len(fields) > 3 {
		return false, fmt.Errorf("%w: usage DEVICE COMMAND [REPEAT]", ErrInvalidRequest)
	}
	if len(fields) < 2 {
		return false, fmt.Errorf("%w: %q, type help for the commands", ErrInvalidRequest, line)
	}

	req := Request{Device: fields[0], Command: fields[1]}
	if len(fields) == 3 {
		if req.Repeat, err = count(fields[2]); err != nil {
			return false, err
		}
	}
	return false, app.Transmit(ctx, req)
}

func count(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is no number", ErrInvalidRequest, s)
	}
	return n, nil
}
