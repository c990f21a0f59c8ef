package app

import (
	"context"
	"fmt"

	"github.com/womat/debug"

	"necir/pkg/nec"
	"necir/pkg/pulse"
	"necir/pkg/transmitter"
)

// Request is a transmission.
// A command is either given by Device and Command name or by the numeric Address and Code.
type Request struct {
	Device  string
	Command string
	Address int
	Code    int
	// Resend is the number of additional full frames.
	Resend int
	// Repeat is the number of NEC repeat frames after the last full frame.
	Repeat int
}

// Encoded is a request resolved to the frame to transmit.
type Encoded struct {
	Device  string
	Command string
	Address int
	Code    int
	Frame   pulse.Train
	// Count is the number of full frames incl. double send and resend.
	Count int
	// Repeat is the number of trailing repeat frames.
	Repeat int
}

// Trains returns the trains in transmission order.
func (e Encoded) Trains() []pulse.Train {
	trains := make([]pulse.Train, 0, e.Count+e.Repeat)
	for i := 0; i < e.Count; i++ {
		trains = append(trains, e.Frame)
	}
	for i := 0; i < e.Repeat; i++ {
		trains = append(trains, nec.Repeat())
	}
	return trains
}

// Encode resolves and encodes the request.
func (app *App) Encode(req Request) (Encoded, error) {
	if req.Resend < 0 || req.Repeat < 0 {
		return Encoded{}, fmt.Errorf("%w: resend %d, repeat %d", ErrInvalidRequest, req.Resend, req.Repeat)
	}

	e := Encoded{Count: 1 + req.Resend, Repeat: req.Repeat}
	enc := nec.Encoder{}

	switch {
	case req.Device != "":
		p, err := app.profiles.Get(req.Device)
		if err != nil {
			return Encoded{}, err
		}
		cmd, err := p.Resolve(req.Command)
		if err != nil {
			return Encoded{}, err
		}

		e.Device, e.Command = p.Name, cmd.Name
		e.Address, e.Code = cmd.Address, cmd.Code
		if cmd.Double {
			e.Count++
		}
		enc = p.Encoder()
	case req.Command != "":
		return Encoded{}, fmt.Errorf("%w: command %q without device", ErrInvalidRequest, req.Command)
	default:
		e.Address, e.Code = req.Address, req.Code
	}

	var err error
	if e.Frame, err = enc.Encode(e.Address, e.Code); err != nil {
		return Encoded{}, err
	}
	return e, nil
}

// Transmit encodes the request and sends it on the output pin.
func (app *App) Transmit(ctx context.Context, req Request) error {
	e, err := app.Encode(req)
	if err != nil {
		debug.ErrorLog.Printf("can't encode request: %v", err)
		return err
	}

	debug.InfoLog.Printf("sending %s (address 0x%02X, command 0x%02X) %d time(s), %d repeat frame(s)",
		e.name(), e.Address, e.Code, e.Count, e.Repeat)
	return app.send(ctx, e.Trains()...)
}

// SendRepeat sends n NEC repeat frames.
func (app *App) SendRepeat(ctx context.Context, n int) error {
	if n < 1 {
		return fmt.Errorf("%w: repeat %d", ErrInvalidRequest, n)
	}

	debug.InfoLog.Printf("sending %d repeat frame(s)", n)
	return app.send(ctx, Encoded{Repeat: n}.Trains()...)
}

// send claims the output pin for the duration of the transmission.
func (app *App) send(ctx context.Context, trains ...pulse.Train) (err error) {
	if err = app.init(); err != nil {
		return err
	}

	line, err := app.gpio.Output(app.config.TxPin)
	if err != nil {
		debug.ErrorLog.Printf("can't claim output pin %d: %v", app.config.TxPin, err)
		return err
	}
	defer func() {
		if e := line.Close(); e != nil {
			debug.ErrorLog.Printf("can't release pin %d: %v", app.config.TxPin, e)
		}
	}()

	tx := transmitter.New(line, app.modulator,
		transmitter.WithClock(app.clock),
		transmitter.WithPriority(app.config.Priority))

	if err = tx.SendAll(ctx, app.config.Gap, trains...); err != nil {
		debug.ErrorLog.Printf("transmission on pin %d failed: %v", app.config.TxPin, err)
		return err
	}
	return nil
}

func (e Encoded) name() string {
	if e.Device == "" {
		return "raw code"
	}
	return e.Device + " " + e.Command
}
