package app

import (
	"context"
	"net"
	"time"

	"github.com/womat/debug"

	"necir/pkg/capture"
	"necir/pkg/nec"
	"necir/pkg/pulse"
)

// Report is a captured frame as published to mqtt and the web service.
type Report struct {
	Time    time.Time `json:"time"`
	Repeat  bool      `json:"repeat"`
	Address uint8     `json:"address"`
	Command uint8     `json:"command"`
	Code    string    `json:"code"`
	// Device and Name are set if a profile knows the command.
	Device string  `json:"device,omitempty"`
	Name   string  `json:"name,omitempty"`
	Pulses []int64 `json:"pulses"`
}

// Capture decodes the signals of the input pin until ctx is cancelled.
// The web server and the mqtt publisher run while capturing, if they are configured.
func (app *App) Capture(ctx context.Context) (err error) {
	if err = app.init(); err != nil {
		return err
	}

	line, err := app.gpio.Input(app.config.RxPin, app.config.Bias)
	if err != nil {
		debug.ErrorLog.Printf("can't claim input pin %d: %v", app.config.RxPin, err)
		return err
	}
	defer func() {
		if e := line.Close(); e != nil {
			debug.ErrorLog.Printf("can't release pin %d: %v", app.config.RxPin, e)
		}
	}()

	if app.config.Webserver.URL != "" {
		var ln net.Listener
		if ln, err = net.Listen("tcp", app.urlParsed.Host); err != nil {
			debug.ErrorLog.Printf("can't listen on %s: %v", app.urlParsed.Host, err)
			return err
		}

		app.initDefaultRoutes()
		go app.runWebServer(ln)
		defer func() {
			if e := app.web.Shutdown(); e != nil {
				debug.ErrorLog.Printf("can't shutdown web server: %v", e)
			}
			// the server may not have taken over the listener yet
			_ = ln.Close()
		}()
	}

	if err = app.mqtt.Connect(app.config.MQTT.Connection); err != nil {
		debug.ErrorLog.Printf("can't open mqtt broker %v", err)
		return err
	}
	go app.mqtt.Service(ctx)

	cp := capture.New(line,
		capture.WithClock(app.clock),
		capture.WithPollInterval(app.config.Capture.PollInterval),
		capture.WithIdleTimeout(app.config.Capture.IdleTimeout))

	debug.InfoLog.Printf("capturing on pin %d", app.config.RxPin)
	if err = cp.Run(ctx, app.handleTrain); err != nil {
		debug.ErrorLog.Printf("capture on pin %d failed: %v", app.config.RxPin, err)
		return err
	}

	debug.InfoLog.Printf("capture on pin %d stopped", app.config.RxPin)
	return nil
}

// handleTrain classifies a captured train, stores and publishes it.
// A decode error only drops the train, as does a repeat frame before the first full frame.
func (app *App) handleTrain(t pulse.Train) {
	if len(t) == 0 {
		debug.TraceLog.Print("glitch without edges ignored")
		return
	}

	msg, err := nec.Classify(t)
	if err != nil {
		debug.ErrorLog.Printf("can't decode %d elements: %v", len(t), err)
		debug.DebugLog.Printf("pulses %v", t)

		app.last.Lock()
		app.last.errors++
		app.last.Unlock()
		return
	}

	if msg.Repeat && app.Last() == nil {
		debug.DebugLog.Print("repeat frame without preceding frame ignored")
		return
	}

	r := app.report(msg, t)
	if r.Repeat {
		debug.InfoLog.Printf("repeat %s", r.Code)
	} else {
		debug.InfoLog.Printf("frame %s address 0x%02X command 0x%02X %s %s", r.Code, r.Address, r.Command, r.Device, r.Name)
	}

	app.last.Lock()
	app.last.report = r
	app.last.frames++
	app.last.Unlock()

	if err = app.mqtt.Publish(app.config.MQTT.Topic, r); err != nil {
		debug.ErrorLog.Printf("can't publish frame: %v", err)
	}
}

// report builds the report of msg. A repeat frame repeats the command of the last frame.
func (app *App) report(msg nec.Message, t pulse.Train) *Report {
	r := &Report{
		Time:   time.Now(),
		Repeat: msg.Repeat,
		Pulses: t.Micros(),
	}

	if msg.Repeat {
		last := app.Last()
		r.Address, r.Command, r.Code = last.Address, last.Command, last.Code
		r.Device, r.Name = last.Device, last.Name
		return r
	}

	r.Address, r.Command = msg.Frame.Address, msg.Frame.Command
	r.Code = msg.Frame.String()
	r.Device, r.Name, _ = app.profiles.Lookup(int(r.Address), int(r.Command))
	return r
}

// Last returns the last captured frame or nil.
func (app *App) Last() *Report {
	app.last.RLock()
	defer app.last.RUnlock()
	return app.last.report
}
