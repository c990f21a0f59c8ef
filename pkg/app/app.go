package app

import (
	"errors"
	"io"
	"net/url"
	"os"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"

	"necir/pkg/app/config"
	"necir/pkg/carrier"
	"necir/pkg/clock"
	"necir/pkg/mqtt"
	"necir/pkg/profile"
	"necir/pkg/raspberry"
)

// ErrInvalidRequest is returned if a request can't be encoded.
var ErrInvalidRequest = errors.New("invalid request")

// App is the main application struct.
// App is where the application is wired up.
type App struct {
	// web is the fiber web framework instance, it reports the captured frames
	web *fiber.App

	// config is the application configuration
	config *config.Config

	// urlParsed contains the parsed Config.Webserver.URL parameter
	urlParsed *url.URL

	// mqtt is the handler to the mqtt broker
	mqtt *mqtt.Handler

	// gpio is the handler to the gpio chip, it is opened by the first transmit or capture
	gpio raspberry.GPIO

	// profiles are the built-in and configured device profiles
	profiles profile.Set

	// modulator is the carrier of the transmitted marks
	modulator carrier.Modulator

	// clock is the time source of transmitter and capturer
	clock clock.Clock

	// out receives the output of show and list
	out io.Writer

	// last is the last captured frame and the capture statistics
	last struct {
		sync.RWMutex
		report *Report
		frames uint64
		errors uint64
	}
}

// New checks the configuration and initializes the main app structure.
// The gpio chip isn't opened before it is needed.
func New(cfg *config.Config) (*App, error) {
	u, err := url.Parse(cfg.Webserver.URL)
	if err != nil {
		debug.ErrorLog.Printf("Error parsing url %q: %s", cfg.Webserver.URL, err.Error())
		return nil, err
	}

	profiles, err := cfg.ProfileSet()
	if err != nil {
		debug.ErrorLog.Printf("can't load profiles: %v", err)
		return nil, err
	}

	m, err := carrier.New(cfg.Carrier.Frequency, cfg.Carrier.DutyCycle)
	if err != nil {
		debug.ErrorLog.Printf("invalid carrier: %v", err)
		return nil, err
	}

	return &App{
		config:    cfg,
		urlParsed: u,
		web:       fiber.New(fiber.Config{DisableStartupMessage: true}),
		mqtt:      mqtt.New(),
		profiles:  profiles,
		modulator: m,
		clock:     clock.New(),
		out:       os.Stdout,
	}, nil
}

// init opens the gpio chip.
func (app *App) init() (err error) {
	if app.gpio != nil {
		return nil
	}

	if app.gpio, err = raspberry.Open(app.config.Driver, app.config.Chip); err != nil {
		debug.ErrorLog.Printf("can't open gpio: %v", err)
		return err
	}

	debug.DebugLog.Printf("gpio driver %s opened", app.config.Driver)
	return nil
}

// Close releases the broker connection and the gpio chip.
func (app *App) Close() error {
	if app.mqtt != nil {
		_ = app.mqtt.Disconnect()
	}

	if app.gpio != nil {
		return app.gpio.Close()
	}
	return nil
}
