package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"

	"github.com/urfave/cli/v2"
	"github.com/womat/debug"

	"necir/pkg/app"
	"necir/pkg/app/config"
)

const defaultConfigFile = "/opt/womat/config/" + app.MODULE + ".yaml"

func main() {
	exitCode := 1
	defer func() {
		os.Exit(exitCode)
	}()

	// cfg holds the application configuration
	cfg := config.NewConfig()

	codeFlags := []cli.Flag{
		&cli.StringFlag{Name: "device", Aliases: []string{"d"}, Usage: "`DEVICE` profile, e.g. yamaha or osram"},
		&cli.StringFlag{Name: "command", Aliases: []string{"x"}, Usage: "`COMMAND` name or alias of the device"},
		&cli.StringFlag{Name: "address", Aliases: []string{"a"}, Usage: "numeric `ADDRESS` 0-255 (e.g. 0x78) if no device is given"},
		&cli.StringFlag{Name: "code", Aliases: []string{"k"}, Usage: "numeric command `CODE` 0-255 (e.g. 0x1E) if no device is given"},
		&cli.IntFlag{Name: "resend", Usage: "send the full frame `N` additional times"},
		&cli.IntFlag{Name: "repeat", Aliases: []string{"r"}, Usage: "append `N` NEC repeat frames"},
	}
	pinFlag := &cli.IntFlag{Name: "pin", Aliases: []string{"p"}, Usage: "BCM gpio `PIN`, overrides the config file"}

	cliApp := &cli.App{
		Name:    app.MODULE,
		Usage:   "NEC infrared remote control transmitter and decoder",
		Version: app.VERSION,
		Description: "Send NEC infrared commands on a gpio pin and decode the signals of a remote control." +
			"\n The carrier (38kHz, duty cycle 1/3) is modulated in software, an IR LED driver is connected to the output pin" +
			"\n and an IR receiver (e.g. TSOP38238) to the input pin.",
		UsageText: "necir [--config <file>] [--log standard|debug|trace] <command> [options]" +
			"\n\nEXAMPLE:" +
			"\n\tswitch the yamaha receiver on (POWER is sent twice)" +
			"\n\t\tnecir transmit yamaha power" +
			"\n\tsend a raw code and hold it with 3 repeat frames" +
			"\n\t\tnecir transmit --address 0x00 --code 0x07 --repeat 3" +
			"\n\tcycle the colors of an osram bulb for a minute" +
			"\n\t\tnecir cycle --start on --duration 1m osram" +
			"\n\tdecode a remote control" +
			"\n\t\tnecir capture --pin 11",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Destination: &cfg.Flag.ConfigFile, Value: defaultConfigFile, Usage: "load configuration from `FILE`"},
			&cli.StringFlag{Name: "log", Aliases: []string{"l"}, Destination: &cfg.Flag.Debug, Usage: "`LEVEL` defines the log level (error|standard|debug|trace)"},
			&cli.StringFlag{Name: "driver", Usage: "gpio `DRIVER` (gpiod|gpiomem|emu), overrides the config file"},
		},
		Commands: []*cli.Command{
			{
				Name:      "transmit",
				Aliases:   []string{"send"},
				Usage:     "send a command",
				ArgsUsage: "[DEVICE COMMAND]",
				Flags:     append([]cli.Flag{pinFlag}, codeFlags...),
				Action: func(c *cli.Context) error {
					req, err := request(c)
					if err != nil {
						return err
					}
					return run(c, cfg, func(ctx context.Context, a *app.App) error {
						return a.Transmit(ctx, req)
					})
				},
			},
			{
				Name:  "repeat",
				Usage: "send NEC repeat frames, the receiver repeats the last command",
				Flags: []cli.Flag{
					pinFlag,
					&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 1, Usage: "send `N` repeat frames"},
				},
				Action: func(c *cli.Context) error {
					return run(c, cfg, func(ctx context.Context, a *app.App) error {
						return a.SendRepeat(ctx, c.Int("count"))
					})
				},
			},
			{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "read commands from stdin and send them one after another, type help for the commands",
				Flags:   []cli.Flag{pinFlag},
				Action: func(c *cli.Context) error {
					return run(c, cfg, func(ctx context.Context, a *app.App) error {
						return a.Interactive(ctx, os.Stdin)
					})
				},
			},
			{
				Name:      "cycle",
				Usage:     "run through the cycle sequence of a device, e.g. the colors of an osram bulb",
				ArgsUsage: "DEVICE",
				Flags: []cli.Flag{
					pinFlag,
					&cli.StringFlag{Name: "start", Usage: "send `COMMAND` once before the cycle, e.g. on"},
					&cli.DurationFlag{Name: "duration", Value: app.DefaultCycleDuration, Usage: "cycle for `DURATION`"},
					&cli.DurationFlag{Name: "step", Value: app.DefaultCycleStep, Usage: "pause `DURATION` after every command"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("%w: expected DEVICE, got %d arguments", app.ErrInvalidRequest, c.NArg())
					}
					req := app.CycleRequest{
						Device:   c.Args().First(),
						Start:    c.String("start"),
						Duration: c.Duration("duration"),
						Step:     c.Duration("step"),
					}
					return run(c, cfg, func(ctx context.Context, a *app.App) error {
						return a.Cycle(ctx, req)
					})
				},
			},
			{
				Name:  "capture",
				Usage: "decode the signals of the input pin until the program is interrupted",
				Flags: []cli.Flag{pinFlag},
				Action: func(c *cli.Context) error {
					return run(c, cfg, func(ctx context.Context, a *app.App) error {
						return a.Capture(ctx)
					})
				},
			},
			{
				Name:      "show",
				Usage:     "print the encoded pulses of a command without sending it",
				ArgsUsage: "[DEVICE COMMAND]",
				Flags:     codeFlags,
				Action: func(c *cli.Context) error {
					req, err := request(c)
					if err != nil {
						return err
					}
					return run(c, cfg, func(_ context.Context, a *app.App) error {
						return a.Show(req)
					})
				},
			},
			{
				Name:      "list",
				Usage:     "list the devices or the commands of a device",
				ArgsUsage: "[DEVICE]",
				Action: func(c *cli.Context) error {
					return run(c, cfg, func(_ context.Context, a *app.App) error {
						if c.NArg() == 0 {
							for _, d := range a.Devices() {
								fmt.Println(d)
							}
							return nil
						}
						return a.List(c.Args().First())
					})
				},
			},
		},
	}

	sort.Sort(cli.FlagsByName(cliApp.Flags))
	sort.Sort(cli.CommandsByName(cliApp.Commands))

	err := cliApp.Run(os.Args)
	if err != nil {
		debug.FatalLog.Print(err)
		exitCode = 1
		return
	}

	exitCode = 0
}

// run loads the configuration, applies the command line overrides and calls fn.
// SIGINT and SIGTERM cancel the context of fn.
func run(c *cli.Context, cfg *config.Config, fn func(context.Context, *app.App) error) error {
	cfg.Flag.ConfigRequired = c.IsSet("config")
	if err := cfg.LoadConfig(); err != nil {
		return err
	}

	debug.SetDebug(cfg.Debug.File, cfg.Debug.Flag)
	defer func() {
		_ = cfg.Debug.File.Close()
	}()

	if c.IsSet("driver") {
		cfg.Driver = c.String("driver")
	}
	if c.IsSet("pin") {
		cfg.TxPin = c.Int("pin")
		cfg.RxPin = c.Int("pin")
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		debug.DebugLog.Printf("closing app %s", app.Version())
		_ = a.Close()
	}()

	// capture exit signals to ensure the output pin is low and released on exit.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	debug.DebugLog.Printf("starting app %s", app.Version())
	return fn(ctx, a)
}

// request reads the command of transmit and show from the arguments and flags.
func request(c *cli.Context) (app.Request, error) {
	req := app.Request{
		Device:  c.String("device"),
		Command: c.String("command"),
		Resend:  c.Int("resend"),
		Repeat:  c.Int("repeat"),
	}

	switch c.NArg() {
	case 0:
	case 2:
		req.Device, req.Command = c.Args().Get(0), c.Args().Get(1)
	default:
		return req, fmt.Errorf("%w: expected DEVICE COMMAND, got %d arguments", app.ErrInvalidRequest, c.NArg())
	}

	if req.Device != "" {
		return req, nil
	}

	var err error
	if req.Address, err = number(c, "address"); err != nil {
		return req, err
	}
	if req.Code, err = number(c, "code"); err != nil {
		return req, err
	}
	return req, nil
}

// number parses a decimal or 0x prefixed flag value. A missing flag is an error.
func number(c *cli.Context, name string) (int, error) {
	if !c.IsSet(name) {
		return 0, fmt.Errorf("%w: --device or --%s is required", app.ErrInvalidRequest, name)
	}

	n, err := strconv.ParseInt(c.String(name), 0, 0)
	if err != nil {
		return 0, fmt.Errorf("%w: --%s %q: %v", app.ErrInvalidRequest, name, c.String(name), err)
	}
	return int(n), nil
}
