package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/womat/debug"
	"gopkg.in/yaml.v2"

	"necir/pkg/port"
	"necir/pkg/profile"
	"necir/pkg/raspberry"
)

// ErrInvalidConfig is returned if a value of the config file is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Config defines the struct of global config and the struct of the configuration file
type Config struct {
	Driver   string        `yaml:"driver"`
	Chip     string        `yaml:"chip"`
	TxPin    int           `yaml:"txpin"`
	RxPin    int           `yaml:"rxpin"`
	Bias     port.Bias     `yaml:"bias"`
	Priority bool          `yaml:"priority"`
	Carrier  CarrierConfig `yaml:"carrier"`
	Capture  CaptureConfig `yaml:"capture"`
	// GapInt is the pause in ms between two frames of a transmission (resend, double send, repeat codes)
	GapInt    int                         `yaml:"gap"`
	Gap       time.Duration               `yaml:"-"`
	Profiles  map[string]*profile.Profile `yaml:"profiles"`
	Flag      FlagConfig                  `yaml:"-"`
	Debug     DebugConfig                 `yaml:"debug"`
	Webserver WebserverConfig             `yaml:"webserver"`
	MQTT      MQTTConfig                  `yaml:"mqtt"`
}

// CarrierConfig defines the modulation of marks.
type CarrierConfig struct {
	Frequency int     `yaml:"frequency"`
	DutyCycle float64 `yaml:"dutycycle"`
}

// CaptureConfig defines the sampling of the input line.
type CaptureConfig struct {
	// PollIntervalInt is the sampling interval in µs while the line is idle
	PollIntervalInt int           `yaml:"pollinterval"`
	PollInterval    time.Duration `yaml:"-"`
	// IdleTimeoutInt is the time in ms without level change which ends a capture session
	IdleTimeoutInt int           `yaml:"idletimeout"`
	IdleTimeout    time.Duration `yaml:"-"`
}

// FlagConfig defines the configured flags (parameters)
type FlagConfig struct {
	Debug      string
	ConfigFile string
	// ConfigRequired is set if the config file was given on the command line and must exist.
	ConfigRequired bool
}

// WebserverConfig defines the struct of the webserver and webservice configuration and configuration file
type WebserverConfig struct {
	// URL of the status web server during capture, an empty URL disables it
	URL         string          `yaml:"url"`
	Webservices map[string]bool `yaml:"webservices"`
}

// MQTTConfig defines the struct of the mqtt client configuration and configuration file
type MQTTConfig struct {
	// Connection is the broker, e.g. tcp://127.0.0.1:1883, an empty connection disables mqtt
	Connection string `yaml:"connection"`
	Topic      string `yaml:"topic"`
}

// DebugConfig defines the struct of the debug configuration and configuration file
type DebugConfig struct {
	File       io.WriteCloser `yaml:"-"`
	Flag       int            `yaml:"-"`
	FlagString string         `yaml:"flag"`
	FileString string         `yaml:"file"`
}

func NewConfig() *Config {
	return &Config{
		Driver:   raspberry.DriverGpiod,
		Chip:     raspberry.DefaultChip,
		TxPin:    18,
		RxPin:    11,
		Bias:     port.PullUp,
		Priority: true,
		Carrier: CarrierConfig{
			Frequency: 38000,
			DutyCycle: 0.33,
		},
		Capture: CaptureConfig{
			PollIntervalInt: 10,
			IdleTimeoutInt:  100,
		},
		GapInt: 108,
		Flag:   FlagConfig{},
		Debug: DebugConfig{
			FileString: "stderr",
			FlagString: "standard",
		},
		Webserver: WebserverConfig{
			URL: "",
			Webservices: map[string]bool{
				"version": true,
				"health":  true,
				"frame":   true,
			},
		},
		MQTT: MQTTConfig{
			Connection: "",
			Topic:      "necir/frame",
		},
	}
}

// LoadConfig reads the config file and converts the raw values.
// A missing config file is ignored unless it was requested explicitly.
func (c *Config) LoadConfig() error {
	if err := c.readConfigFile(); err != nil {
		if !errors.Is(err, os.ErrNotExist) || c.Flag.ConfigRequired {
			return fmt.Errorf("error reading config file %q: %w", c.Flag.ConfigFile, err)
		}
	}

	if c.Flag.Debug != "" {
		c.Debug.FlagString = c.Flag.Debug
	}
	if err := c.setDebugConfig(); err != nil {
		return fmt.Errorf("invalid debug config %q: %w", c.Debug.FileString, err)
	}

	c.Gap = time.Duration(c.GapInt) * time.Millisecond
	c.Capture.PollInterval = time.Duration(c.Capture.PollIntervalInt) * time.Microsecond
	c.Capture.IdleTimeout = time.Duration(c.Capture.IdleTimeoutInt) * time.Millisecond

	if c.Gap < 0 || c.Capture.PollInterval < 0 || c.Capture.IdleTimeout <= 0 {
		return fmt.Errorf("%w: gap %v, pollinterval %v, idletimeout %v",
			ErrInvalidConfig, c.Gap, c.Capture.PollInterval, c.Capture.IdleTimeout)
	}

	return nil
}

// ProfileSet returns the built-in profiles merged with the profiles of the config file.
func (c *Config) ProfileSet() (profile.Set, error) {
	s := profile.Builtin()
	for name, p := range c.Profiles {
		if p == nil {
			return nil, fmt.Errorf("%w: %s is empty", profile.ErrInvalidProfile, name)
		}
		p.Name = name
		if err := s.Add(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (c *Config) readConfigFile() error {
	file, err := os.Open(c.Flag.ConfigFile)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	decoder := yaml.NewDecoder(file)
	if err = decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

func (c *Config) setDebugConfig() (err error) {
	switch c.Debug.FlagString {
	case "trace", "full":
		c.Debug.Flag = debug.Full
	case "debug":
		c.Debug.Flag = debug.Warning | debug.Info | debug.Error | debug.Fatal | debug.Debug
	case "standard", "info":
		c.Debug.Flag = debug.Standard
	case "error":
		c.Debug.Flag = debug.Error | debug.Fatal
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Debug.FlagString)
	}

	switch c.Debug.FileString {
	case "stderr":
		c.Debug.File = nopCloser{os.Stderr}
	case "stdout":
		c.Debug.File = nopCloser{os.Stdout}
	default:
		if c.Debug.File, err = os.OpenFile(c.Debug.FileString, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666); err != nil {
			return
		}
	}

	return
}

// nopCloser keeps stderr and stdout open when the debug file is closed.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
