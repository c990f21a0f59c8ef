// Package profile holds the command tables of NEC devices.
package profile

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"necir/pkg/nec"
)

var (
	ErrUnknownDevice  = errors.New("unknown device")
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidProfile = errors.New("invalid profile")
)

// Profile is the command table of a device.
type Profile struct {
	// Name is the device name, e.g. yamaha.
	Name string `yaml:"-"`
	// Address is the NEC address (custom code) of the device.
	Address int `yaml:"address"`
	// MinLength pads encoded frames to this element count (0 = no padding).
	MinLength int `yaml:"minlength"`
	// Commands maps command names to NEC command codes.
	Commands map[string]int `yaml:"commands"`
	// Aliases maps alternative names to command names.
	Aliases map[string]string `yaml:"aliases"`
	// DoubleSend lists the commands which are sent twice, e.g. POWER of yamaha receivers.
	DoubleSend []string `yaml:"doublesend"`
	// Cycle is the command sequence of a cycle, e.g. the colors of a bulb.
	Cycle []string `yaml:"cycle"`
}

// Command is a resolved command of a profile.
type Command struct {
	Name    string
	Address int
	Code    int
	// Double is set if the device expects the frame twice.
	Double bool
}

// Set is a collection of profiles by name.
type Set map[string]*Profile

// Get returns the profile of device (case insensitive).
func (s Set) Get(device string) (*Profile, error) {
	p, ok := s[strings.ToLower(device)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDevice, device)
	}
	return p, nil
}

// Add validates p and adds it to the set under its (lower case) name.
// An existing profile with the same name is replaced.
func (s Set) Add(p *Profile) error {
	p.normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	s[p.Name] = p
	return nil
}

// Names returns the sorted profile names.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the device and command name of a received address and command code.
// Profiles are searched in name order, the first match wins.
func (s Set) Lookup(address, code int) (device, command string, ok bool) {
	for _, n := range s.Names() {
		p := s[n]
		if p.Address != address {
			continue
		}
		for _, c := range p.CommandNames() {
			if p.Commands[c] == code {
				return n, c, true
			}
		}
	}
	return "", "", false
}

// Resolve returns the command of name (case insensitive). Aliases are resolved first.
func (p *Profile) Resolve(name string) (Command, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if target, ok := p.Aliases[n]; ok {
		n = target
	}

	code, ok := p.Commands[n]
	if !ok {
		return Command{}, fmt.Errorf("%w: %q for device %s", ErrUnknownCommand, name, p.Name)
	}

	cmd := Command{Name: n, Address: p.Address, Code: code}
	for _, d := range p.DoubleSend {
		if d == n {
			cmd.Double = true
		}
	}
	return cmd, nil
}

// Encoder returns the NEC encoder of the device.
func (p *Profile) Encoder() nec.Encoder {
	return nec.Encoder{MinLength: p.MinLength}
}

// CommandNames returns the sorted command names.
func (p *Profile) CommandNames() []string {
	names := make([]string, 0, len(p.Commands))
	for n := range p.Commands {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AliasesOf returns the sorted aliases of command name.
func (p *Profile) AliasesOf(name string) []string {
	var aliases []string
	for a, n := range p.Aliases {
		if n == name {
			aliases = append(aliases, a)
		}
	}
	sort.Strings(aliases)
	return aliases
}

// Validate checks the address and the codes. Every alias, double send
// and cycle entry must refer to an existing command.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidProfile)
	}
	if p.Address < 0 || p.Address > 0xff {
		return fmt.Errorf("%w: %s address %d", ErrInvalidProfile, p.Name, p.Address)
	}
	if p.MinLength < 0 {
		return fmt.Errorf("%w: %s minlength %d", ErrInvalidProfile, p.Name, p.MinLength)
	}
	if len(p.Commands) == 0 {
		return fmt.Errorf("%w: %s has no commands", ErrInvalidProfile, p.Name)
	}
	for n, code := range p.Commands {
		if code < 0 || code > 0xff {
			return fmt.Errorf("%w: %s command %s code %d", ErrInvalidProfile, p.Name, n, code)
		}
	}
	for a, n := range p.Aliases {
		if _, ok := p.Commands[n]; !ok {
			return fmt.Errorf("%w: %s alias %s refers to unknown command %s", ErrInvalidProfile, p.Name, a, n)
		}
	}
	for _, n := range p.DoubleSend {
		if _, ok := p.Commands[n]; !ok {
			return fmt.Errorf("%w: %s double send of unknown command %s", ErrInvalidProfile, p.Name, n)
		}
	}
	for _, n := range p.Cycle {
		if _, err := p.Resolve(n); err != nil {
			return fmt.Errorf("%w: %s cycle: %v", ErrInvalidProfile, p.Name, err)
		}
	}
	return nil
}

// normalize converts the name to lower case and all command names to upper case.
func (p *Profile) normalize() {
	p.Name = strings.ToLower(p.Name)

	commands := make(map[string]int, len(p.Commands))
	for n, code := range p.Commands {
		commands[strings.ToUpper(n)] = code
	}
	p.Commands = commands

	aliases := make(map[string]string, len(p.Aliases))
	for a, n := range p.Aliases {
		aliases[strings.ToUpper(a)] = strings.ToUpper(n)
	}
	p.Aliases = aliases

	for i, n := range p.DoubleSend {
		p.DoubleSend[i] = strings.ToUpper(n)
	}
	for i, n := range p.Cycle {
		p.Cycle[i] = strings.ToUpper(n)
	}
}
