package app

import (
	"fmt"
	"strings"

	"necir/pkg/nec"
)

// showElements is the number of leading elements printed by Show.
const showElements = 8

// Show prints the encoded request without opening the gpio chip.
func (app *App) Show(req Request) error {
	e, err := app.Encode(req)
	if err != nil {
		return err
	}

	f, err := nec.Decode(e.Frame)
	if err != nil {
		return err
	}

	head := e.Frame
	if len(head) > showElements {
		head = head[:showElements]
	}

	w := app.out
	fmt.Fprintf(w, "name:     %s\n", e.name())
	fmt.Fprintf(w, "address:  0x%02X (inverse 0x%02X)\n", f.Address, f.AddressInv)
	fmt.Fprintf(w, "command:  0x%02X (inverse 0x%02X)\n", f.Command, f.CommandInv)
	fmt.Fprintf(w, "code:     %v\n", f)
	fmt.Fprintf(w, "elements: %d\n", len(e.Frame))
	fmt.Fprintf(w, "duration: %v\n", e.Frame.Duration())
	fmt.Fprintf(w, "pulses:   %v ...\n", head)
	fmt.Fprintf(w, "frames:   %d + %d repeat\n", e.Count, e.Repeat)
	return nil
}

// List prints the commands and aliases of a device.
func (app *App) List(device string) error {
	p, err := app.profiles.Get(device)
	if err != nil {
		return err
	}

	w := app.out
	fmt.Fprintf(w, "%s (address 0x%02X)\n", p.Name, p.Address)
	for _, n := range p.CommandNames() {
		line := fmt.Sprintf("  %-12s 0x%02X", n, p.Commands[n])
		if aliases := p.AliasesOf(n); len(aliases) > 0 {
			line += "  " + strings.Join(aliases, ", ")
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

// Devices returns the names of the known devices.
func (app *App) Devices() []string {
	return app.profiles.Names()
}
