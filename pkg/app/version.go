package app

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// VERSION is <major>.<year since 2020>.<month>+<first day of the month>,
// e.g. 1.6.10+20261001 is the october 2026 release of major version 1.
// It uses the syntax of https://semver.org/ without its semantics.
const (
	VERSION = "1.6.10+20261001"
	MODULE  = "necir"
)

// HandleVersion returns the version and the carrier of the transmitter.
func (app *App) HandleVersion() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request version")

		return ctx.JSON(fiber.Map{
			"version":     VERSION,
			"description": MODULE,
			"about":       Version(),
			"protocol":    "NEC",
			"carrier":     app.modulator.Frequency(),
		})
	}
}

// Version returns module name and version without build date, e.g. necir V1.6.10.
func Version() string {
	return strings.TrimSpace(MODULE + " V" + strings.Split(VERSION, "+")[0])
}
