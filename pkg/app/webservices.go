package app

import (
	"errors"
	"net"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// runWebServer serves the status web requests on ln.
//  It's designed to run in a separate go function during capture.
//  See app.Capture()
func (app *App) runWebServer(ln net.Listener) {
	if err := app.web.Listener(ln); err != nil && !errors.Is(err, net.ErrClosed) {
		debug.ErrorLog.Print(err)
	}
}

// HandleFrame returns the last captured frame.
func (app *App) HandleFrame() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request frame")

		r := app.Last()
		if r == nil {
			ctx.Status(http.StatusNotFound)
			return ctx.JSON(fiber.Map{"error": "no frame captured"})
		}
		return ctx.JSON(r)
	}
}
