package app

import (
	"os"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// health is the response of the health web service.
// output example:
//  {"version":"1.6.10+20261001","goVersion":"go1.16.15","hostName":"pi","time":"2026-10-18T10:12:01+02:00",
//   "goroutines":9,"heapMB":1,"sysMB":11,"driver":"gpiod","rxPin":11,"frames":12,"errors":1,"lastFrame":"0x78871EE1"}
type health struct {
	Version    string `json:"version"`
	GoVersion  string `json:"goVersion"`
	HostName   string `json:"hostName"`
	Time       string `json:"time"`
	Goroutines int    `json:"goroutines"`
	HeapMB     uint64 `json:"heapMB"`
	SysMB      uint64 `json:"sysMB"`
	Driver     string `json:"driver"`
	RxPin      int    `json:"rxPin"`
	// Frames is the number of decoded frames incl. repeat frames.
	Frames uint64 `json:"frames"`
	// Errors is the number of captured trains which couldn't be decoded.
	Errors    uint64 `json:"errors"`
	LastFrame string `json:"lastFrame,omitempty"`
}

// HandleHealth returns the state of the capture process.
func (app *App) HandleHealth() fiber.Handler {
	host, _ := os.Hostname()

	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request health")

		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		h := health{
			Version:    VERSION,
			GoVersion:  runtime.Version(),
			HostName:   host,
			Time:       time.Now().Format(time.RFC3339),
			Goroutines: runtime.NumGoroutine(),
			HeapMB:     m.Alloc >> 20,
			SysMB:      m.Sys >> 20,
			Driver:     app.config.Driver,
			RxPin:      app.config.RxPin,
		}

		app.last.RLock()
		h.Frames, h.Errors = app.last.frames, app.last.errors
		if app.last.report != nil {
			h.LastFrame = app.last.report.Code
		}
		app.last.RUnlock()

		return ctx.JSON(h)
	}
}
