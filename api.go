/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Seednode/teamswap/swap"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// ToolSummary is one entry of the tool listing.
type ToolSummary struct {
	Name  string   `json:"name"`
	Title string   `json:"title"`
	Rows  []string `json:"rows"`
}

type ThemeMessage struct {
	Theme string `json:"theme"`
}

func writeJSON(cfg *Config, w http.ResponseWriter, status int, v any, errs chan<- error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	securityHeaders(cfg, w)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		errs <- err
	}
}

// toolHandle resolves :tool and hands the tool to next, or answers 404.
func toolHandle(cfg *Config, reg *Registry, errs chan<- error, next func(http.ResponseWriter, *http.Request, *swap.Tool)) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		tool, err := reg.Get(p.ByName("tool"))
		if err != nil {
			writeJSON(cfg, w, http.StatusNotFound, SimpleMessage{Type: "error", Message: err.Error()}, errs)
			return
		}

		next(w, r, tool)
	}
}

func serveToolList(cfg *Config, reg *Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		tools := reg.Tools()

		list := make([]ToolSummary, 0, len(tools))
		for _, tool := range tools {
			c := tool.Config()
			list = append(list, ToolSummary{
				Name:  c.Name,
				Title: c.Title,
				Rows:  c.Rows,
			})
		}

		writeJSON(cfg, w, http.StatusOK, list, errs)
	}
}

func serveToolView(cfg *Config, reg *Registry, errs chan<- error) httprouter.Handle {
	return toolHandle(cfg, reg, errs, func(w http.ResponseWriter, r *http.Request, tool *swap.Tool) {
		writeJSON(cfg, w, http.StatusOK, tool.View(), errs)
	})
}

// serveCopyText returns the export text of the values currently shown.
func serveCopyText(cfg *Config, reg *Registry, errs chan<- error) httprouter.Handle {
	return toolHandle(cfg, reg, errs, func(w http.ResponseWriter, r *http.Request, tool *swap.Tool) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		if _, err := w.Write([]byte(tool.CopyText())); err != nil {
			errs <- err
		}
	})
}

// serveQR renders a PNG QR code pointing at the tool page.
func serveQR(cfg *Config, reg *Registry, errs chan<- error) httprouter.Handle {
	return toolHandle(cfg, reg, errs, func(w http.ResponseWriter, r *http.Request, tool *swap.Tool) {
		scheme := cfg.scheme()
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr")

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)

		if _, err := w.Write(png); err != nil {
			errs <- err
		}
	})
}

func registerThemeAPI(cfg *Config, theme *Theme, mux *httprouter.Router, errs chan<- error) {
	mux.GET(cfg.prefix+"/api/theme", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(cfg, w, http.StatusOK, ThemeMessage{Theme: theme.Get()}, errs)
	})

	mux.POST(cfg.prefix+"/api/theme/toggle", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		next := theme.Toggle()
		logf(cfg, "THEME: Switched to %s for %s", next, realIP(r))
		writeJSON(cfg, w, http.StatusOK, ThemeMessage{Theme: next}, errs)
	})
}

// registerTools sets up routes so that:
//   - $prefix/tools/:tool        → HTML client
//   - $prefix/tools/:tool/ws     → WebSocket for that tool
//   - $prefix/tools/:tool/qr     → PNG QR code for the tool page
//   - $prefix/api/tools[/:tool]  → JSON listing and current view
//   - $prefix/api/tools/:tool/copy → export text
func registerTools(cfg *Config, reg *Registry, mux *httprouter.Router, errs chan<- error) {
	mux.GET(cfg.prefix+"/tools/:tool", serveIndex(cfg, errs))
	mux.GET(cfg.prefix+"/tools/:tool/ws", serveLive(cfg, reg))
	mux.GET(cfg.prefix+"/tools/:tool/qr", serveQR(cfg, reg, errs))

	mux.GET(cfg.prefix+"/api/tools", serveToolList(cfg, reg, errs))
	mux.GET(cfg.prefix+"/api/tools/:tool", serveToolView(cfg, reg, errs))
	mux.GET(cfg.prefix+"/api/tools/:tool/copy", serveCopyText(cfg, reg, errs))
}
