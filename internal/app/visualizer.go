package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/attitude_visualizer/internal/config"
	"github.com/relabs-tech/attitude_visualizer/internal/engine"
	"github.com/relabs-tech/attitude_visualizer/internal/source"
)

var upgrader = websocket.Upgrader{
	// The UI is served from the same process; no cross-origin clients.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RunVisualizer runs the render loop and serves it to the browser: the
// 3D scene consumes frames over a websocket, the control panel posts
// commands back over HTTP.
func RunVisualizer(mode SourceMode, port string) error {
	cfg := config.Get()

	eng := newEngine(cfg, mode, port)
	eng.Start()
	defer eng.Stop()

	mux := http.NewServeMux()

	// Latest frame as plain JSON, for polling clients.
	mux.HandleFunc("/api/orientation", func(w http.ResponseWriter, r *http.Request) {
		fr, ok := eng.Latest()
		if !ok {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(fr); err != nil {
			log.Printf("json encode error: %v", err)
		}
	})

	// Frame stream for the 3D view.
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("websocket upgrade error: %v", err)
			return
		}
		defer conn.Close()

		id, frames := eng.Subscribe(2)
		defer eng.Unsubscribe(id)

		// Drain client messages so pings and close frames are handled.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					conn.Close()
					return
				}
			}
		}()

		for fr := range frames {
			if err := conn.WriteJSON(fr); err != nil {
				return
			}
		}
	})

	// Control surface: one endpoint, one small command set.
	mux.HandleFunc("/api/command", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		name := r.FormValue("name")
		value := r.FormValue("value")
		if err := dispatchCommand(eng, cfg, name, value); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	// Static files from ./web as the root
	mux.Handle("/", http.FileServer(http.Dir("web")))

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("visualizer listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

// dispatchCommand maps a control-panel action onto the engine command
// set. Out-of-range values are clamped downstream, not rejected here.
func dispatchCommand(eng *engine.Engine, cfg *config.Config, name, value string) error {
	switch name {
	case "alpha":
		a, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid alpha %q", value)
		}
		eng.SetAlpha(a)
	case "alpha_delta":
		d, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid alpha delta %q", value)
		}
		eng.AdjustAlpha(d)
	case "trail":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid trail length %q", value)
		}
		eng.SetTrailLength(n)
	case "trail_delta":
		d, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid trail delta %q", value)
		}
		eng.AdjustTrailLength(d)
	case "trail_enabled":
		eng.SetTrailEnabled(value == "true" || value == "1")
	case "calibrate":
		eng.Calibrate()
	case "pause":
		eng.SetPaused(value == "true" || value == "1")
	case "toggle_pause":
		eng.TogglePause()
	case "mock":
		eng.UseMock()
	case "playback":
		eng.SwitchSource("playback", source.NewPlayback(nil, cfg.PlaybackRate))
	case "serial":
		s, err := source.Discover(value, cfg.SerialBaudRate)
		if err != nil {
			return fmt.Errorf("serial connect: %w", err)
		}
		eng.SwitchSource("serial:"+s.Name(), s)
	default:
		return fmt.Errorf("unknown command %q", name)
	}
	return nil
}
