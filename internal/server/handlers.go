// internal/server/handlers.go
package server

import (
	"net/http"

	"feedbender/internal/feed"
	"feedbender/internal/render"
)

// handleFeed builds the handler for one source in one output format. The
// pipeline absorbs upstream failures, so the only 5xx left is a
// serialization failure.
func (s *Server) handleFeed(source feed.SourcePolicy, format render.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		items := s.pipeline.Items(r.Context(), source)
		feedURL := s.config.BaseURL + source.Path(string(format))
		body, err := render.Render(items, source.Channel, feedURL, format)
		if err != nil {
			s.logger.Printf("Rendering %s feed for %s: %v", format, source.Name, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		if origin := r.Header.Get("Origin"); origin != "" && originAllowed(origin, s.config.CORSAllowHostnames) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		if r.Method == http.MethodHead {
			return
		}
		w.Write(body)
	}
}
