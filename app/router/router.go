package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"armario-virtual/app/controller"
)

// Controllers groups every HTTP handler set
type Controllers struct {
	Wardrobe  *controller.WardrobeController
	Selection *controller.SelectionController
	Profile   *controller.ProfileController
	Sync      *controller.SyncController
	Stylist   *controller.StylistController
	Import    *controller.ImportController
	Lookbook  *controller.LookbookController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// SetupRoutes registers every route on a new mux and wraps it with request logging and CORS
func SetupRoutes(controllers *Controllers, allowedOrigins []string, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", pingHandler)

	// Wardrobe
	mux.HandleFunc("GET /wardrobe/items", controllers.Wardrobe.List)
	mux.HandleFunc("POST /wardrobe/items", controllers.Wardrobe.Create)
	mux.HandleFunc("DELETE /wardrobe/items/{id}", controllers.Wardrobe.Delete)
	mux.HandleFunc("GET /wardrobe/items/{id}/image", controllers.Wardrobe.Image)
	mux.HandleFunc("GET /wardrobe/lookbook", controllers.Lookbook.Render)
	mux.HandleFunc("GET /wardrobe/lookbook.pdf", controllers.Lookbook.PDF)

	// Selection
	mux.HandleFunc("GET /selection", controllers.Selection.Get)
	mux.HandleFunc("POST /selection/toggle", controllers.Selection.Toggle)
	mux.HandleFunc("DELETE /selection", controllers.Selection.Clear)

	// Body profile
	mux.HandleFunc("GET /profile", controllers.Profile.Get)
	mux.HandleFunc("PUT /profile", controllers.Profile.Update)
	mux.HandleFunc("PUT /profile/photo", controllers.Profile.SetPhoto)
	mux.HandleFunc("DELETE /profile/photo", controllers.Profile.DeletePhoto)

	// Sync session
	mux.HandleFunc("GET /sync", controllers.Sync.Status)
	mux.HandleFunc("POST /sync", controllers.Sync.Join)
	mux.HandleFunc("DELETE /sync", controllers.Sync.Leave)
	mux.HandleFunc("POST /sync/flush", controllers.Sync.Flush)

	// AI
	mux.HandleFunc("POST /ai/tag", controllers.Stylist.Tag)
	mux.HandleFunc("POST /ai/recommend", controllers.Stylist.Recommend)
	mux.HandleFunc("POST /ai/tryon", controllers.Stylist.TryOn)
	mux.HandleFunc("GET /ai/tryon/{key}", controllers.Stylist.Download)

	// Admin
	mux.HandleFunc("POST /admin/import/drive", controllers.Import.ImportDrive)

	handler := loggingMiddleware(logger, mux)
	if len(allowedOrigins) > 0 {
		handler = corsMiddleware(allowedOrigins)(handler)
	}
	return handler
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed[origin] = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || (!allowed[origin] && !allowed["*"]) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
