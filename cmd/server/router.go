package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/javoucar/internal/auth"
	appmw "github.com/mmynk/javoucar/internal/middleware"
	"github.com/mmynk/javoucar/internal/service"
)

const apiPrefix = "/api"

// newRouter wires the API, the feedback websocket, metrics and the page shell.
func newRouter(staticDir string, ctrl service.Dispatcher, ws http.Handler, jwtManager *auth.JWTManager) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(appmw.RequestLogger)
	r.Use(appmw.CORS)

	path, handler := service.NewHandler(service.NewAppService(ctrl),
		connect.WithInterceptors(
			appmw.OptionalSession(jwtManager),
			appmw.LoggingInterceptor(),
		),
	)
	r.Handle(apiPrefix+path+"*", http.StripPrefix(apiPrefix, handler))

	r.Handle("/ws", ws)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})
	r.NotFound(staticHandler(staticDir))

	return r
}

// staticHandler serves files from dir, falling back to index.html for
// unknown paths so the page shell handles them.
func staticHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, apiPrefix+"/") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(dir, filepath.Clean("/"+urlPath))

		info, err := os.Stat(filePath)
		if err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	}
}
