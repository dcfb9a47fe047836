package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/poi-cli/internal/geo"
	"github.com/sells-group/poi-cli/internal/pipeline"
	"github.com/sells-group/poi-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP annotation API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, "serve", true)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildRouter(env.Annotator, env.Store, cfg.Server.AllowedOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

type annotateRequest struct {
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
	Location string   `json:"location"`
}

// buildRouter wires the API routes. st may be nil, in which case the listing
// endpoints answer 503.
func buildRouter(a pipeline.Annotator, st store.Store, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/annotate", func(w http.ResponseWriter, r *http.Request) {
		var req annotateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Lat == nil || req.Lon == nil {
			writeError(w, http.StatusBadRequest, "lat and lon are required")
			return
		}

		c := geo.NewCoordinate(*req.Lat, *req.Lon)
		if err := c.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, a.Annotate(r.Context(), c, req.Location))
	})

	r.Route("/listings", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			if st == nil {
				writeError(w, http.StatusServiceUnavailable, "store not configured")
				return
			}

			filter := store.Filter{Area: r.URL.Query().Get("area")}
			var err error
			if filter.Limit, err = queryInt(r, "limit"); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			if filter.Offset, err = queryInt(r, "offset"); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}

			entries, err := st.List(r.Context(), filter)
			if err != nil {
				zap.L().Error("list listings failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "list listings failed")
				return
			}
			if entries == nil {
				entries = []store.Entry{}
			}
			writeJSON(w, http.StatusOK, entries)
		})

		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if st == nil {
				writeError(w, http.StatusServiceUnavailable, "store not configured")
				return
			}

			entry, err := st.Get(r.Context(), chi.URLParam(r, "id"))
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "listing not found")
				return
			}
			if err != nil {
				zap.L().Error("get listing failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "get listing failed")
				return
			}
			writeJSON(w, http.StatusOK, entry)
		})
	})

	return r
}

func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
