package main

import (
	"context"
	"encoding/json"
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

	"github.com/conversehq/merchant-cli/internal/platform"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only console API for the admin UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initConsole(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env),
		}

		go awaitShutdown(ctx, srv, 10*time.Second)

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

// awaitShutdown blocks until ctx is canceled, then drains in-flight requests
// on a fresh timeout. The signal context itself is already canceled at that
// point and would abort the drain immediately.
func awaitShutdown(ctx context.Context, srv *http.Server, drain time.Duration) {
	<-ctx.Done()
	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Warn("server shutdown", zap.Error(err))
	}
}

// newRouter builds the console API. All endpoints are reads; writes stay on
// the CLI where they are audited.
func newRouter(env *consoleEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"session":  env.Session.State().String(),
			"clusters": env.Resolver.Keys(),
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/merchants", func(w http.ResponseWriter, req *http.Request) {
			page := env.Client.ListMerchants(req.Context(), reqCluster(req), reqPage(req))
			writeJSON(w, http.StatusOK, page)
		})
		r.Get("/merchants/{id}", func(w http.ResponseWriter, req *http.Request) {
			m := env.Client.GetMerchant(req.Context(), reqCluster(req), chi.URLParam(req, "id"))
			if m == nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "merchant not found"})
				return
			}
			writeJSON(w, http.StatusOK, m)
		})
		r.Get("/merchants/{id}/prompts", func(w http.ResponseWriter, req *http.Request) {
			page := env.Client.ListPrompts(req.Context(), reqCluster(req), chi.URLParam(req, "id"), reqPage(req))
			writeJSON(w, http.StatusOK, page)
		})
		r.Get("/merchants/{id}/users", func(w http.ResponseWriter, req *http.Request) {
			page := env.Client.ListMerchantUsers(req.Context(), reqCluster(req), chi.URLParam(req, "id"), reqPage(req))
			writeJSON(w, http.StatusOK, page)
		})
		r.Get("/merchants/{id}/attributes", func(w http.ResponseWriter, req *http.Request) {
			page := env.Client.ListMerchantAttributes(req.Context(), reqCluster(req), chi.URLParam(req, "id"), reqPage(req))
			writeJSON(w, http.StatusOK, page)
		})
		r.Get("/merchants/{id}/visitors", func(w http.ResponseWriter, req *http.Request) {
			page := env.Client.ListVisitors(req.Context(), reqCluster(req), chi.URLParam(req, "id"), reqPage(req))
			writeJSON(w, http.StatusOK, page)
		})
		r.Get("/merchants/{id}/engagements", func(w http.ResponseWriter, req *http.Request) {
			page := env.Client.ListEngagements(req.Context(), reqCluster(req), chi.URLParam(req, "id"), reqPage(req))
			writeJSON(w, http.StatusOK, page)
		})
		r.Get("/knowledge-bases", func(w http.ResponseWriter, req *http.Request) {
			page := env.Client.ListKnowledgeBases(req.Context(), reqCluster(req), reqPage(req))
			writeJSON(w, http.StatusOK, page)
		})
		r.Get("/artifacts", func(w http.ResponseWriter, req *http.Request) {
			page := env.Client.ListArtifacts(req.Context(), reqCluster(req), reqPage(req))
			writeJSON(w, http.StatusOK, page)
		})
	})

	return r
}

func reqCluster(req *http.Request) string {
	return req.URL.Query().Get("cluster")
}

func reqPage(req *http.Request) platform.PageRequest {
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("size"))
	return platform.PageRequest{Page: page, Size: size}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
