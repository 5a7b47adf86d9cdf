package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/gorm"

	"github.com/beesaferoot/gorm-posts/internal/config"
	"github.com/beesaferoot/gorm-posts/internal/database"
	"github.com/beesaferoot/gorm-posts/internal/handler"
	"github.com/beesaferoot/gorm-posts/internal/post"
	"github.com/beesaferoot/gorm-posts/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the posts HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, db, err := getDB()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.HTTPAddr = addr
			}
			if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
				cfg.AutoMigrate = true
			}

			shutdownTracing, err := telemetry.Init(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdownTracing(c)
			}()

			srv, err := newServer(cfg, db)
			if err != nil {
				return err
			}
			return run(ctx, srv)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides HTTP_ADDR)")
	cmd.Flags().Bool("migrate", false, "Apply pending migrations before serving")
	return cmd
}

// newServer wires storage, service, handlers and middleware into an
// http.Server ready to listen on cfg.HTTPAddr.
func newServer(cfg *config.Config, db *gorm.DB) (*http.Server, error) {
	gin.SetMode(cfg.GinMode)

	if cfg.AutoMigrate {
		applied, err := getMigrator(db).Up()
		if err != nil {
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
		for _, mr := range applied {
			log.Printf("applied migration %s (%s)", mr.Name, mr.Version)
		}
	}
	if cfg.UsesDevSecret() {
		log.Println("warning: JWT_SECRET is not set, using the development secret")
	}

	svc := post.NewService(post.NewRepository(db))
	router := handler.NewRouter(
		handler.NewPostHandler(svc, cfg.WireCompat),
		[]byte(cfg.JWTSecret),
		func(ctx context.Context) error { return database.Ping(ctx, db) },
	)

	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, "posts"),
		ReadHeaderTimeout: 5 * time.Second,
	}, nil
}

// run serves until ctx is cancelled, then drains in-flight requests.
func run(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down")
	c, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(c)
}
