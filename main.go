// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/keystone-adops/auth"
	"github.com/danielhkuo/keystone-adops/cache"
	"github.com/danielhkuo/keystone-adops/cliparse"
	"github.com/danielhkuo/keystone-adops/db"
	"github.com/danielhkuo/keystone-adops/handlers"
	"github.com/danielhkuo/keystone-adops/hubspot"
	"github.com/danielhkuo/keystone-adops/legacyevents"
	"github.com/danielhkuo/keystone-adops/logging"
	"github.com/danielhkuo/keystone-adops/meta"
	"github.com/danielhkuo/keystone-adops/models"
	"github.com/danielhkuo/keystone-adops/predict"
	"github.com/danielhkuo/keystone-adops/router"
	"github.com/danielhkuo/keystone-adops/store"
	"github.com/danielhkuo/keystone-adops/syncer"
)

// shutdownTimeout bounds draining HTTP requests and background jobs.
const shutdownTimeout = 15 * time.Second

const needsSecret = "needs-secret"

var (
	cfg       cliparse.Config
	logCloser io.Closer
)

func main() {
	root := &cobra.Command{
		Use:           "keystone",
		Short:         "Keystone Ad Ops API server and maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   map[string]string{needsSecret: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cliparse.LoadEnvFile(cfg.EnvFile); err != nil {
				return err
			}
			resolved, err := cliparse.Resolve(cmd.Flags(), &cfg, cmd.Annotations[needsSecret] == "true")
			if err != nil {
				return err
			}
			cfg = resolved

			closer, err := logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
			if err != nil {
				return err
			}
			logCloser = closer
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	cliparse.Bind(root.PersistentFlags(), &cfg)

	root.AddCommand(serveCmd(), migrateCmd(), syncCmd(), seedUserCmd())

	err := root.ExecuteContext(context.Background())
	if logCloser != nil {
		logCloser.Close()
	}
	if err != nil {
		slog.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "serve",
		Short:       "Run the HTTP API (default)",
		Annotations: map[string]string{needsSecret: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create any missing tables and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.DB().Close()
			slog.Info("Database schema ready", "db_type", cfg.DatabaseType)
			return nil
		},
	}
}

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "sync {campaigns|contacts|deals|all}",
		Short:     "Run a Meta or HubSpot sync in the foreground",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{store.SyncCampaigns, store.SyncContacts, store.SyncDeals, "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.DB().Close()

			svc, snaps, err := newSyncer(st)
			if err != nil {
				return err
			}
			defer snaps.Close()
			defer svc.Close()

			jobs := map[string]func(context.Context) (int, error){
				store.SyncCampaigns: svc.RefreshCampaigns,
				store.SyncContacts:  svc.SyncContacts,
				store.SyncDeals:     svc.SyncDeals,
			}
			kinds := []string{args[0]}
			if args[0] == "all" {
				kinds = []string{store.SyncCampaigns, store.SyncDeals, store.SyncContacts}
			}

			var errs []error
			for _, kind := range kinds {
				n, err := jobs[kind](ctx)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", kind, err))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records\n", kind, n)
			}
			return errors.Join(errs...)
		},
	}
}

func seedUserCmd() *cobra.Command {
	var req models.CreateUserRequest

	cmd := &cobra.Command{
		Use:   "seed-user",
		Short: "Create a dashboard user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Email == "" || req.Password == "" {
				return errors.New("--email and --password are required")
			}
			if req.Username == "" {
				req.Username = req.Email
			}

			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.DB().Close()

			hash, err := auth.HashPassword(req.Password)
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			user := models.User{
				ID:             auth.NewID(),
				Username:       req.Username,
				Email:          req.Email,
				HashedPassword: hash,
				FirstName:      req.FirstName,
				LastName:       req.LastName,
				RoleID:         handlers.DefaultRoleID,
				DepartmentID:   handlers.DefaultDepartmentID,
				Status:         true,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := st.CreateUser(cmd.Context(), user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Login email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Login password")
	cmd.Flags().StringVar(&req.Username, "username", "", "Username (defaults to the email)")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "Admin", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "User", "Last name")
	return cmd
}

// openStore connects to the configured database and creates the schema.
func openStore(ctx context.Context) (*store.Store, error) {
	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("schema creation failed: %w", err)
	}
	return store.New(conn), nil
}

// newSyncer wires the Meta and HubSpot clients and the snapshot backend into
// a background sync service.
func newSyncer(st *store.Store) (*syncer.Service, cache.Snapshots, error) {
	snaps, err := cache.Open(cfg.SnapshotBackend, cfg.SnapshotFile, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}

	metaClient := meta.NewClient(meta.Config{
		BaseURL:     cfg.MetaBaseURL,
		Version:     cfg.MetaAPIVersion,
		AccessToken: cfg.MetaAccessToken,
		AccountID:   cfg.MetaAccountID,
	})
	if !metaClient.Configured() {
		slog.Warn("META_ACCESS_TOKEN not set; campaign refreshes are disabled")
	}

	crmClient := hubspot.NewClient(hubspot.Config{
		BaseURL:     cfg.HubSpotBaseURL,
		AccessToken: cfg.HubSpotAccessToken,
	})
	if !crmClient.Configured() {
		slog.Warn("HUBSPOT_ACCESS_TOKEN not set; CRM syncs are disabled")
	}

	svc := syncer.New(st, metaClient, crmClient, snaps, syncer.Options{
		StaleAfter:  cfg.CampaignStaleAfter,
		CRMInterval: cfg.CRMSyncInterval,
	})
	return svc, snaps, nil
}

func serve(ctx context.Context) error {
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.DB().Close()
	slog.Info("Database schema ready", "db_type", cfg.DatabaseType)

	svc, snaps, err := newSyncer(st)
	if err != nil {
		return err
	}
	defer snaps.Close()

	benchmarks, err := predict.LoadBenchmarks(cfg.BenchmarksFile)
	if err != nil {
		svc.Close()
		return err
	}

	handler := router.NewRouter(router.Deps{
		Store:      st,
		Syncer:     svc,
		Config:     cfg,
		Benchmarks: benchmarks,
		Events:     legacyevents.NewFeed(cfg.EventsFeedURL, nil),
	})

	server := &http.Server{
		Handler:           handler,
		Addr:              cfg.PortString(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(ctrlc)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Listening", "port", cfg.Port, "snapshot_backend", snaps.Kind())
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		svc.Close()
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case sig := <-ctrlc:
		slog.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown incomplete", "error", err)
	}
	if err := svc.Shutdown(shutdownCtx); err != nil {
		slog.Warn("background jobs cancelled before finishing", "error", err)
	}
	slog.Info("Server closed")
	return nil
}
