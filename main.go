package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "beercatalog/internal/config"
	intdb "beercatalog/internal/db"
	api "beercatalog/internal/http"
	"beercatalog/internal/repositories"
	"beercatalog/internal/services"
	"beercatalog/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	var (
		envFile string
		env     intconfig.Env
	)

	root := &cobra.Command{
		Use:           "beercatalog",
		Short:         "Catalog API for manufacturers and their beers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			env = intconfig.LoadEnv(envFile)
			utils.InitLogger(env.LogEnv, env.LogLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), env)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), env)
		},
	})

	var steps int
	migrateCmd := &cobra.Command{
		Use:       "migrate [up|down|version]",
		Short:     "Apply or roll back schema migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}
			return migrate(cmd.Context(), env, direction, steps)
		},
	}
	migrateCmd.Flags().IntVar(&steps, "steps", 1, "migrations to roll back with down")
	root.AddCommand(migrateCmd)

	var adminName, adminPassword string
	createAdminCmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an ADMIN account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return createAdmin(cmd.Context(), env, adminName, adminPassword)
		},
	}
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "account name")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "account password")
	_ = createAdminCmd.MarkFlagRequired("name")
	_ = createAdminCmd.MarkFlagRequired("password")
	root.AddCommand(createAdminCmd)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, env intconfig.Env) error {
	log := utils.L()
	defer func() { _ = log.Sync() }()

	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}
	if env.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	db, err := intconfig.ConnectDB(ctx, env)
	if err != nil {
		return err
	}
	defer intconfig.CloseDB()

	if err := intdb.MigrateUp(db); err != nil {
		return err
	}

	r := api.NewRouter(env, api.NewDeps(env, db))

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", env.AppAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func migrate(ctx context.Context, env intconfig.Env, direction string, steps int) error {
	db, err := intconfig.ConnectDB(ctx, env)
	if err != nil {
		return err
	}
	defer intconfig.CloseDB()

	switch direction {
	case "down":
		err = intdb.MigrateDown(db, steps)
	case "version":
		v, dirty, verr := intdb.MigrationVersion(db)
		if verr != nil {
			return verr
		}
		fmt.Printf("version=%d dirty=%t\n", v, dirty)
		return nil
	default:
		err = intdb.MigrateUp(db)
	}
	if err != nil {
		return err
	}
	utils.L().Info("migrations applied", zap.String("direction", direction))
	return nil
}

func createAdmin(ctx context.Context, env intconfig.Env, name, password string) error {
	db, err := intconfig.ConnectDB(ctx, env)
	if err != nil {
		return err
	}
	defer intconfig.CloseDB()

	if err := intdb.MigrateUp(db); err != nil {
		return err
	}

	svc := services.AuthService{Accounts: repositories.UserRepository{DB: db}}
	id, err := svc.CreateAdmin(ctx, name, password)
	if err != nil {
		return err
	}
	fmt.Printf("admin account %q created with id %d\n", name, id)
	return nil
}
