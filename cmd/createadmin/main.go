// AngelaMos | 2026
// main.go

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/carterperez-dev/instaiq-backend/internal/auth"
	"github.com/carterperez-dev/instaiq-backend/internal/config"
	"github.com/carterperez-dev/instaiq-backend/internal/core"
	"github.com/carterperez-dev/instaiq-backend/internal/middleware"
	"github.com/carterperez-dev/instaiq-backend/internal/migrations"
	"github.com/carterperez-dev/instaiq-backend/internal/user"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("create admin failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	req, err := collect(bufio.NewReader(os.Stdin), os.Stdout, int(os.Stdin.Fd()))
	if err != nil {
		return err
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // process exit

	if err := migrations.Up(ctx, db.DB.DB); err != nil {
		return err
	}

	svc := auth.NewService(nil, user.NewService(user.NewRepository(db.DB)))

	admin, err := svc.CreateAccount(ctx, req, middleware.RoleAdmin)
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			return fmt.Errorf("an account with email %s already exists", req.Email)
		}
		return err
	}

	fmt.Printf("Admin user created: %s <%s>\n", admin.Name, admin.Email)
	return nil
}
