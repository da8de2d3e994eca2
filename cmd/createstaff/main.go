// Command createstaff creates a staff account, or grants staff access to an
// existing one.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/database"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
	"github.com/example/storefront/internal/repository/postgres"
	"github.com/example/storefront/internal/utils"
)

func main() {
	username := flag.String("username", "", "account username (required)")
	password := flag.String("password", "", "password for a new account")
	phone := flag.String("phone", "", "phone for a new account, defaults to the username")
	flag.Parse()

	if *username == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	db, err := database.Connect(cfg.DatabaseURL, cfg.IsProduction())
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}

	if err := promote(context.Background(), postgres.NewStore(db), *username, *password, *phone); err != nil {
		slog.Error("createstaff failed", "error", err)
		os.Exit(1)
	}
	slog.Info("staff account ready", "username", *username)
}

func promote(ctx context.Context, store repository.Store, username, password, phone string) error {
	return store.WithinTx(ctx, func(tx repository.Store) error {
		user, err := tx.Users().GetByUsername(ctx, username)
		if err == nil {
			user.IsStaff = true
			return tx.Users().Save(ctx, &user)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		if password == "" {
			return errors.New("password is required for a new account")
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			return err
		}
		user = models.User{
			Username:     username,
			Phone:        phone,
			PasswordHash: hash,
			IsActive:     true,
			IsStaff:      true,
		}
		return tx.Users().Create(ctx, &user)
	})
}
