// Command create-member seeds the configured store and adds a member,
// printing the new user ID. Storage settings come from the same
// environment variables as the API server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/nonnoweb/nonnoweb/internal/config"
	"github.com/nonnoweb/nonnoweb/internal/kv"
	"github.com/nonnoweb/nonnoweb/internal/model"
	"github.com/nonnoweb/nonnoweb/internal/repository"
	"github.com/nonnoweb/nonnoweb/internal/service"
)

type output struct {
	UserID     string             `json:"user_id"`
	Email      string             `json:"email"`
	Membership model.MembershipID `json:"membership"`
	ExpiryDate *int64             `json:"expiry_date,omitempty"`
}

func main() {
	var (
		email      = flag.String("email", "", "Member email")
		password   = flag.String("password", "", "Member password")
		username   = flag.String("username", "", "Display name")
		membership = flag.String("membership", string(model.Membership1Month), "Membership: 7days, 1month, 1year, lifetime or none")
		inactive   = flag.Bool("inactive", false, "Create the account disabled")
		format     = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := kv.Open(ctx, cfg.StoreOptions(nil))
	if err != nil {
		fmt.Fprintln(os.Stderr, "open store:", err)
		os.Exit(1)
	}
	defer store.Close()

	repo, err := repository.New(store)
	if err != nil {
		fmt.Fprintln(os.Stderr, "create repository:", err)
		os.Exit(1)
	}
	if err := repo.Bootstrap(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "seed store:", err)
		os.Exit(1)
	}

	admin := service.NewAdminService(repo, nil)
	user, err := admin.AddUser(ctx, service.NewUserInput{
		Email:      *email,
		Password:   *password,
		Username:   *username,
		Membership: model.MembershipID(*membership),
		IsActive:   !*inactive,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "create member:", err)
		os.Exit(1)
	}

	out := output{
		UserID:     user.ID,
		Email:      user.Email,
		Membership: user.Membership,
		ExpiryDate: user.ExpiryDate,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.UserID)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}
