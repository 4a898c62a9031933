package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nonnoweb/nonnoweb/internal/auth"
	"github.com/nonnoweb/nonnoweb/internal/model"
)

// Login checks credentials and, on success, stores the session for the
// calling client. Credential failures are reported in the result; the
// error is reserved for store failures.
func (r *Repository) Login(ctx context.Context, email, password string) (model.LoginResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadUsers(ctx)
	writable := err == nil
	if err != nil {
		r.logger.Error("users collection unreadable during login",
			slog.String("error", err.Error()),
		)
		users = []model.User{r.admin}
	}

	var (
		matched      *model.User
		needsUpgrade bool
	)
	for i := range users {
		if !users[i].EmailMatches(email) {
			continue
		}
		ok, upgrade, err := auth.CheckPassword(password, users[i].Password)
		if err != nil {
			r.logger.Warn("stored password unreadable",
				slog.String("user_id", users[i].ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if ok {
			matched = &users[i]
			needsUpgrade = upgrade
			break
		}
	}

	if matched == nil {
		return model.LoginFailed(model.LoginInvalidCredentials), nil
	}
	if !matched.IsActive {
		return model.LoginFailed(model.LoginAccountDisabled), nil
	}

	if needsUpgrade && writable {
		if err := r.upgradePassword(ctx, users, matched, password); err != nil {
			r.logger.Warn("password upgrade failed",
				slog.String("user_id", matched.ID),
				slog.String("error", err.Error()),
			)
		} else {
			r.logger.Info("upgraded legacy password", slog.String("user_id", matched.ID))
		}
	}

	user := matched.Snapshot()
	if err := r.write(ctx, clientKey(ctx, KeySession), user); err != nil {
		return model.LoginResult{}, err
	}
	return model.LoginOK(&user), nil
}

// upgradePassword replaces a legacy plaintext credential with its hash.
func (r *Repository) upgradePassword(ctx context.Context, users []model.User, user *model.User, password string) error {
	hash, err := auth.HashPassword(password, r.params)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	upgraded := *user
	upgraded.Password = hash
	return r.put(ctx, users, indexOf(users, user.ID), upgraded)
}

// CurrentSession returns the user stored in the caller's session slot.
// An unreadable slot is cleared and reported as no session.
func (r *Repository) CurrentSession(ctx context.Context) *model.User {
	key := clientKey(ctx, KeySession)

	var user model.User
	found, err := r.read(ctx, key, &user)
	if err == nil && found {
		err = user.Validate()
	}
	if err != nil {
		r.logger.Warn("clearing unreadable session",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		r.clearSlot(ctx, key, "session")
		return nil
	}
	if !found {
		return nil
	}
	return &user
}

// UpdateSession overwrites the caller's session slot.
func (r *Repository) UpdateSession(ctx context.Context, user *model.User) error {
	return r.write(ctx, clientKey(ctx, KeySession), user.Snapshot())
}

// Logout clears the caller's session slot.
func (r *Repository) Logout(ctx context.Context) error {
	return r.remove(ctx, KeySession)
}
