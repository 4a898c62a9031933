package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nonnoweb/nonnoweb/internal/auth"
	"github.com/nonnoweb/nonnoweb/internal/model"
)

// ListUsers returns all users. It never fails: an absent, unreadable or
// corrupt collection yields the bootstrap admin alone.
func (r *Repository) ListUsers(ctx context.Context) []model.User {
	users, err := r.loadUsers(ctx)
	if err != nil {
		r.logger.Error("users collection unreadable, falling back to bootstrap admin",
			slog.String("error", err.Error()),
		)
		return []model.User{r.admin}
	}
	return users
}

// FindUser returns the user with the given id.
func (r *Repository) FindUser(ctx context.Context, id string) (*model.User, bool) {
	for _, u := range r.ListUsers(ctx) {
		if u.ID == id {
			return &u, true
		}
	}
	return nil, false
}

// loadUsers is the strict read used before any write.
func (r *Repository) loadUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	found, err := r.read(ctx, KeyUsers, &users)
	if err != nil {
		return nil, err
	}
	if !found {
		return []model.User{r.admin}, nil
	}
	if users == nil {
		return nil, fmt.Errorf("%w: %s: not a list", ErrCorruptData, KeyUsers)
	}
	for i := range users {
		if users[i].SavedRecipes == nil {
			users[i].SavedRecipes = []model.Recipe{}
		}
		if err := users[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptData, err)
		}
	}
	return users, nil
}

// SaveUser inserts the user or replaces the record with the same id.
// A new password is always hashed; an empty one keeps the stored credential.
func (r *Repository) SaveUser(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadUsers(ctx)
	if err != nil {
		return err
	}
	return r.upsert(ctx, users, *user)
}

// CreateUser inserts a user whose email is not yet registered.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.EmailMatches(user.Email) {
			return ErrEmailExists
		}
	}
	return r.upsert(ctx, users, *user)
}

// UpdateUser applies fn to the stored user with id and persists the result
// atomically with respect to other repository writes. An email already held
// by another user is rejected with ErrEmailExists.
func (r *Repository) UpdateUser(ctx context.Context, id string, fn func(*model.User) error) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadUsers(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOf(users, id)
	if idx < 0 {
		return nil, ErrUserNotFound
	}

	updated := users[idx]
	updated.SavedRecipes = append([]model.Recipe{}, updated.SavedRecipes...)
	if err := fn(&updated); err != nil {
		return nil, err
	}
	updated.ID = id

	for i := range users {
		if i != idx && users[i].EmailMatches(updated.Email) {
			return nil, ErrEmailExists
		}
	}

	if err := r.upsert(ctx, users, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// upsert treats a non-empty password as a new plaintext credential and
// hashes it. An empty password, or one equal to the stored value, keeps the
// stored credential.
func (r *Repository) upsert(ctx context.Context, users []model.User, user model.User) error {
	idx := indexOf(users, user.ID)

	switch {
	case idx >= 0 && (user.Password == "" || user.Password == users[idx].Password):
		user.Password = users[idx].Password
	case user.Password != "":
		hash, err := auth.HashPassword(user.Password, r.params)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.Password = hash
	}
	return r.put(ctx, users, idx, user)
}

// put validates user and writes it at idx, appending when idx is negative.
// The password is stored exactly as given.
func (r *Repository) put(ctx context.Context, users []model.User, idx int, user model.User) error {
	if user.SavedRecipes == nil {
		user.SavedRecipes = []model.Recipe{}
	}
	if err := user.Validate(); err != nil {
		return err
	}

	if idx >= 0 {
		users[idx] = user
	} else {
		users = append(users, user)
	}
	return r.write(ctx, KeyUsers, users)
}

// DeleteUser removes the user with id. Unknown ids leave the store untouched.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadUsers(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(users, id)
	if idx < 0 {
		return nil
	}
	users = append(users[:idx], users[idx+1:]...)
	return r.write(ctx, KeyUsers, users)
}

func indexOf(users []model.User, id string) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}
