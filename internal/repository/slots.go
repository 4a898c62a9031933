package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nonnoweb/nonnoweb/internal/model"
)

// FreeRecipeUsed reports whether the calling guest has used the free recipe.
func (r *Repository) FreeRecipeUsed(ctx context.Context) bool {
	var used bool
	if _, err := r.read(ctx, clientKey(ctx, KeyFreeUsed), &used); err != nil {
		r.logger.Warn("free recipe flag unreadable", slog.String("error", err.Error()))
		return false
	}
	return used
}

// MarkFreeRecipeUsed records that the calling guest used the free recipe.
func (r *Repository) MarkFreeRecipeUsed(ctx context.Context) error {
	return r.write(ctx, clientKey(ctx, KeyFreeUsed), true)
}

// CurrentRecipe returns the recipe displayed to the calling client, if any.
func (r *Repository) CurrentRecipe(ctx context.Context) *model.Recipe {
	key := clientKey(ctx, KeyCurrentRecipe)

	var recipe model.Recipe
	found, err := r.read(ctx, key, &recipe)
	if err == nil && found {
		err = recipe.Validate()
	}
	if err != nil {
		r.logger.Warn("clearing unreadable current recipe",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		r.clearSlot(ctx, key, "current recipe")
		return nil
	}
	if !found {
		return nil
	}
	return &recipe
}

// SetCurrentRecipe stores the recipe displayed to the calling client.
func (r *Repository) SetCurrentRecipe(ctx context.Context, recipe *model.Recipe) error {
	if err := recipe.Validate(); err != nil {
		return err
	}
	return r.write(ctx, clientKey(ctx, KeyCurrentRecipe), recipe)
}

// ClearCurrentRecipe removes the displayed recipe.
func (r *Repository) ClearCurrentRecipe(ctx context.Context) error {
	return r.remove(ctx, KeyCurrentRecipe)
}

// clearSlot drops an unreadable slot. Failures are logged; the caller
// already treats the slot as empty.
func (r *Repository) clearSlot(ctx context.Context, key, name string) {
	if err := r.store.Delete(ctx, key); err != nil {
		r.logger.Error("failed to clear "+name,
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

func (r *Repository) remove(ctx context.Context, base string) error {
	key := clientKey(ctx, base)
	if err := r.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrStoreWrite, key, err)
	}
	return nil
}
