package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nonnoweb/nonnoweb/internal/metrics"
	"github.com/nonnoweb/nonnoweb/internal/model"
	"github.com/nonnoweb/nonnoweb/internal/recipe"
	"github.com/nonnoweb/nonnoweb/internal/repository"
)

// Request defaults, matching the initial state of the kitchen form.
const (
	defaultMealType    = model.MealLunch
	defaultCourseType  = model.CourseSurprise
	defaultPeopleCount = 2
)

// KitchenService handles sessions, generation and the personal cookbook.
type KitchenService struct {
	repo      *repository.Repository
	generator recipe.Generator
	metrics   metrics.Recorder
	logger    *slog.Logger
	now       func() time.Time
}

// NewKitchenService creates a new KitchenService.
func NewKitchenService(repo *repository.Repository, generator recipe.Generator, recorder metrics.Recorder, opts ...Option) *KitchenService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	o := buildOptions(opts)
	return &KitchenService{
		repo:      repo,
		generator: generator,
		metrics:   recorder,
		logger:    o.logger,
		now:       o.now,
	}
}

// ResolveSession returns the fresh record of the logged-in user. A session
// whose user was removed or deactivated is cleared.
func (s *KitchenService) ResolveSession(ctx context.Context) *model.User {
	session := s.repo.CurrentSession(ctx)
	if session == nil {
		return nil
	}

	fresh, ok := s.repo.FindUser(ctx, session.ID)
	if !ok || !fresh.IsActive {
		s.logger.Info("dropping stale session", slog.String("user_id", session.ID))
		if err := s.repo.Logout(ctx); err != nil {
			s.logger.Error("failed to clear stale session", slog.String("error", err.Error()))
		}
		return nil
	}

	user := fresh.Snapshot()
	return &user
}

// Login authenticates the client.
func (s *KitchenService) Login(ctx context.Context, email, password string) (model.LoginResult, error) {
	result, err := s.repo.Login(ctx, email, password)
	if err != nil {
		s.recordStoreError(err)
		return result, err
	}

	switch result.Failure {
	case model.LoginInvalidCredentials:
		s.metrics.IncLogin(metrics.LoginInvalidCredentials)
	case model.LoginAccountDisabled:
		s.metrics.IncLogin(metrics.LoginAccountDisabled)
	default:
		s.metrics.IncLogin(metrics.LoginSuccess)
	}
	return result, nil
}

// Logout ends the session and clears the displayed recipe.
func (s *KitchenService) Logout(ctx context.Context) error {
	if err := s.repo.Logout(ctx); err != nil {
		s.recordStoreError(err)
		return err
	}
	if err := s.repo.ClearCurrentRecipe(ctx); err != nil {
		s.recordStoreError(err)
		return err
	}
	return nil
}

func normalizeRequest(req model.RecipeRequest) model.RecipeRequest {
	if req.MealType == "" {
		req.MealType = defaultMealType
	}
	if req.CourseType == "" {
		req.CourseType = defaultCourseType
	}
	if req.PeopleCount == 0 {
		req.PeopleCount = defaultPeopleCount
	}
	return req
}

// checkEntitlement enforces the guest allowance and membership rules.
func (s *KitchenService) checkEntitlement(ctx context.Context, user *model.User, now time.Time) error {
	if user == nil {
		if s.repo.FreeRecipeUsed(ctx) {
			return ErrFreeRecipeUsed
		}
		return nil
	}

	if user.IsMembershipExpired(now) {
		return ErrMembershipExpired
	}
	if user.IsAdmin() {
		return nil
	}

	plan, err := s.repo.PlanFor(ctx, user.Membership)
	if err != nil {
		// No plan means no configured limit.
		return nil
	}
	if user.CountToday(now) >= plan.DailyRecipeLimit {
		return ErrDailyLimitReached
	}
	return nil
}

// Generate produces a recipe for the calling client, enforcing the guest
// allowance, membership expiry and daily limits.
func (s *KitchenService) Generate(ctx context.Context, req model.RecipeRequest) (*model.Recipe, error) {
	now := s.now()
	user := s.ResolveSession(ctx)

	if err := s.checkEntitlement(ctx, user, now); err != nil {
		s.metrics.IncRecipeGenerated(metrics.GenerationDenied)
		return nil, err
	}

	if !req.HasIngredients() {
		return nil, ErrNoIngredients
	}
	req = normalizeRequest(req)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	generated, err := s.generator.Generate(ctx, req)
	s.metrics.ObserveGenerationDuration(time.Since(start))
	if err != nil {
		s.metrics.IncRecipeGenerated(metrics.GenerationFailed)
		s.logger.Warn("recipe generation failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	s.metrics.IncRecipeGenerated(metrics.GenerationSuccess)

	generated.ID = newID()
	generated.Timestamp = now.UnixMilli()

	// The recipe exists now; bookkeeping failures below are logged, not returned.
	if err := s.repo.SetCurrentRecipe(ctx, generated); err != nil {
		s.bookkeepingFailed("store current recipe", err)
	}

	if user == nil {
		if err := s.repo.MarkFreeRecipeUsed(ctx); err != nil {
			s.bookkeepingFailed("mark free recipe used", err)
		}
		return generated, nil
	}

	updated, err := s.repo.UpdateUser(ctx, user.ID, func(u *model.User) error {
		u.IncrementDailyCount(now)
		return nil
	})
	if err != nil {
		s.bookkeepingFailed("increment daily count", err)
		return generated, nil
	}
	if err := s.repo.UpdateSession(ctx, updated); err != nil {
		s.bookkeepingFailed("refresh session", err)
	}

	return generated, nil
}

// CurrentRecipe returns the recipe displayed to the calling client.
func (s *KitchenService) CurrentRecipe(ctx context.Context) *model.Recipe {
	return s.repo.CurrentRecipe(ctx)
}

// ClearCurrentRecipe resets the display back to the kitchen form.
func (s *KitchenService) ClearCurrentRecipe(ctx context.Context) error {
	return s.repo.ClearCurrentRecipe(ctx)
}

// SavedRecipes lists the logged-in user's cookbook, most recent first.
func (s *KitchenService) SavedRecipes(ctx context.Context) ([]model.Recipe, error) {
	user := s.ResolveSession(ctx)
	if user == nil {
		return nil, ErrNotLoggedIn
	}
	return user.SavedRecipes, nil
}

// ToggleSaveRecipe removes the recipe when already saved, otherwise adds it
// to the front of the cookbook with a fresh timestamp. It reports whether
// the recipe is saved afterwards.
func (s *KitchenService) ToggleSaveRecipe(ctx context.Context, r model.Recipe) (bool, *model.User, error) {
	user := s.ResolveSession(ctx)
	if user == nil {
		return false, nil, ErrNotLoggedIn
	}

	var saved bool
	updated, err := s.repo.UpdateUser(ctx, user.ID, func(u *model.User) error {
		if r.ID != "" && u.RemoveRecipe(r.ID) {
			saved = false
			return nil
		}
		if r.ID == "" {
			r.ID = newID()
		}
		r.Timestamp = s.now().UnixMilli()
		if err := r.Validate(); err != nil {
			return err
		}
		u.SavedRecipes = append([]model.Recipe{r}, u.SavedRecipes...)
		saved = true
		return nil
	})
	if err != nil {
		return false, nil, s.mapUserError(err)
	}

	if saved {
		s.metrics.IncRecipeSaved()
	} else {
		s.metrics.IncRecipeDeleted()
	}

	if err := s.repo.UpdateSession(ctx, updated); err != nil {
		s.recordStoreError(err)
		return false, nil, err
	}

	snapshot := updated.Snapshot()
	return saved, &snapshot, nil
}

// DeleteRecipe removes a saved recipe and clears the display if it shows it.
func (s *KitchenService) DeleteRecipe(ctx context.Context, recipeID string) error {
	user := s.ResolveSession(ctx)
	if user == nil {
		return ErrNotLoggedIn
	}

	updated, err := s.repo.UpdateUser(ctx, user.ID, func(u *model.User) error {
		if !u.RemoveRecipe(recipeID) {
			return ErrRecipeNotFound
		}
		return nil
	})
	if err != nil {
		return s.mapUserError(err)
	}
	s.metrics.IncRecipeDeleted()

	if err := s.repo.UpdateSession(ctx, updated); err != nil {
		s.recordStoreError(err)
		return err
	}

	if current := s.repo.CurrentRecipe(ctx); current != nil && current.ID == recipeID {
		if err := s.repo.ClearCurrentRecipe(ctx); err != nil {
			s.recordStoreError(err)
			return err
		}
	}
	return nil
}

// SelectRecipe displays a saved recipe.
func (s *KitchenService) SelectRecipe(ctx context.Context, recipeID string) (*model.Recipe, error) {
	user := s.ResolveSession(ctx)
	if user == nil {
		return nil, ErrNotLoggedIn
	}

	for i := range user.SavedRecipes {
		if user.SavedRecipes[i].ID == recipeID {
			r := user.SavedRecipes[i]
			if err := s.repo.SetCurrentRecipe(ctx, &r); err != nil {
				s.recordStoreError(err)
				return nil, err
			}
			return &r, nil
		}
	}
	return nil, ErrRecipeNotFound
}

func (s *KitchenService) bookkeepingFailed(step string, err error) {
	s.recordStoreError(err)
	s.logger.Error("post-generation bookkeeping failed",
		slog.String("step", step),
		slog.String("error", err.Error()),
	)
}

func (s *KitchenService) recordStoreError(err error) {
	if errors.Is(err, repository.ErrStoreWrite) {
		s.metrics.IncStoreWriteFailure()
	}
}

func (s *KitchenService) mapUserError(err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrNotLoggedIn
	}
	s.recordStoreError(err)
	return err
}
