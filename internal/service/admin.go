package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/nonnoweb/nonnoweb/internal/metrics"
	"github.com/nonnoweb/nonnoweb/internal/model"
	"github.com/nonnoweb/nonnoweb/internal/repository"
)

// AdminService manages users and membership plans. Callers must already be
// authorised as admins.
type AdminService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(repo *repository.Repository, recorder metrics.Recorder, opts ...Option) *AdminService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	o := buildOptions(opts)
	return &AdminService{repo: repo, metrics: recorder, logger: o.logger}
}

// NewUserInput defines input for creating a member.
type NewUserInput struct {
	Email      string
	Password   string
	Username   string
	Membership model.MembershipID
	IsActive   bool
}

// UserPatch holds the fields an admin may change. Nil fields are untouched.
type UserPatch struct {
	Email      *string
	Password   *string
	Username   *string
	IsActive   *bool
	Membership *model.MembershipID
}

// ListUsers returns users without credentials, optionally filtered by a
// case-insensitive match on email or username.
func (s *AdminService) ListUsers(ctx context.Context, search string) []model.User {
	search = strings.ToLower(strings.TrimSpace(search))

	users := s.repo.ListUsers(ctx)
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Email), search) &&
			!strings.Contains(strings.ToLower(u.Username), search) {
			continue
		}
		out = append(out, u.Snapshot())
	}
	return out
}

// AddUser creates a member with role user and an expiry derived from the plan.
func (s *AdminService) AddUser(ctx context.Context, input NewUserInput) (*model.User, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.Username = strings.TrimSpace(input.Username)
	if input.Email == "" || input.Password == "" || input.Username == "" {
		return nil, ErrInvalidUserInput
	}
	if input.Membership == "" {
		input.Membership = model.Membership1Month
	}
	if !input.Membership.IsValid() {
		return nil, ErrInvalidMembership
	}

	user := &model.User{
		ID:           newID(),
		Email:        input.Email,
		Password:     input.Password,
		Username:     input.Username,
		Role:         model.RoleUser,
		IsActive:     input.IsActive,
		Membership:   input.Membership,
		SavedRecipes: []model.Recipe{},
	}
	if expiry, ok := s.repo.ExpiryDateFor(ctx, input.Membership); ok {
		user.ExpiryDate = &expiry
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		s.recordStoreError(err)
		return nil, err
	}
	s.metrics.IncUserCreated()
	s.logger.Info("user created", slog.String("user_id", user.ID))

	created := user.Snapshot()
	return &created, nil
}

// UpdateUser applies patch to the user. Changing membership recomputes the
// expiry date. The caller's own session is kept in sync.
func (s *AdminService) UpdateUser(ctx context.Context, id string, patch UserPatch) (*model.User, error) {
	if patch.Membership != nil && !patch.Membership.IsValid() {
		return nil, ErrInvalidMembership
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		patch.Email = &email
	}

	var expiry *int64
	if patch.Membership != nil {
		if ms, ok := s.repo.ExpiryDateFor(ctx, *patch.Membership); ok {
			expiry = &ms
		}
	}

	updated, err := s.repo.UpdateUser(ctx, id, func(u *model.User) error {
		if patch.Email != nil {
			u.Email = *patch.Email
		}
		if patch.Password != nil && *patch.Password != "" {
			u.Password = *patch.Password
		}
		if patch.Username != nil {
			u.Username = strings.TrimSpace(*patch.Username)
		}
		if patch.IsActive != nil {
			u.IsActive = *patch.IsActive
		}
		if patch.Membership != nil && *patch.Membership != u.Membership {
			u.Membership = *patch.Membership
			u.ExpiryDate = expiry
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrEmailExists):
			return nil, ErrEmailExists
		}
		s.recordStoreError(err)
		return nil, err
	}
	s.metrics.IncUserUpdated()

	if session := s.repo.CurrentSession(ctx); session != nil && session.ID == id {
		if err := s.repo.UpdateSession(ctx, updated); err != nil {
			s.recordStoreError(err)
			return nil, err
		}
	}

	snapshot := updated.Snapshot()
	return &snapshot, nil
}

// DeleteUser removes a member. Admin accounts cannot be deleted.
func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	user, ok := s.repo.FindUser(ctx, id)
	if !ok {
		return ErrUserNotFound
	}
	if user.IsAdmin() {
		return ErrAdminUndeletable
	}

	if err := s.repo.DeleteUser(ctx, id); err != nil {
		s.recordStoreError(err)
		return err
	}
	s.metrics.IncUserDeleted()
	s.logger.Info("user deleted", slog.String("user_id", id))
	return nil
}

// ListPlans returns the membership plans.
func (s *AdminService) ListPlans(ctx context.Context) []model.MembershipPlan {
	return s.repo.ListPlans(ctx)
}

// SavePlans replaces the membership plans.
func (s *AdminService) SavePlans(ctx context.Context, plans []model.MembershipPlan) error {
	if err := s.repo.SavePlans(ctx, plans); err != nil {
		s.recordStoreError(err)
		return err
	}
	return nil
}

// ExpiryPreview returns the expiry a membership bought now would get.
func (s *AdminService) ExpiryPreview(ctx context.Context, membership model.MembershipID) (int64, bool) {
	return s.repo.ExpiryDateFor(ctx, membership)
}

func (s *AdminService) recordStoreError(err error) {
	if errors.Is(err, repository.ErrStoreWrite) {
		s.metrics.IncStoreWriteFailure()
	}
}
