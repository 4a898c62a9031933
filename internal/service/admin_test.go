package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonnoweb/nonnoweb/internal/auth"
	"github.com/nonnoweb/nonnoweb/internal/model"
	"github.com/nonnoweb/nonnoweb/internal/repository"
)

func TestAddUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := clientCtx("admin")

	user, err := f.admin.AddUser(ctx, NewUserInput{
		Email:      " mario@example.it ",
		Password:   "secret",
		Username:   "Mario",
		Membership: model.Membership1Month,
		IsActive:   true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "mario@example.it", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.Empty(t, user.Password)
	require.NotNil(t, user.ExpiryDate)
	assert.Equal(t, testNow.UnixMilli()+30*86_400_000, *user.ExpiryDate)

	stored, ok := f.repo.FindUser(ctx, user.ID)
	require.True(t, ok)
	assert.True(t, auth.IsHash(stored.Password))

	_, err = f.admin.AddUser(ctx, NewUserInput{Email: "MARIO@example.it", Password: "x", Username: "y"})
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = f.admin.AddUser(ctx, NewUserInput{Email: "a@b.it", Username: "y"})
	assert.ErrorIs(t, err, ErrInvalidUserInput)

	_, err = f.admin.AddUser(ctx, NewUserInput{Email: "a@b.it", Password: "x", Username: "y", Membership: "forever"})
	assert.ErrorIs(t, err, ErrInvalidMembership)

	_, err = f.admin.AddUser(ctx, NewUserInput{Email: "not-an-email", Password: "x", Username: "y"})
	assert.ErrorIs(t, err, model.ErrInvalidRecord)

	lifetime, err := f.admin.AddUser(ctx, NewUserInput{
		Email: "leggenda@example.it", Password: "x", Username: "L", Membership: model.MembershipLifetime, IsActive: true,
	})
	require.NoError(t, err)
	assert.Nil(t, lifetime.ExpiryDate)

	assert.Equal(t, uint64(2), f.metrics.Snapshot().UsersCreated)
}

func TestListUsers_Search(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := clientCtx("admin")

	_, err := f.admin.AddUser(ctx, NewUserInput{Email: "mario@example.it", Password: "x", Username: "Mario Rossi", IsActive: true})
	require.NoError(t, err)

	assert.Len(t, f.admin.ListUsers(ctx, ""), 2)
	assert.Len(t, f.admin.ListUsers(ctx, "ROSSI"), 1)
	assert.Len(t, f.admin.ListUsers(ctx, "nonnoweb"), 1)
	assert.Empty(t, f.admin.ListUsers(ctx, "zzz"))

	for _, u := range f.admin.ListUsers(ctx, "") {
		assert.Empty(t, u.Password)
	}
}

func TestUpdateUser_MembershipRecomputesExpiry(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := clientCtx("admin")

	user, err := f.admin.AddUser(ctx, NewUserInput{Email: "mario@example.it", Password: "x", Username: "Mario", Membership: model.Membership7Days, IsActive: true})
	require.NoError(t, err)

	year := model.Membership1Year
	updated, err := f.admin.UpdateUser(ctx, user.ID, UserPatch{Membership: &year})
	require.NoError(t, err)
	assert.Equal(t, year, updated.Membership)
	require.NotNil(t, updated.ExpiryDate)
	assert.Equal(t, testNow.UnixMilli()+365*86_400_000, *updated.ExpiryDate)

	lifetime := model.MembershipLifetime
	updated, err = f.admin.UpdateUser(ctx, user.ID, UserPatch{Membership: &lifetime})
	require.NoError(t, err)
	assert.Nil(t, updated.ExpiryDate)

	bogus := model.MembershipID("forever")
	_, err = f.admin.UpdateUser(ctx, user.ID, UserPatch{Membership: &bogus})
	assert.ErrorIs(t, err, ErrInvalidMembership)
}

func TestUpdateUser_Fields(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := clientCtx("admin")

	user, err := f.admin.AddUser(ctx, NewUserInput{Email: "mario@example.it", Password: "old", Username: "Mario", IsActive: true})
	require.NoError(t, err)

	name, password := "Super Mario", "new"
	_, err = f.admin.UpdateUser(ctx, user.ID, UserPatch{Username: &name, Password: &password})
	require.NoError(t, err)

	result, err := f.kitchen.Login(clientCtx("c2"), "mario@example.it", "new")
	require.NoError(t, err)
	require.True(t, result.OK())
	assert.Equal(t, "Super Mario", result.User.Username)

	taken := "ADMIN@nonnoweb.it"
	_, err = f.admin.UpdateUser(ctx, user.ID, UserPatch{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = f.admin.UpdateUser(ctx, "missing", UserPatch{Username: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser_ConcurrentEmailClaims(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := clientCtx("admin")

	var ids []string
	for _, email := range []string{"mario@example.it", "luigi@example.it"} {
		user, err := f.admin.AddUser(ctx, NewUserInput{Email: email, Password: "x", Username: "U", IsActive: true})
		require.NoError(t, err)
		ids = append(ids, user.ID)
	}

	target := "peach@example.it"
	errs := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.admin.UpdateUser(clientCtx("admin"), id, UserPatch{Email: &target})
		}(i, id)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrEmailExists)
		}
	}
	assert.Equal(t, 1, succeeded)

	holders := 0
	for _, u := range f.repo.ListUsers(ctx) {
		if u.EmailMatches(target) {
			holders++
		}
	}
	assert.Equal(t, 1, holders)
}

func TestUpdateUser_SyncsOwnSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := clientCtx("admin")
	f.loginAdmin(t, ctx)

	name := "Nonno Capo"
	_, err := f.admin.UpdateUser(ctx, repository.BootstrapAdminID, UserPatch{Username: &name})
	require.NoError(t, err)

	session := f.repo.CurrentSession(ctx)
	require.NotNil(t, session)
	assert.Equal(t, "Nonno Capo", session.Username)
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := clientCtx("admin")

	assert.ErrorIs(t, f.admin.DeleteUser(ctx, repository.BootstrapAdminID), ErrAdminUndeletable)
	assert.ErrorIs(t, f.admin.DeleteUser(ctx, "missing"), ErrUserNotFound)

	user, err := f.admin.AddUser(ctx, NewUserInput{Email: "mario@example.it", Password: "x", Username: "Mario"})
	require.NoError(t, err)
	require.NoError(t, f.admin.DeleteUser(ctx, user.ID))
	assert.Len(t, f.admin.ListUsers(ctx, ""), 1)
}

func TestPlansAndExpiryPreview(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := clientCtx("admin")

	assert.Equal(t, model.DefaultPlans(), f.admin.ListPlans(ctx))

	ms, ok := f.admin.ExpiryPreview(ctx, model.Membership7Days)
	require.True(t, ok)
	assert.Equal(t, testNow.UnixMilli()+7*86_400_000, ms)

	_, ok = f.admin.ExpiryPreview(ctx, model.MembershipLifetime)
	assert.False(t, ok)

	plans := model.DefaultPlans()
	plans[0].DurationDays = 14
	require.NoError(t, f.admin.SavePlans(ctx, plans))
	ms, ok = f.admin.ExpiryPreview(ctx, model.Membership7Days)
	require.True(t, ok)
	assert.Equal(t, testNow.UnixMilli()+14*86_400_000, ms)
}
