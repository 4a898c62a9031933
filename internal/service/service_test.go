package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nonnoweb/nonnoweb/internal/auth"
	"github.com/nonnoweb/nonnoweb/internal/kv"
	"github.com/nonnoweb/nonnoweb/internal/metrics"
	"github.com/nonnoweb/nonnoweb/internal/model"
	"github.com/nonnoweb/nonnoweb/internal/repository"
	"github.com/nonnoweb/nonnoweb/internal/testutil"
)

// fakeGenerator returns a fixed recipe or error and counts calls.
type fakeGenerator struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (g *fakeGenerator) Generate(ctx context.Context, req model.RecipeRequest) (*model.Recipe, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &model.Recipe{
		Name:            "Risotto della Nonna",
		Description:     "Cremoso.",
		Ingredients:     req.AllIngredients(),
		Steps:           []string{"Tosta il riso.", "Sfuma.", "Manteca."},
		WinePairing:     "Soave Classico",
		Tip:             "Mescola con pazienza.",
		PrepTimeMinutes: 35,
	}, nil
}

func (g *fakeGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	repo    *repository.Repository
	kitchen *KitchenService
	admin   *AdminService
	gen     *fakeGenerator
	metrics *metrics.InMemoryRecorder
	clock   *testutil.Clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := testutil.NewClock(testNow)
	logger := testutil.DiscardLogger()

	repo, err := repository.New(kv.NewMemory(),
		repository.WithLogger(logger),
		repository.WithClock(clock.Now),
		repository.WithHashParams(auth.TestParams),
	)
	require.NoError(t, err)
	require.NoError(t, repo.Bootstrap(context.Background()))

	gen := &fakeGenerator{}
	rec := metrics.NewInMemory()
	return &fixture{
		repo:    repo,
		kitchen: NewKitchenService(repo, gen, rec, WithLogger(logger), WithClock(clock.Now)),
		admin:   NewAdminService(repo, rec, WithLogger(logger)),
		gen:     gen,
		metrics: rec,
		clock:   clock,
	}
}

func clientCtx(id string) context.Context {
	return auth.ContextWithClient(context.Background(), id)
}

// addMember creates an active member and logs it in on ctx.
func (f *fixture) addMember(t *testing.T, ctx context.Context, email string, membership model.MembershipID) *model.User {
	t.Helper()
	user, err := f.admin.AddUser(context.Background(), NewUserInput{
		Email:      email,
		Password:   "secret",
		Username:   "Nipote",
		Membership: membership,
		IsActive:   true,
	})
	require.NoError(t, err)

	result, err := f.kitchen.Login(ctx, email, "secret")
	require.NoError(t, err)
	require.True(t, result.OK())
	return user
}

func (f *fixture) loginAdmin(t *testing.T, ctx context.Context) {
	t.Helper()
	result, err := f.kitchen.Login(ctx, repository.BootstrapAdminEmail, repository.BootstrapAdminPassword)
	require.NoError(t, err)
	require.True(t, result.OK())
}

var errUpstream = errors.New("upstream exploded")
