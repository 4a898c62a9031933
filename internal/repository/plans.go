package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nonnoweb/nonnoweb/internal/model"
)

// ListPlans returns the membership plans, falling back to the defaults when
// the collection is absent or unreadable.
func (r *Repository) ListPlans(ctx context.Context) []model.MembershipPlan {
	var plans []model.MembershipPlan
	found, err := r.read(ctx, KeyPlans, &plans)
	if err == nil && found {
		err = validatePlans(plans)
	}
	if err != nil {
		r.logger.Error("plans collection unreadable, falling back to defaults",
			slog.String("error", err.Error()),
		)
		return model.DefaultPlans()
	}
	if !found {
		return model.DefaultPlans()
	}
	return plans
}

// SavePlans overwrites the plans collection.
func (r *Repository) SavePlans(ctx context.Context, plans []model.MembershipPlan) error {
	if err := validatePlans(plans); err != nil {
		return err
	}
	if plans == nil {
		plans = []model.MembershipPlan{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.write(ctx, KeyPlans, plans)
}

func validatePlans(plans []model.MembershipPlan) error {
	for i := range plans {
		if err := plans[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ExpiryDateFor returns the expiry timestamp in epoch milliseconds for a
// membership bought now. ok is false for unknown or unlimited plans.
func (r *Repository) ExpiryDateFor(ctx context.Context, membership model.MembershipID) (int64, bool) {
	plan, found := model.FindPlan(r.ListPlans(ctx), membership)
	if !found || plan.IsUnlimited() {
		return 0, false
	}
	return r.now().UnixMilli() + int64(plan.DurationDays)*dayMillis, true
}

// PlanFor returns the plan backing membership.
func (r *Repository) PlanFor(ctx context.Context, membership model.MembershipID) (model.MembershipPlan, error) {
	plan, found := model.FindPlan(r.ListPlans(ctx), membership)
	if !found {
		return model.MembershipPlan{}, fmt.Errorf("%w: %q", ErrPlanNotFound, membership)
	}
	return plan, nil
}
