package model

import "fmt"

// MembershipID identifies a membership tier.
type MembershipID string

// Membership tiers.
const (
	MembershipNone     MembershipID = "none"
	Membership7Days    MembershipID = "7days"
	Membership1Month   MembershipID = "1month"
	Membership1Year    MembershipID = "1year"
	MembershipLifetime MembershipID = "lifetime"
)

// ValidMemberships contains all membership values a user may hold.
var ValidMemberships = []MembershipID{
	MembershipNone,
	Membership7Days,
	Membership1Month,
	Membership1Year,
	MembershipLifetime,
}

// IsValid reports whether m is a known tier.
func (m MembershipID) IsValid() bool {
	for _, v := range ValidMemberships {
		if m == v {
			return true
		}
	}
	return false
}

// MembershipPlan is a pricing and entitlement tier definition.
type MembershipPlan struct {
	ID               MembershipID `json:"id" validate:"membership,ne=none"`
	Name             string       `json:"name" validate:"required"`
	Price            string       `json:"price"`
	DurationDays     int          `json:"durationDays" validate:"min=0"`
	DailyRecipeLimit int          `json:"dailyRecipeLimit" validate:"min=0"`
	Features         []string     `json:"features"`
	PaymentLink      string       `json:"paymentLink"`
	IsPopular        bool         `json:"isPopular,omitempty"`
}

// IsUnlimited reports whether the plan never expires.
func (p *MembershipPlan) IsUnlimited() bool {
	return p.DurationDays == 0
}

// Validate checks the plan against its schema.
func (p *MembershipPlan) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: plan %q: %v", ErrInvalidRecord, p.ID, err)
	}
	return nil
}

// FindPlan returns the plan with the given id.
func FindPlan(plans []MembershipPlan, id MembershipID) (MembershipPlan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return MembershipPlan{}, false
}

// DefaultPlans returns the tiers seeded on first start.
func DefaultPlans() []MembershipPlan {
	return []MembershipPlan{
		{
			ID:               Membership7Days,
			Name:             "Assaggio",
			Price:            "2€",
			DurationDays:     7,
			DailyRecipeLimit: 5,
			Features:         []string{"Ricette illimitate", "Salvataggio PDF", "Consigli del Nonno"},
			PaymentLink:      "#",
		},
		{
			ID:               Membership1Month,
			Name:             "Socio",
			Price:            "5€",
			DurationDays:     30,
			DailyRecipeLimit: 20,
			Features:         []string{"Tutto in Assaggio", "Supporto prioritario", "Accesso anteprime"},
			PaymentLink:      "#",
			IsPopular:        true,
		},
		{
			ID:               Membership1Year,
			Name:             "Famiglia",
			Price:            "40€",
			DurationDays:     365,
			DailyRecipeLimit: 100,
			Features:         []string{"Tutto in Socio", "Sconto del 30%", "Ricettario stampabile"},
			PaymentLink:      "#",
		},
		{
			ID:               MembershipLifetime,
			Name:             "Leggenda",
			Price:            "99€",
			DurationDays:     0,
			DailyRecipeLimit: 999,
			Features:         []string{"Accesso a vita", "Certificato di Sostenitore", "Nessun rinnovo"},
			PaymentLink:      "#",
		},
	}
}
