package models

// UnlimitedSermons marks a plan with no monthly sermon cap.
const UnlimitedSermons = -1

const (
	PlanStarter   = "starter"
	PlanPro       = "pro"
	PlanUnlimited = "unlimited"

	// Trial parameters
	TrialDays               = 14
	DefaultTrialSermonLimit = 3
)

// Plan is a catalog entry. Prices live in Stripe; the catalog only carries
// what the backend needs to enforce limits and label responses.
type Plan struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SermonLimit  int    `json:"sermon_limit"`
	PriceCents   int64  `json:"price_cents"`
	Description  string `json:"description"`
}

var Plans = []Plan{
	{
		ID:          PlanStarter,
		Name:        "Starter",
		SermonLimit: 5,
		PriceCents:  1900,
		Description: "5 sermons per month with all content types",
	},
	{
		ID:          PlanPro,
		Name:        "Pro",
		SermonLimit: 15,
		PriceCents:  4900,
		Description: "15 sermons per month with all content types",
	},
	{
		ID:          PlanUnlimited,
		Name:        "Unlimited",
		SermonLimit: UnlimitedSermons,
		PriceCents:  9900,
		Description: "Unlimited sermons for large churches and networks",
	},
}

// PlanByID looks up a plan in the catalog.
func PlanByID(id string) (Plan, bool) {
	for _, p := range Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
