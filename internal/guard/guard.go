// Package guard decides whether a visitor may see a role-gated page.
package guard

import (
	"github.com/juntape/junta/internal/authstate"
	"github.com/juntape/junta/internal/domain"
)

// Redirect targets
const (
	PathUserSelect     = "/user-select"
	PathStudio         = "/studio"
	PathDonorDashboard = "/donor-dashboard"
)

// Outcome of a guard decision
type Outcome int

const (
	Allow Outcome = iota
	Placeholder
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Placeholder:
		return "placeholder"
	case Redirect:
		return "redirect"
	}
	return "unknown"
}

// Decision is the result of Decide; Location is set only for Redirect
type Decision struct {
	Outcome  Outcome
	Location string
}

// Decide applies the role gate. allowed == RoleNone means any signed-in user.
func Decide(st authstate.State, allowed domain.Role) Decision {
	if st.Loading {
		return Decision{Outcome: Placeholder}
	}
	if !st.HasUser() {
		return redirect(PathUserSelect)
	}
	if allowed != domain.RoleNone && st.Role != allowed {
		return redirect(HomeFor(st.Role))
	}
	return Decision{Outcome: Allow}
}

// HomeFor returns the landing page for a role
func HomeFor(role domain.Role) string {
	switch role {
	case domain.RolePromoter:
		return PathStudio
	case domain.RoleDonor:
		return PathDonorDashboard
	}
	return PathUserSelect
}

func redirect(to string) Decision {
	return Decision{Outcome: Redirect, Location: to}
}
