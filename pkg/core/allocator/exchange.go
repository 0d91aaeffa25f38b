package allocator

import "github.com/jakechorley/kitchen-rota/pkg/core/model"

// Exchange moves userID's duty on from over to the matching duty on to.
// If userID cooks for from, the two cook slots are swapped; independently, if
// userID washes for from, the two washer slots are swapped. Both checks read
// the meals as passed in. Eligibility rules are deliberately not consulted:
// this is the manual override path.
//
// Exchange is its own inverse: Exchange(to', from', userID) restores the
// original meals.
func Exchange(from, to model.Meal, userID string) (model.Meal, model.Meal, bool) {
	if userID == "" {
		return from, to, false
	}

	swapCook := from.CookID == userID
	swapWasher := from.WasherID == userID

	if swapCook {
		from.CookID, to.CookID = to.CookID, from.CookID
	}
	if swapWasher {
		from.WasherID, to.WasherID = to.WasherID, from.WasherID
	}

	return from, to, swapCook || swapWasher
}
