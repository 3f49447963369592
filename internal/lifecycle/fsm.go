package lifecycle

import "github.com/erazemk/najdeno/internal/model"

// Both entities are small acyclic state machines. Items: pending is the only
// non-terminal source; claimed and rejected are terminal. Claims: pending is
// the only non-terminal status. Self-transitions are not edges.

var itemTransitions = map[model.ItemStatus]map[model.ItemStatus]struct{}{
	model.ItemStatusPending: {
		model.ItemStatusApproved: {},
		model.ItemStatusRejected: {},
	},
	model.ItemStatusApproved: {
		model.ItemStatusClaimed: {},
	},
	model.ItemStatusClaimed:  {},
	model.ItemStatusRejected: {},
}

var claimTransitions = map[model.ClaimStatus]map[model.ClaimStatus]struct{}{
	model.ClaimStatusPending: {
		model.ClaimStatusApproved: {},
		model.ClaimStatusRejected: {},
	},
	model.ClaimStatusApproved: {},
	model.ClaimStatusRejected: {},
}

// CanTransitionItem reports whether an item may move from one status to
// another.
func CanTransitionItem(from, to model.ItemStatus) bool {
	allowed, ok := itemTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// CanTransitionClaim reports whether a claim may move from one status to
// another.
func CanTransitionClaim(from, to model.ClaimStatus) bool {
	allowed, ok := claimTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}
