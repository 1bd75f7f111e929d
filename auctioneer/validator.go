package auctioneer

import (
	"fmt"

	"github.com/guildhall/auction/auctiontypes"
)

// ValidateBid applies the bid rules in order, short-circuiting on the first
// failure. On rejection it returns false and a user-facing reason.
//
// An "all-in" bid (the bidder's entire balance) is exempt from the
// increments-of-5 rule, as is any bid matching an amount already on the
// board, so that others can match someone's all-in.
func ValidateBid(bidder string, amount int, auction *auctiontypes.RunningAuction, balances auctiontypes.Balances, limits auctiontypes.Limits) (bool, string) {
	balance := balances[bidder]

	switch {
	case amount > limits.Maximum:
		return false, fmt.Sprintf("Error: Invalid Bid (bids above %d are not allowed).", limits.Maximum)
	case amount < limits.Minimum:
		return false, fmt.Sprintf("Error: Invalid bid (bids below %d are not allowed).", limits.Minimum)
	case amount == balance:
	case auction.HasBidAmount(amount):
	case amount >= limits.Valuable && amount%5 != 0:
		return false, fmt.Sprintf("Error: Invalid Bid (bids above %d must be in increments of 5).", limits.Valuable)
	}

	if amount > balance {
		return false, "Error: Invalid Bid (not enough dkp)."
	}

	return true, ""
}
