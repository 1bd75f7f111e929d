package auctioneer

import (
	"sort"

	"github.com/guildhall/auction/auctiontypes"
)

// bidKey is the composite tie-break key. Bids sharing a key form one priority
// group, which the resolver awards or ties atomically.
type bidKey struct {
	highPriority bool
	amount       int
	balance      int
}

func (k bidKey) less(other bidKey) bool {
	if k.highPriority != other.highPriority {
		return !k.highPriority
	}
	if k.amount != other.amount {
		return k.amount < other.amount
	}
	return k.balance < other.balance
}

type bidIdentity struct {
	bidder string
	id     int
}

// DetermineResults computes what the auction's outcome would be if it closed
// right now. It must not modify the auction: it is called repeatedly to
// preview standings, and again at accept time to detect drift.
//
// Bids are sorted descending by (raider-at-member-threshold, amount, current
// balance), deduplicated to the best bid per (bidder, id), then awarded group
// by group. A group that no longer fits in the remaining quantity becomes the
// tie and allocation stops; quantity left after all groups is rolled off.
func DetermineResults(auction *auctiontypes.RunningAuction, balances auctiontypes.Balances, memberThreshold int) auctiontypes.AuctionResults {
	key := func(bid auctiontypes.Bid) bidKey {
		return bidKey{
			highPriority: bid.Amount >= memberThreshold && bid.Rank == auctiontypes.RankRaider,
			amount:       bid.Amount,
			balance:      balances[bid.Bidder],
		}
	}

	sorted := make([]auctiontypes.Bid, len(auction.Bids))
	copy(sorted, auction.Bids)
	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := key(sorted[i]), key(sorted[j])
		if ki != kj {
			return kj.less(ki)
		}
		return sorted[i].Bidder < sorted[j].Bidder
	})

	live := make([]auctiontypes.Bid, 0, len(sorted))
	seen := map[bidIdentity]bool{}
	for _, bid := range sorted {
		identity := bidIdentity{bidder: bid.Bidder, id: bid.ID}
		if seen[identity] {
			continue
		}
		seen[identity] = true
		live = append(live, bid)
	}

	results := auctiontypes.AuctionResults{}
	need := auction.Item.Quantity

	for start := 0; start < len(live) && need > 0; {
		end := start + 1
		for end < len(live) && key(live[end]) == key(live[start]) {
			end++
		}

		group := live[start:end]
		if len(group) > need {
			// The whole group ties and rolls off for the remaining copies;
			// no partial awards within a group.
			results.Tied = append(results.Tied, group...)
			need = 0
			break
		}

		results.Winners = append(results.Winners, group...)
		need -= len(group)
		start = end
	}

	results.Rolled = need
	return results
}
