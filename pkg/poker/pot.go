package poker

import (
	"sort"
)

// Pot is an accumulated amount plus the seats eligible to win it.
type Pot struct {
	Size     int64
	Eligible []string
}

// eligibleFor reports whether the named seat can win this pot.
func (p Pot) eligibleFor(name string) bool {
	for _, n := range p.Eligible {
		if n == name {
			return true
		}
	}
	return false
}

// BuildPots partitions the seats' total hand contributions into a main
// pot and side pots with correct eligibility. It is a pure function of
// the contributions and is recomputed from scratch after every money
// event rather than patched incrementally: the result only depends on
// the inputs, so calling it twice in a row yields identical pot lists.
//
// Eligibility is by contribution level only; folded seats are filtered
// at settlement, not here. Invariant: the pot sizes always sum to the
// seats' total contributions.
func BuildPots(seats []*Seat) []Pot {
	contributors := make([]*Seat, 0, len(seats))
	anyAllIn := false
	var total int64
	for _, s := range seats {
		if s.handContribution == 0 {
			continue
		}
		contributors = append(contributors, s)
		total += s.handContribution
		if s.stack == 0 {
			anyAllIn = true
		}
	}

	if len(contributors) == 0 {
		return []Pot{{}}
	}

	// Without an all-in there is a single pot; no tiering needed.
	if !anyAllIn {
		pot := Pot{Size: total}
		for _, s := range contributors {
			pot.Eligible = append(pot.Eligible, s.name)
		}
		return []Pot{pot}
	}

	// Side-pot case: walk the contributors in ascending contribution
	// order. Each seat first matches every tier settled so far (a pot
	// with N equal contributors of size/N each gains one more equal
	// share), then opens a new tier for the portion above the last
	// level.
	sort.SliceStable(contributors, func(i, j int) bool {
		return contributors[i].handContribution < contributors[j].handContribution
	})

	pots := make([]Pot, 0, len(contributors))
	var lastLevel int64
	for _, s := range contributors {
		for i := range pots {
			pots[i].Size += pots[i].Size / int64(len(pots[i].Eligible))
			pots[i].Eligible = append(pots[i].Eligible, s.name)
		}
		if s.handContribution != lastLevel {
			pots = append(pots, Pot{
				Size:     s.handContribution - lastLevel,
				Eligible: []string{s.name},
			})
			lastLevel = s.handContribution
		}
	}

	return pots
}

// potTotal sums the sizes of all pots.
func potTotal(pots []Pot) int64 {
	var total int64
	for _, p := range pots {
		total += p.Size
	}
	return total
}
