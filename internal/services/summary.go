package services

import (
	"sort"

	"rsvphub/internal/domain"
)

// includeInCategory is the single filter predicate behind both the counts
// and the listings, so the two can never disagree for the same snapshot.
//
// For the no-reply category there is a deliberate asymmetry inherited from
// the product: a guest whose invitation was never dispatched (emails_sent
// is zero) should not be chased, so they stay visible in the tally, while
// a guest who was notified and stays silent is excluded. The organizer is
// always visible. Preserve this rule as is.
func includeInCategory(g *domain.Guest, organizerID string, r domain.Reply) bool {
	if g.Reply != r {
		return false
	}
	if r == domain.ReplyNone {
		return g.EmailsSent == 0 || g.ID == organizerID
	}
	return true
}

// ListByReply returns the guests of one reply category ordered by name
// ascending (byte-wise). The sort is stable, so guests with equal names
// keep their insertion order from the repository.
func ListByReply(guests []*domain.Guest, organizerID string, r domain.Reply) []*domain.Guest {
	out := make([]*domain.Guest, 0)
	for _, g := range guests {
		if includeInCategory(g, organizerID, r) {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CountByReply computes the tally for one reply category. Yes and maybe
// sum heads over matching guests; no and no-reply count rows.
func CountByReply(guests []*domain.Guest, organizerID string, r domain.Reply) int {
	count := 0
	for _, g := range guests {
		if !includeInCategory(g, organizerID, r) {
			continue
		}
		if r.Attending() {
			count += g.Heads
		} else {
			count++
		}
	}
	return count
}

// BuildSummary groups one guest-set snapshot by reply category. Each
// group's count is derived from the same listing, so the count always
// equals the sum of heads (or row count) over the listed guests.
func BuildSummary(guests []*domain.Guest, organizerID string) *domain.ReplySummary {
	group := func(r domain.Reply) domain.ReplyGroup {
		listed := ListByReply(guests, organizerID, r)
		count := 0
		for _, g := range listed {
			if r.Attending() {
				count += g.Heads
			} else {
				count++
			}
		}
		return domain.ReplyGroup{Count: count, Guests: listed}
	}
	return &domain.ReplySummary{
		Yes:     group(domain.ReplyYes),
		Maybe:   group(domain.ReplyMaybe),
		No:      group(domain.ReplyNo),
		NoReply: group(domain.ReplyNone),
	}
}
