package domain

// Reply is a guest's RSVP state. The zero value means the guest has not
// replied (or has explicitly withdrawn a reply), which is distinct from
// declining: a ReplyNo guest is counted in the "No" tally, an unreplied
// guest in "no reply".
type Reply string

const (
	ReplyNone  Reply = ""
	ReplyYes   Reply = "Y"
	ReplyMaybe Reply = "M"
	ReplyNo    Reply = "N"
)

// Valid reports whether r is an acceptable submitted reply. ReplyNone is
// not submittable; withdrawing a reply is a separate operation.
func (r Reply) Valid() bool {
	return r == ReplyYes || r == ReplyMaybe || r == ReplyNo
}

// Attending reports whether the reply contributes attendees (yes or maybe).
func (r Reply) Attending() bool {
	return r == ReplyYes || r == ReplyMaybe
}

// Headcount bounds for a single guest row (the responder plus companions).
const (
	MinHeads = 1
	MaxHeads = 50
)

// ReplySubmission is the field group that moves together on every reply:
// the triple is persisted in a single update, never field by field.
type ReplySubmission struct {
	Reply    Reply  `json:"reply"`
	Heads    int    `json:"heads"`
	Comments string `json:"comments"`
}

// Normalize applies the headcount rules in order: a "No" reply carries no
// heads, anything else is clamped to [MinHeads, MaxHeads].
func (s *ReplySubmission) Normalize() {
	switch {
	case s.Reply == ReplyNo:
		s.Heads = 0
	case s.Heads < MinHeads:
		s.Heads = MinHeads
	case s.Heads > MaxHeads:
		s.Heads = MaxHeads
	}
}
