package domain

// ReplyGroup is one category of a reply summary. For yes and maybe the
// count is the sum of heads over the listed guests (a household replying
// yes with 4 heads is 4 attendees, not 1 row); for no and no-reply it is
// the number of rows.
type ReplyGroup struct {
	Count  int      `json:"count"`
	Guests []*Guest `json:"guests"`
}

// ReplySummary groups an event's guests by reply category. It is always
// computed fresh from the current guest set, never cached: replies arrive
// at unpredictable times from independent actors.
type ReplySummary struct {
	Yes     ReplyGroup `json:"yes"`
	Maybe   ReplyGroup `json:"maybe"`
	No      ReplyGroup `json:"no"`
	NoReply ReplyGroup `json:"no_reply"`
}
