package domain

// Invite is a shareable join token created within a guild, together with its
// last observed use counter. The counter is monotonically non-decreasing for
// as long as the invite exists.
type Invite struct {
	Code      string
	GuildID   string
	InviterID string
	Uses      int
}
