package domain

import (
	"time"

	"github.com/aussiebroadwan/doorkeeper/pkg/idx"
)

// Claim records one successful exchange of a credit for a pooled account.
type Claim struct {
	ID        idx.ID
	GuildID   string
	MemberID  string
	Account   string
	Remaining int // accounts left in the pool after this claim
	ClaimedAt time.Time
}
