package domain

// Ledger maps guild id -> member id -> credit balance. It is the in-memory
// form of the persisted invites document. Balances never go negative.
type Ledger map[string]map[string]int

// Balance returns the member's balance, reading absent entries as 0.
func (l Ledger) Balance(guildID, memberID string) int {
	return l[guildID][memberID]
}

// Ensure lazily creates the guild and member entries with a zero balance.
// It reports whether anything was created, so callers know the ledger needs
// persisting.
func (l Ledger) Ensure(guildID, memberID string) bool {
	guild, ok := l[guildID]
	if !ok {
		guild = make(map[string]int)
		l[guildID] = guild
	}

	if _, ok := guild[memberID]; ok {
		return false
	}

	guild[memberID] = 0
	return true
}

// Apply adjusts the member's balance by delta, creating entries as needed.
// It returns the new balance.
func (l Ledger) Apply(guildID, memberID string, delta int) int {
	l.Ensure(guildID, memberID)
	l[guildID][memberID] += delta
	return l[guildID][memberID]
}
