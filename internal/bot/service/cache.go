package service

import "sync"

// InviteCache is the process-memory snapshot of invite use counts, keyed by
// guild and invite code. It is populated on connect and guild join, updated
// when invites are created or attributed, and never evicted. A restart loses
// it; the snapshot is rebuilt from the platform, which can miss attribution
// for joins that land before the rebuild.
type InviteCache struct {
	mu     sync.RWMutex
	guilds map[string]map[string]int
}

func NewInviteCache() *InviteCache {
	return &InviteCache{guilds: make(map[string]map[string]int)}
}

// Replace overwrites the guild's snapshot with the given counts.
func (c *InviteCache) Replace(guildID string, counts map[string]int) {
	snapshot := make(map[string]int, len(counts))
	for code, uses := range counts {
		snapshot[code] = uses
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.guilds[guildID] = snapshot
}

// SetUses records the observed use count for a single invite code.
func (c *InviteCache) SetUses(guildID, code string, uses int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	guild, ok := c.guilds[guildID]
	if !ok {
		guild = make(map[string]int)
		c.guilds[guildID] = guild
	}
	guild[code] = uses
}

// Uses returns the last observed count for the code. An absent guild or code
// reads as 0, which the diff logic relies on.
func (c *InviteCache) Uses(guildID, code string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.guilds[guildID][code]
}

// Snapshot returns a copy of the guild's cached counts.
func (c *InviteCache) Snapshot(guildID string) map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]int, len(c.guilds[guildID]))
	for code, uses := range c.guilds[guildID] {
		out[code] = uses
	}
	return out
}
