// Package gatewaytest provides an in-memory gateway double for service and
// command tests.
package gatewaytest

import (
	"context"
	"sync"

	"github.com/aussiebroadwan/doorkeeper/internal/bot/domain"
	"github.com/aussiebroadwan/doorkeeper/internal/bot/gateway"
)

// Delivery records one message handed to the fake gateway.
type Delivery struct {
	To      string // member id for directs, channel id for channel sends
	Message gateway.Message
}

// Fake implements gateway.Gateway against fixture data. Set the Err fields
// to force failures.
type Fake struct {
	mu sync.Mutex

	Invites    map[string][]domain.Invite // guild id -> live invites
	InvitesErr error

	DirectErr error
	Directs   []Delivery

	ChannelErr error
	Channels   []Delivery
}

func New() *Fake {
	return &Fake{Invites: make(map[string][]domain.Invite)}
}

func (f *Fake) GuildInvites(_ context.Context, guildID string) ([]domain.Invite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.InvitesErr != nil {
		return nil, f.InvitesErr
	}
	return append([]domain.Invite(nil), f.Invites[guildID]...), nil
}

func (f *Fake) SendDirect(_ context.Context, memberID string, msg gateway.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.DirectErr != nil {
		return f.DirectErr
	}
	f.Directs = append(f.Directs, Delivery{To: memberID, Message: msg})
	return nil
}

func (f *Fake) SendChannel(_ context.Context, channelID string, msg gateway.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ChannelErr != nil {
		return f.ChannelErr
	}
	f.Channels = append(f.Channels, Delivery{To: channelID, Message: msg})
	return nil
}
