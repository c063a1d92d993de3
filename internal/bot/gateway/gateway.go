// Package gateway abstracts the chat platform operations the core consumes:
// listing a guild's invites and delivering messages. The services depend only
// on this interface, never on the platform client directly.
package gateway

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/doorkeeper/internal/bot/domain"
)

var (
	// ErrPermissionDenied reports that the platform refused the operation
	// (e.g. the bot lacks Manage Server for invite listing).
	ErrPermissionDenied = errors.New("gateway: permission denied")

	// ErrDeliveryClosed reports that the recipient is not accepting direct
	// messages, so nothing was delivered.
	ErrDeliveryClosed = errors.New("gateway: recipient not accepting direct messages")
)

// Message is the platform-neutral shape of an embed-style message.
type Message struct {
	Title       string
	Description string
}

type Gateway interface {
	// GuildInvites lists the guild's current invites in the order the
	// platform returns them. That order is load-bearing for attribution.
	GuildInvites(ctx context.Context, guildID string) ([]domain.Invite, error)

	// SendDirect delivers a message to the member's private channel.
	SendDirect(ctx context.Context, memberID string, msg Message) error

	// SendChannel posts a message to a guild channel, used for audit
	// notifications.
	SendChannel(ctx context.Context, channelID string, msg Message) error
}
