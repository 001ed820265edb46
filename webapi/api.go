package webapi

import (
	"context"
)

// API defines the remote operations of the cuwo web API
type API interface {
	// Version returns the web API version; it does not require the shared key
	Version(ctx context.Context) (string, error)

	// Status returns the online players, the player limit and the world seed
	Status(ctx context.Context) (*Status, error)

	// Player looks up an online player, optionally with equipment and skills
	Player(ctx context.Context, name string, include Include) (*Player, error)

	// Kick disconnects an online player
	Kick(ctx context.Context, name string) (bool, error)

	// Time returns the in-game clock as HH:MM
	Time(ctx context.Context) (string, error)

	// SetTime sets the in-game clock; value must be HH:MM
	SetTime(ctx context.Context, value string) (bool, error)

	// Message sends a chat message to everyone, or to receiver when it is not empty
	Message(ctx context.Context, text, receiver string) (bool, error)
}

var _ API = (*Client)(nil)
