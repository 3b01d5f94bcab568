// Package domain contains core concepts of the presence hub.
// This file defines Server entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

// Server is one Discord guild known to the hub.
// The DiscordID (an 18+ digit snowflake kept as an opaque string) is the
// wire key; ID is the short slug the frontend uses for routing.
// All fields except Passworded are fixed for the process lifetime.
type Server struct {
	DiscordID  string
	ID         string
	Name       string
	Default    bool
	Passworded bool
}
