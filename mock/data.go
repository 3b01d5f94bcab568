// Package mock holds the built-in dataset the hub serves when no external
// data provider is registered: four Discord-like servers with fixed member
// rosters, plus the phrase pool the chat simulation draws from.
//
// Development and demo use only; production deployments register real
// providers through the hooks registry.
package mock

import "d-hub/domain"

// DefaultChannel is the channel id attached to every simulated message.
const DefaultChannel = "527964146659229701"

// Phrases is the pool simulated chat lines are drawn from.
var Phrases = []string{
	"hello",
	"how are you?",
	"this is a test message",
	"D-Zone rocks!",
	"what's up?",
}

// Servers returns the built-in server set, keyed by Discord server id.
// Exactly one entry is the default server.
func Servers() map[string]domain.Server {
	return map[string]domain.Server{
		"232769614004748288": {
			DiscordID: "232769614004748288",
			ID:        "dworld",
			Name:      "D-World",
			Default:   true,
		},
		"482241773318701056": {
			DiscordID: "482241773318701056",
			ID:        "docs",
			Name:      "Docs (WIP)",
		},
		"123456789012345678": {
			DiscordID:  "123456789012345678",
			ID:         "oauth",
			Name:       "OAuth2 Protected Server",
			Passworded: true,
		},
		"987654321098765432": {
			DiscordID: "987654321098765432",
			ID:        "repos",
			Name:      "My Repos",
		},
	}
}

// Members returns the built-in roster for one server, keyed by member uid.
// Unknown server ids yield an empty map.
func Members(discordServerID string) map[string]domain.Member {
	switch discordServerID {
	case "232769614004748288":
		return membersByUID(
			domain.Member{UID: "123456789012345001", Username: "vegeta897", Status: domain.PresenceOnline, RoleColor: "#ff6b6b"},
			domain.Member{UID: "123456789012345002", Username: "Cog-Creators", Status: domain.PresenceIdle, RoleColor: "#4ecdc4"},
			domain.Member{UID: "123456789012345003", Username: "d-zone-org", Status: domain.PresenceDND, RoleColor: "#45b7d1"},
			domain.Member{UID: "123456789012345004", Username: "NNTin", Status: domain.PresenceOnline, RoleColor: "#96ceb4"},
		)
	case "482241773318701056":
		return membersByUID(
			domain.Member{UID: "223456789012345001", Username: "nntin.xyz/me", Status: domain.PresenceOnline, RoleColor: "#feca57"},
		)
	case "123456789012345678":
		return membersByUID(
			domain.Member{UID: "323456789012345001", Username: "NNTin", Status: domain.PresenceOnline, RoleColor: "#ff9ff3"},
		)
	case "987654321098765432":
		return membersByUID(
			domain.Member{UID: "423456789012345001", Username: "me", Status: domain.PresenceOnline, RoleColor: "#54a0ff"},
			domain.Member{UID: "423456789012345002", Username: "nntin.github.io", Status: domain.PresenceIdle, RoleColor: "#5f27cd"},
			domain.Member{UID: "423456789012345003", Username: "d-zone", Status: domain.PresenceOnline, RoleColor: "#00d2d3"},
			domain.Member{UID: "423456789012345004", Username: "d-back", Status: domain.PresenceDND, RoleColor: "#ff6348"},
			domain.Member{UID: "423456789012345005", Username: "d-cogs", Status: domain.PresenceOnline, RoleColor: "#ff4757"},
			domain.Member{UID: "423456789012345006", Username: "Cubify-Reddit", Status: domain.PresenceOffline, RoleColor: "#3742fa"},
			domain.Member{UID: "423456789012345007", Username: "Dota-2-Emoticons", Status: domain.PresenceIdle, RoleColor: "#2ed573"},
			domain.Member{UID: "423456789012345008", Username: "Dota-2-Reddit-Flair-Mosaic", Status: domain.PresenceOnline, RoleColor: "#ffa502"},
			domain.Member{UID: "423456789012345009", Username: "Red-kun", Status: domain.PresenceDND, RoleColor: "#ff3838"},
			domain.Member{UID: "423456789012345010", Username: "Reply-Dota-2-Reddit", Status: domain.PresenceOnline, RoleColor: "#ff9f43"},
			domain.Member{UID: "423456789012345011", Username: "Reply-LoL-Reddit", Status: domain.PresenceIdle, RoleColor: "#0abde3"},
			domain.Member{UID: "423456789012345012", Username: "crosku", Status: domain.PresenceOnline, RoleColor: "#006ba6"},
			domain.Member{UID: "423456789012345013", Username: "dev-tracker-reddit", Status: domain.PresenceOffline, RoleColor: "#8e44ad"},
			domain.Member{UID: "423456789012345014", Username: "discord-logo", Status: domain.PresenceOnline, RoleColor: "#7289da"},
			domain.Member{UID: "423456789012345015", Username: "discord-twitter-bot", Status: domain.PresenceIdle, RoleColor: "#1da1f2"},
			domain.Member{UID: "423456789012345016", Username: "discord-web-bridge", Status: domain.PresenceDND, RoleColor: "#2c2f33"},
			domain.Member{UID: "423456789012345017", Username: "pasteindex", Status: domain.PresenceOnline, RoleColor: "#f39c12"},
			domain.Member{UID: "423456789012345018", Username: "pasteview", Status: domain.PresenceIdle, RoleColor: "#e74c3c"},
			domain.Member{UID: "423456789012345019", Username: "shell-kun", Status: domain.PresenceOnline, RoleColor: "#1abc9c"},
			domain.Member{UID: "423456789012345020", Username: "tracker-reddit-discord", Status: domain.PresenceOffline, RoleColor: "#9b59b6"},
			domain.Member{UID: "423456789012345021", Username: "twitter-backend", Status: domain.PresenceOnline, RoleColor: "#1da1f2"},
		)
	}
	return map[string]domain.Member{}
}

func membersByUID(members ...domain.Member) map[string]domain.Member {
	out := make(map[string]domain.Member, len(members))
	for _, m := range members {
		out[m.UID] = m
	}
	return out
}
