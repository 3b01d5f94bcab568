// Package roster owns the authoritative in-memory model of servers and
// their member rosters. It is the single mutation point for member state;
// simulation workers and the protocol dispatcher both go through it.
//
// Locking is sharded per server: two loops mutating different servers
// never serialize each other. The shard map itself is built once at
// construction and never changes afterwards, so lookups are lock-free.
package roster

import (
	"sync"

	"d-hub/domain"
	"d-hub/domain/event"
	"d-hub/errors"

	"github.com/samber/lo"
)

// fallbackRoleColor is Discord's default role gray, used when a member is
// inserted without an explicit color.
const fallbackRoleColor = "#99aab5"

type shard struct {
	mu      sync.RWMutex
	server  domain.Server
	members map[string]domain.Member
}

// Registry holds every known server and roster. Safe for concurrent use.
type Registry struct {
	shards map[string]*shard
}

// Seed supplies the initial state: the server set and a roster lookup per
// Discord server id. mock.Servers/mock.Members satisfy it by default.
type Seed struct {
	Servers func() map[string]domain.Server
	Members func(discordServerID string) map[string]domain.Member
}

// New builds a registry from a seed snapshot. The server set is fixed for
// the registry's lifetime; only member state and the Passworded flag
// mutate afterwards.
func New(seed Seed) *Registry {
	shards := make(map[string]*shard)
	for id, srv := range seed.Servers() {
		members := map[string]domain.Member{}
		if seed.Members != nil {
			members = lo.Assign(seed.Members(id))
		}
		shards[id] = &shard{server: srv, members: members}
	}
	return &Registry{shards: shards}
}

// Servers returns a point-in-time copy of every known server.
func (r *Registry) Servers() map[string]domain.Server {
	out := make(map[string]domain.Server, len(r.shards))
	for id, sh := range r.shards {
		sh.mu.RLock()
		out[id] = sh.server
		sh.mu.RUnlock()
	}
	return out
}

// Server returns one server by Discord id.
func (r *Registry) Server(discordServerID string) (domain.Server, bool) {
	sh, ok := r.shards[discordServerID]
	if !ok {
		return domain.Server{}, false
	}
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return sh.server, true
}

// Members returns a copy of one server's roster. Unknown server ids yield
// an empty map, not an error: a roster query is never a protocol fault.
func (r *Registry) Members(discordServerID string) map[string]domain.Member {
	sh, ok := r.shards[discordServerID]
	if !ok {
		return map[string]domain.Member{}
	}
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return lo.Assign(sh.members)
}

// MemberUIDs returns the uids currently on a server's roster.
func (r *Registry) MemberUIDs(discordServerID string) []string {
	sh, ok := r.shards[discordServerID]
	if !ok {
		return nil
	}
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return lo.Keys(sh.members)
}

// SetPassworded flips the only mutable server field.
func (r *Registry) SetPassworded(discordServerID string, passworded bool) error {
	sh, ok := r.shards[discordServerID]
	if !ok {
		return errors.ErrServerNotFound
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.server.Passworded = passworded
	return nil
}

// ApplyPresence records a presence transition and returns the event to
// broadcast. Rules:
//   - unknown server: ErrServerNotFound, state untouched (a stray timer
//     tick must never escalate out of a simulation loop);
//   - offline and removed imply each other: an offline transition always
//     evicts the member and the emitted event carries Removed=true;
//   - an unknown member may be (re)inserted when a username is supplied,
//     so evicted members can rejoin later with a full profile;
//   - an unknown member without a username is ErrMemberNotFound.
func (r *Registry) ApplyPresence(discordServerID, uid string, status domain.Presence, username, roleColor string, removed bool) (event.PresenceChanged, error) {
	sh, ok := r.shards[discordServerID]
	if !ok {
		return event.PresenceChanged{}, errors.ErrServerNotFound
	}
	if removed {
		status = domain.PresenceOffline
	}
	if !status.Valid() {
		return event.PresenceChanged{}, errors.ErrInvalidPresence
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()

	member, known := sh.members[uid]

	if status == domain.PresenceOffline {
		if !known && username == "" {
			return event.PresenceChanged{}, errors.ErrMemberNotFound
		}
		delete(sh.members, uid)
		return event.PresenceChanged{
			Server:  discordServerID,
			UID:     uid,
			Status:  string(domain.PresenceOffline),
			Removed: true,
		}, nil
	}

	if !known {
		if username == "" {
			return event.PresenceChanged{}, errors.ErrMemberNotFound
		}
		member = domain.Member{UID: uid, Username: username, Status: status, RoleColor: roleColor}
		if member.RoleColor == "" {
			member.RoleColor = fallbackRoleColor
		}
		if err := member.Validate(); err != nil {
			return event.PresenceChanged{}, err
		}
		sh.members[uid] = member
		return event.PresenceChanged{
			Server:    discordServerID,
			UID:       uid,
			Status:    string(status),
			Username:  member.Username,
			RoleColor: member.RoleColor,
		}, nil
	}

	member.Status = status
	ev := event.PresenceChanged{Server: discordServerID, UID: uid, Status: string(status)}
	if username != "" {
		member.Username = username
		ev.Username = username
	}
	if roleColor != "" {
		probe := member
		probe.RoleColor = roleColor
		if err := probe.Validate(); err != nil {
			return event.PresenceChanged{}, err
		}
		member.RoleColor = roleColor
		ev.RoleColor = roleColor
	}
	sh.members[uid] = member
	return ev, nil
}
