// Package registry implements the process-wide set of active AO sessions:
// a free-slot allocator and an identity-keyed map mutated under a single
// writer lock, per spec §4.4.
package registry

import (
	"container/heap"
	"context"
	"fmt"
	"sync"

	"github.com/aoserver/aoserver/internal/identity"
	"github.com/aoserver/aoserver/internal/logger"
)

// SpectatorSentinel is the character_id value that excludes a session from
// the active player count, matching the reference source's magic constant.
const SpectatorSentinel = 1

// UnchosenCharacter is the initial character_id value for a freshly
// admitted session, before the client has selected a character.
const UnchosenCharacter = -1

// Session is the registry's view of a connected client, keyed by
// IdentityID. Fields mirror spec §3's Session entity.
type Session struct {
	SlotID      int
	IdentityID  int64
	HardwareID  string
	CharacterID int
	IsChecked   bool
	DisplayName string
	FakeName    string
	IsModerator bool
}

// ErrServerFull is returned by NewClient when no slot is available.
var ErrServerFull = fmt.Errorf("this server is full")

// ErrBanned is returned by NewClient when ip is on the ban list.
var ErrBanned = fmt.Errorf("banned")

// slotHeap is a min-heap of free slot indices; popping the smallest free
// slot keeps allocation deterministic, which is what the reference
// source's max-heap-of-free-slots achieves for slot reuse (any strategy
// that always hands back a valid unused slot satisfies spec §3's
// invariant; smallest-first is simplest to reason about and test).
type slotHeap []int

func (h slotHeap) Len() int            { return len(h) }
func (h slotHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h slotHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *slotHeap) Push(x any)         { *h = append(*h, x.(int)) }
func (h *slotHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// Registry is the process-wide set of active sessions. It is safe for
// concurrent use; all mutations are serialized under mu.
type Registry struct {
	mu          sync.Mutex
	freeSlots   slotHeap
	byIdentity  map[int64]*Session
	store       identity.Store
	playerLimit int

	// bans holds banned IPs, keyed by address, value is the operator's
	// reason string. Checked by NewClient before a slot is ever handed
	// out. In-memory only: a restart clears every ban, the same lifetime
	// as the sessions it guards admission to.
	bans map[string]string
}

// New constructs a Registry with slots [0, playerLimit) all free.
func New(playerLimit int, store identity.Store) *Registry {
	free := make(slotHeap, playerLimit)
	for i := range free {
		free[i] = i
	}
	heap.Init(&free)

	return &Registry{
		freeSlots:   free,
		byIdentity:  make(map[int64]*Session),
		store:       store,
		playerLimit: playerLimit,
		bans:        make(map[string]string),
	}
}

// Ban adds ip to the ban list. Existing sessions from ip are not
// disconnected; callers combine this with a Kick for immediate effect.
func (r *Registry) Ban(ip, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reason == "" {
		reason = "banned"
	}
	r.bans[ip] = reason
}

// Unban removes ip from the ban list.
func (r *Registry) Unban(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bans, ip)
}

// IsBanned reports whether ip is on the ban list, and its reason.
func (r *Registry) IsBanned(ip string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reason, ok := r.bans[ip]
	return reason, ok
}

// NewClient pops a free slot, resolves an identity id for ip via the
// persistence port, and inserts a fresh Session keyed by identity id.
func (r *Registry) NewClient(ctx context.Context, ip string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if reason, banned := r.bans[ip]; banned {
		return nil, fmt.Errorf("%w: %s", ErrBanned, reason)
	}

	if r.freeSlots.Len() == 0 {
		return nil, ErrServerFull
	}

	identityID, err := r.store.Ipid(ctx, ip)
	if err != nil {
		return nil, fmt.Errorf("resolving identity for %s: %w", ip, err)
	}

	slot := heap.Pop(&r.freeSlots).(int)
	session := &Session{
		SlotID:      slot,
		IdentityID:  identityID,
		CharacterID: UnchosenCharacter,
	}
	r.byIdentity[identityID] = session

	logger.Info("client admitted", logger.SlotID(slot), logger.IdentityID(identityID))
	return session, nil
}

// UpdateClient replaces the entry keyed by s.IdentityID, inserting if
// absent (set-replace semantics, per spec §4.4).
func (r *Registry) UpdateClient(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byIdentity[s.IdentityID] = s
}

// Get returns the current session for an identity id, if present.
func (r *Registry) Get(identityID int64) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byIdentity[identityID]
	return s, ok
}

// Release returns a slot to the free heap and removes the identity entry,
// on session destruction (error, EOF, or timeout).
func (r *Registry) Release(identityID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byIdentity[identityID]
	if !ok {
		return
	}
	delete(r.byIdentity, identityID)
	heap.Push(&r.freeSlots, s.SlotID)
}

// PlayerCount counts sessions whose CharacterID is not the spectator
// sentinel, per spec §4.4.
func (r *Registry) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, s := range r.byIdentity {
		if s.CharacterID != SpectatorSentinel {
			count++
		}
	}
	return count
}

// PlayerLimit returns the configured maximum population.
func (r *Registry) PlayerLimit() int { return r.playerLimit }

// Snapshot returns a copy of every active session, for admin-facing
// listing. Copies are safe to read without holding the registry lock.
func (r *Registry) Snapshot() []Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Session, 0, len(r.byIdentity))
	for _, s := range r.byIdentity {
		out = append(out, *s)
	}
	return out
}
