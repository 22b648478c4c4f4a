package relay

import (
	"fmt"
	"strconv"
	"sync"

	"plantspace/internal/observability"
)

// PersonalGroup is the broadcast scope for a single user. Every
// authenticated connection joins its own personal group at connect time.
func PersonalGroup(userID int) string {
	return "user:" + strconv.Itoa(userID)
}

// ConversationKey is the canonical, order-independent key addressing the
// conversation between two users. The smaller id always comes first, so
// key(a,b) == key(b,a). The "conv:" prefix keeps the namespace disjoint
// from personal groups.
func ConversationKey(a, b int) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("conv:%d:%d", a, b)
}

// Hub owns the transient routing state: which connections occupy which
// broadcast groups. Nothing here is persisted; losing the process loses
// only in-flight delivery.
type Hub struct {
	mu      sync.RWMutex
	groups  map[string]map[*Client]struct{}
	members map[*Client]map[string]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		groups:  make(map[string]map[*Client]struct{}),
		members: make(map[*Client]map[string]struct{}),
	}
}

// Join enrolls a connection in a group. Joining a group the connection is
// already in is a no-op, so repeated joins never cause duplicate delivery.
func (h *Hub) Join(c *Client, key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.groups[key]; !ok {
		h.groups[key] = make(map[*Client]struct{})
	}
	h.groups[key][c] = struct{}{}
	if _, ok := h.members[c]; !ok {
		h.members[c] = make(map[string]struct{})
	}
	h.members[c][key] = struct{}{}
}

// Remove takes a connection out of every group it occupies.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	for key := range h.members[c] {
		if conns, ok := h.groups[key]; ok {
			delete(conns, c)
			if len(conns) == 0 {
				delete(h.groups, key)
			}
		}
	}
	delete(h.members, c)
}

// Broadcast sends an event to every connection in a group. An empty group
// is a silent drop: delivery is best effort while both parties are
// connected. Connections whose write fails are closed and evicted.
func (h *Hub) Broadcast(key string, event string, data any) {
	h.mu.RLock()
	conns := make([]*Client, 0, len(h.groups[key]))
	for c := range h.groups[key] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.Send(event, data); err != nil {
			c.Close()
			h.Remove(c)
			observability.IncRelayDroppedWrite()
		}
	}
}

// GroupSize reports the number of connections in a group.
func (h *Hub) GroupSize(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[key])
}
