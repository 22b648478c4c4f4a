package relay

import "testing"

func TestConversationKeyOrderIndependent(t *testing.T) {
	if ConversationKey(2, 9) != ConversationKey(9, 2) {
		t.Fatalf("expected key to be order independent")
	}
	if got := ConversationKey(9, 2); got != "conv:2:9" {
		t.Fatalf("expected conv:2:9, got %s", got)
	}
	if got := PersonalGroup(4); got != "user:4" {
		t.Fatalf("expected user:4, got %s", got)
	}
}

func TestHubJoinAndRemove(t *testing.T) {
	hub := NewHub()
	client := NewClient("c1", 1, &fakeConn{})

	hub.Join(client, PersonalGroup(1))
	if hub.GroupSize(PersonalGroup(1)) != 1 {
		t.Fatalf("expected client in personal group")
	}

	hub.Join(client, ConversationKey(1, 2))
	if hub.GroupSize(ConversationKey(1, 2)) != 1 {
		t.Fatalf("expected client in conversation group")
	}

	hub.Remove(client)
	if hub.GroupSize(PersonalGroup(1)) != 0 || hub.GroupSize(ConversationKey(1, 2)) != 0 {
		t.Fatalf("expected client removed from all groups")
	}
	if len(hub.groups) != 0 || len(hub.members) != 0 {
		t.Fatalf("expected empty hub state after remove")
	}
}

func TestHubJoinIdempotent(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	client := NewClient("c1", 1, conn)

	hub.Join(client, ConversationKey(1, 2))
	hub.Join(client, ConversationKey(1, 2))
	if hub.GroupSize(ConversationKey(1, 2)) != 1 {
		t.Fatalf("expected repeated join to be a no-op")
	}

	hub.Broadcast(ConversationKey(1, 2), EventNewMessage, nil)
	if got := len(conn.frames()); got != 1 {
		t.Fatalf("expected exactly one delivery, got %d", got)
	}
}

func TestHubBroadcastToEmptyGroupIsSilent(t *testing.T) {
	hub := NewHub()
	hub.Broadcast(PersonalGroup(42), EventNewMessage, nil)
	// nothing to assert beyond not panicking; absent targets are dropped
}

func TestHubBroadcastEvictsFailedWriter(t *testing.T) {
	hub := NewHub()
	good := &fakeConn{}
	bad := &fakeConn{failWrites: true}
	healthy := NewClient("c1", 1, good)
	broken := NewClient("c2", 2, bad)

	hub.Join(healthy, ConversationKey(1, 2))
	hub.Join(broken, ConversationKey(1, 2))

	hub.Broadcast(ConversationKey(1, 2), EventNewMessage, nil)

	if hub.GroupSize(ConversationKey(1, 2)) != 1 {
		t.Fatalf("expected broken connection evicted")
	}
	if !bad.isClosed() {
		t.Fatalf("expected broken connection closed")
	}
	if len(good.frames()) != 1 {
		t.Fatalf("expected healthy connection to still receive")
	}
}
