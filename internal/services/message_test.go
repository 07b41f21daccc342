package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/models"
)

type recordingNotifier struct {
	notifications []models.CreateNotificationParams
}

func (n *recordingNotifier) Notify(ctx context.Context, params models.CreateNotificationParams) error {
	n.notifications = append(n.notifications, params)
	return nil
}

func TestMessageService_Send(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()
	convSvc := newConversationService(st)
	notifier := &recordingNotifier{}
	svc := NewMessageService(st, notifier)

	alice := createTestUser(t, st, "alice")
	bob := createTestUser(t, st, "bob")
	carol := createTestUser(t, st, "carol")
	makeFriends(t, st, alice, bob)

	conv, _, err := convSvc.FindOrCreate(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("participant can send", func(t *testing.T) {
		msg, err := svc.Send(ctx, conv.ID, alice.ID, "hello bob")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if msg.SenderID != alice.ID {
			t.Error("wrong sender on message")
		}
		if msg.IsRead {
			t.Error("new message should start unread")
		}
	})

	t.Run("notifies the recipient", func(t *testing.T) {
		if len(notifier.notifications) == 0 {
			t.Fatal("expected a notification for the recipient")
		}
		last := notifier.notifications[len(notifier.notifications)-1]
		if last.UserID != bob.ID {
			t.Error("notification should target the recipient")
		}
		if last.Type != models.NotificationTypeMessage {
			t.Errorf("expected message notification, got %s", last.Type)
		}
	})

	t.Run("outsider cannot send", func(t *testing.T) {
		_, err := svc.Send(ctx, conv.ID, carol.ID, "let me in")
		if !errors.Is(err, ErrNotParticipant) {
			t.Errorf("expected ErrNotParticipant, got %v", err)
		}
	})

	t.Run("unknown conversation", func(t *testing.T) {
		_, err := svc.Send(ctx, uuid.New(), alice.ID, "hello?")
		if !errors.Is(err, ErrConversationNotFound) {
			t.Errorf("expected ErrConversationNotFound, got %v", err)
		}
	})
}

func TestMessageService_List(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()
	convSvc := newConversationService(st)
	svc := NewMessageService(st, nil)

	alice := createTestUser(t, st, "alice")
	bob := createTestUser(t, st, "bob")
	carol := createTestUser(t, st, "carol")
	makeFriends(t, st, alice, bob)

	conv, _, err := convSvc.FindOrCreate(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	for _, content := range []string{"first", "second", "third"} {
		if _, err := svc.Send(ctx, conv.ID, alice.ID, content); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("oldest first with senders", func(t *testing.T) {
		msgs, err := svc.List(ctx, conv.ID, bob.ID, 0, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(msgs) != 3 {
			t.Fatalf("expected 3 messages, got %d", len(msgs))
		}
		if msgs[0].Content != "first" || msgs[2].Content != "third" {
			t.Error("expected messages oldest first")
		}
		if msgs[0].Sender == nil || msgs[0].Sender.Username != "alice" {
			t.Error("expected sender attached")
		}
	})

	t.Run("pagination", func(t *testing.T) {
		msgs, err := svc.List(ctx, conv.ID, bob.ID, 2, 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(msgs) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(msgs))
		}
		if msgs[0].Content != "second" {
			t.Errorf("expected offset to skip the first message, got %q", msgs[0].Content)
		}
	})

	t.Run("outsider cannot read", func(t *testing.T) {
		_, err := svc.List(ctx, conv.ID, carol.ID, 0, 0)
		if !errors.Is(err, ErrNotParticipant) {
			t.Errorf("expected ErrNotParticipant, got %v", err)
		}
	})
}

func TestMessageService_MarkReadAndUnreadCounts(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()
	convSvc := newConversationService(st)
	svc := NewMessageService(st, nil)

	alice := createTestUser(t, st, "alice")
	bob := createTestUser(t, st, "bob")
	makeFriends(t, st, alice, bob)

	conv, _, err := convSvc.FindOrCreate(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Send(ctx, conv.ID, alice.ID, "one"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Send(ctx, conv.ID, alice.ID, "two"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Send(ctx, conv.ID, bob.ID, "reply"); err != nil {
		t.Fatal(err)
	}

	// bob has two unread from alice; alice has one unread from bob.
	total, err := svc.TotalUnread(ctx, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("expected 2 unread for bob, got %d", total)
	}
	total, err = svc.TotalUnread(ctx, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("expected 1 unread for alice, got %d", total)
	}

	if err := svc.MarkRead(ctx, conv.ID, bob.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	total, err = svc.TotalUnread(ctx, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 {
		t.Errorf("expected 0 unread for bob after mark read, got %d", total)
	}

	// Marking bob's side read must not touch alice's unread count.
	total, err = svc.TotalUnread(ctx, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("expected alice's unread count unchanged, got %d", total)
	}
}

func TestMessageService_TotalUnread_SkipsPending(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()
	convSvc := newConversationService(st)
	svc := NewMessageService(st, nil)

	alice := createTestUser(t, st, "alice")
	bob := createTestUser(t, st, "bob")

	// alice messages bob without a mutual follow: pending on bob's side.
	conv, _, err := convSvc.FindOrCreate(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Send(ctx, conv.ID, alice.ID, "psst"); err != nil {
		t.Fatal(err)
	}

	total, err := svc.TotalUnread(ctx, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 {
		t.Errorf("pending request messages should not count as unread, got %d", total)
	}

	if err := convSvc.Accept(ctx, bob.ID, conv.ID); err != nil {
		t.Fatal(err)
	}

	total, err = svc.TotalUnread(ctx, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("expected 1 unread after accepting, got %d", total)
	}
}
