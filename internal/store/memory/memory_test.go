package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/store"
)

func newClockedStore(at time.Time) (*Store, *time.Time) {
	s := New()
	current := at
	s.now = func() time.Time { return current }
	return s, &current
}

func createUser(t *testing.T, s *Store, username string) *models.User {
	t.Helper()
	user, err := s.Users().Create(context.Background(), models.CreateUserParams{
		Username:     username,
		Email:        username + "@test.com",
		PasswordHash: "hashed",
		DisplayName:  username,
	})
	if err != nil {
		t.Fatalf("creating user %s: %v", username, err)
	}
	return user
}

func TestPostQuota_ResetsAtUTCDayRollover(t *testing.T) {
	ctx := context.Background()
	s, clock := newClockedStore(time.Date(2026, 3, 14, 23, 50, 0, 0, time.UTC))
	alice := createUser(t, s, "alice")

	for i := 0; i < 3; i++ {
		ok, err := s.Posts().IncrementToday(ctx, alice.ID, 3)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatalf("expected increment %d to succeed", i+1)
		}
	}

	if ok, err := s.Posts().IncrementToday(ctx, alice.ID, 3); err != nil || ok {
		t.Errorf("expected increment past the limit refused, got ok=%t err=%v", ok, err)
	}

	count, err := s.Posts().CountToday(ctx, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("expected 3 posts today, got %d", count)
	}

	// Ten minutes later it is a new UTC day: the counter reads zero and the
	// quota opens up again.
	*clock = clock.Add(10 * time.Minute)

	count, err = s.Posts().CountToday(ctx, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected 0 posts after day rollover, got %d", count)
	}
	if ok, err := s.Posts().IncrementToday(ctx, alice.ID, 3); err != nil || !ok {
		t.Errorf("expected a fresh day to accept posts, got ok=%t err=%v", ok, err)
	}
}

func TestPostQuota_ConcurrentIncrementsStopAtLimit(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := createUser(t, s, "alice")

	const attempts = 20
	var wg sync.WaitGroup
	var granted atomic.Int32
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.Posts().IncrementToday(ctx, alice.ID, 3)
			if err != nil {
				t.Error(err)
				return
			}
			if ok {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	if granted.Load() != 3 {
		t.Errorf("expected exactly 3 grants, got %d", granted.Load())
	}
	count, err := s.Posts().CountToday(ctx, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("expected counter at 3, got %d", count)
	}
}

func TestSweep_EvictsExpiredState(t *testing.T) {
	ctx := context.Background()
	s, clock := newClockedStore(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	alice := createUser(t, s, "alice")

	if _, err := s.Sessions().Create(ctx, alice.ID, "hash-live", clock.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Sessions().Create(ctx, alice.ID, "hash-stale", clock.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := s.VerificationTokens().Create(ctx, alice.ID, "tok-stale", clock.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Posts().IncrementToday(ctx, alice.ID, 3); err != nil {
		t.Fatal(err)
	}

	// Two days later everything short-lived is past its expiry.
	*clock = clock.AddDate(0, 0, 2)
	s.sweep()

	if _, err := s.Sessions().GetByTokenHash(ctx, "hash-live"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected expired session evicted, got %v", err)
	}
	if _, err := s.Sessions().GetByTokenHash(ctx, "hash-stale"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected expired session evicted, got %v", err)
	}
	if _, err := s.VerificationTokens().Get(ctx, "tok-stale"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected expired token evicted, got %v", err)
	}
	if len(s.postCounts) != 0 {
		t.Errorf("expected stale post counters dropped, got %d", len(s.postCounts))
	}
}

func TestSweep_KeepsLiveState(t *testing.T) {
	ctx := context.Background()
	s, clock := newClockedStore(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	alice := createUser(t, s, "alice")

	if _, err := s.Sessions().Create(ctx, alice.ID, "hash-live", clock.Add(24*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Posts().IncrementToday(ctx, alice.ID, 3); err != nil {
		t.Fatal(err)
	}

	s.sweep()

	if _, err := s.Sessions().GetByTokenHash(ctx, "hash-live"); err != nil {
		t.Errorf("expected live session kept, got %v", err)
	}
	count, err := s.Posts().CountToday(ctx, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected today's counter kept, got %d", count)
	}
}

func TestPosts_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := createUser(t, s, "alice")

	for _, content := range []string{"oldest", "middle", "newest"} {
		if _, err := s.Posts().Create(ctx, models.CreatePostParams{
			UserID: alice.ID, Content: content, Type: models.PostTypeGeneral,
		}); err != nil {
			t.Fatal(err)
		}
	}

	posts, err := s.Posts().List(ctx, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}
	if posts[0].Content != "newest" || posts[2].Content != "oldest" {
		t.Error("expected posts newest first")
	}

	// Offset skips from the newest end.
	posts, err = s.Posts().List(ctx, 10, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 2 || posts[0].Content != "middle" {
		t.Error("expected offset to skip the newest post")
	}
}

func TestConversationDelete_RemovesMessages(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	conv, _, err := s.Conversations().Create(ctx, alice.ID, bob.ID, true, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Messages().Create(ctx, conv.ID, alice.ID, "hello"); err != nil {
		t.Fatal(err)
	}

	if err := s.Conversations().Delete(ctx, conv.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Conversations().GetByID(ctx, conv.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected conversation gone, got %v", err)
	}
	if _, err := s.Messages().ListByConversation(ctx, conv.ID, 0, 0); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected messages gone with the conversation, got %v", err)
	}
	if _, _, err := s.Conversations().FindByPair(ctx, alice.ID, bob.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected pair lookup to miss, got %v", err)
	}
}

func TestBlockCreate_SeversFollows(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	if _, err := s.Follows().Create(ctx, alice.ID, bob.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Follows().Create(ctx, bob.ID, alice.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Blocks().Create(ctx, alice.ID, bob.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Follows().Get(ctx, alice.ID, bob.ID); !errors.Is(err, store.ErrNotFound) {
		t.Error("expected forward follow removed by block")
	}
	if _, err := s.Follows().Get(ctx, bob.ID, alice.ID); !errors.Is(err, store.ErrNotFound) {
		t.Error("expected reverse follow removed by block")
	}
}

func TestUserUpdate_PartialFields(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := createUser(t, s, "alice")

	private := true
	updated, err := s.Users().Update(ctx, alice.ID, models.UpdateUserParams{IsPrivate: &private})
	if err != nil {
		t.Fatal(err)
	}
	if !updated.IsPrivate {
		t.Error("expected IsPrivate updated")
	}
	if updated.DisplayName != "alice" {
		t.Error("expected untouched fields to keep their values")
	}

	if _, err := s.Users().Update(ctx, uuid.New(), models.UpdateUserParams{IsPrivate: &private}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown user, got %v", err)
	}
}
