package services

import (
	"context"
	"testing"

	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/store/memory"
)

// newTestStore returns a fresh in-memory store for each test.
func newTestStore() *memory.Store {
	return memory.New()
}

func createTestUser(t *testing.T, st *memory.Store, username string) *models.User {
	t.Helper()
	user, err := st.Users().Create(context.Background(), models.CreateUserParams{
		Username:     username,
		Email:        username + "@test.com",
		PasswordHash: "hashed",
		DisplayName:  username,
	})
	if err != nil {
		t.Fatalf("failed to create test user %s: %v", username, err)
	}
	return user
}

// makeFriends sets up a mutual follow between two users.
func makeFriends(t *testing.T, st *memory.Store, a, b *models.User) {
	t.Helper()
	ctx := context.Background()
	if _, err := st.Follows().Create(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("failed to create follow: %v", err)
	}
	if _, err := st.Follows().Create(ctx, b.ID, a.ID); err != nil {
		t.Fatalf("failed to create follow: %v", err)
	}
}
