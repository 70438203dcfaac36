package testutil

import (
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Guyuepp/likeboard/domain"
	"github.com/Guyuepp/likeboard/internal/repository/mysql/model"
)

// CreateTestUser inserts a user with fake profile data
func CreateTestUser(t *testing.T, db *gorm.DB) domain.User {
	t.Helper()

	u := model.User{
		Name:     faker.Name(),
		Username: faker.Username() + "_" + uuid.NewString()[:8],
		Password: faker.Password(),
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return u.ToDomain()
}

// CreateTestUsers inserts n users
func CreateTestUsers(t *testing.T, db *gorm.DB, n int) []domain.User {
	t.Helper()

	users := make([]domain.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, CreateTestUser(t, db))
	}
	return users
}

// MessageOption tweaks a fixture message before it is inserted
type MessageOption func(*model.Message)

func WithLikeCount(n int64) MessageOption {
	return func(m *model.Message) {
		m.LikeCount = n
		m.IsHot = domain.IsHotCount(n)
	}
}

func WithCreatedAt(at time.Time) MessageOption {
	return func(m *model.Message) {
		m.CreatedAt = at
	}
}

func Deleted() MessageOption {
	return func(m *model.Message) {
		m.Deleted = true
	}
}

// CreateTestMessage inserts a message authored by authorID
func CreateTestMessage(t *testing.T, db *gorm.DB, authorID int64, opts ...MessageOption) domain.Message {
	t.Helper()

	m := model.Message{
		UserID:  authorID,
		Content: faker.Sentence(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("Failed to create test message: %v", err)
	}
	return m.ToDomain()
}

// CleanDatabase deletes all rows (SQLite doesn't support TRUNCATE)
func CleanDatabase(t *testing.T, db *gorm.DB) {
	t.Helper()

	for _, table := range []string{"message_like", "message", "user"} {
		if err := db.Exec("DELETE FROM `" + table + "`").Error; err != nil {
			t.Logf("Warning: Failed to clean table %s: %v", table, err)
		}
	}
}
