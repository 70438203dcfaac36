package mysql

import (
	"context"
	"fmt"

	"github.com/Guyuepp/likeboard/domain"
	"github.com/Guyuepp/likeboard/internal/repository/mysql/model"
	"gorm.io/gorm"
)

type userRepository struct {
	DB *gorm.DB
}

var _ domain.UserRepository = (*userRepository)(nil)

// NewUserRepository will create an implementation of domain.UserRepository
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{
		DB: db,
	}
}

func (m *userRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	var user model.User
	if err := conn(ctx, m.DB).First(&user, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user %d: %w", id, err)
	}

	return user.ToDomain(), nil
}
