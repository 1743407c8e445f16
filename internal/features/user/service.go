package user

import (
	"context"
	"errors"
	"time"

	"go-erp/internal/common/models"
	"go-erp/internal/store"
	"go-erp/pkg/utils"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrConflict = errors.New("username already taken")
)

type UserService interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByChatID(ctx context.Context, platform string, chatID int64) (*models.User, error)
	// Resolve maps authenticated claims back to the stored user, by id
	// first and by username as a fallback for development tokens.
	Resolve(ctx context.Context, claims *utils.UserClaims) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id string, user *models.User) error
	Delete(ctx context.Context, id string) error
}

type UserServiceImpl struct {
	Store *store.Store
}

func NewUserService(st *store.Store) UserService {
	return &UserServiceImpl{Store: st}
}

func (s *UserServiceImpl) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	if user.Role == "" {
		user.Role = models.RoleStaff
	}

	return s.Store.Update(func(d *store.Data) error {
		for _, u := range d.Users {
			if u.Username == user.Username {
				return ErrConflict
			}
		}
		d.Users = append(d.Users, *user)
		return nil
	})
}

func (s *UserServiceImpl) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.ID == id })
}

func (s *UserServiceImpl) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Username == username })
}

// GetByChatID resolves the session owner of a chat identity.
func (s *UserServiceImpl) GetByChatID(ctx context.Context, platform string, chatID int64) (*models.User, error) {
	return s.find(func(u models.User) bool {
		switch platform {
		case "bale":
			return u.BaleChatID == chatID
		case "telegram":
			return u.TelegramChatID == chatID
		}
		return false
	})
}

func (s *UserServiceImpl) Resolve(ctx context.Context, claims *utils.UserClaims) (*models.User, error) {
	if u, err := s.GetByID(ctx, claims.UserID); err == nil {
		return u, nil
	}
	return s.GetByUsername(ctx, claims.Username)
}

func (s *UserServiceImpl) find(match func(models.User) bool) (*models.User, error) {
	var found *models.User
	err := s.Store.View(func(d *store.Data) error {
		for i := range d.Users {
			if match(d.Users[i]) {
				u := d.Users[i]
				found = &u
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (s *UserServiceImpl) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.Store.View(func(d *store.Data) error {
		users = append(users, d.Users...)
		return nil
	})
	return users, err
}

func (s *UserServiceImpl) Update(ctx context.Context, id string, user *models.User) error {
	return s.Store.Update(func(d *store.Data) error {
		for i := range d.Users {
			if d.Users[i].ID == id {
				user.ID = id
				user.CreatedAt = d.Users[i].CreatedAt
				if user.Password == "" {
					user.Password = d.Users[i].Password
				}
				d.Users[i] = *user
				return nil
			}
		}
		return ErrNotFound
	})
}

func (s *UserServiceImpl) Delete(ctx context.Context, id string) error {
	return s.Store.Update(func(d *store.Data) error {
		for i := range d.Users {
			if d.Users[i].ID == id {
				d.Users = append(d.Users[:i], d.Users[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}
