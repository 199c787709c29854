package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/users-api/internal/models"
	"github.com/isdelr/users-api/internal/storage"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	ListUsers(offset, limit int) ([]models.User, error)
	CreateUser(input models.CreateUserInput) (models.User, error)
	GetUserByID(id string) (models.User, error)
	UpdateUser(id string, input models.UpdateUserInput) (models.User, error)
	DeleteUser(id string) (models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	store storage.UserStore
	now   func() time.Time
	newID func() (uuid.UUID, error)
}

// NewUserService creates a new UserService.
func NewUserService(store storage.UserStore) *UserService {
	return &UserService{
		store: store,
		now:   time.Now,
		newID: uuid.NewV7,
	}
}

// ListUsers returns the users in [offset, offset+limit), clipped to the collection bounds.
func (s *UserService) ListUsers(offset, limit int) ([]models.User, error) {
	page := []models.User{}
	err := s.store.View(func(users []models.User) error {
		if offset < 0 {
			offset = 0
		}
		if limit < 0 {
			limit = 0
		}
		if offset >= len(users) {
			return nil
		}
		end := len(users)
		if limit < end-offset {
			end = offset + limit
		}
		page = append(page, users[offset:end]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// CreateUser validates the input and appends a new user with a unique email.
func (s *UserService) CreateUser(input models.CreateUserInput) (models.User, error) {
	if input.Email == "" {
		return models.User{}, &ValidationError{Field: "email"}
	}
	if input.Forename == "" {
		return models.User{}, &ValidationError{Field: "forename"}
	}

	id, err := s.newID()
	if err != nil {
		return models.User{}, fmt.Errorf("failed to generate user id: %w", err)
	}

	user := models.User{
		ID:       id.String(),
		Email:    input.Email,
		Forename: input.Forename,
		Surname:  input.Surname,
		Created:  s.now().UnixMilli(),
	}

	err = s.store.Update(func(users []models.User) ([]models.User, error) {
		if indexByEmail(users, user.Email) != -1 {
			return nil, &ConflictError{Email: user.Email}
		}
		return append(users, user), nil
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	err := s.store.View(func(users []models.User) error {
		i := indexByID(users, id)
		if i == -1 {
			return &NotFoundError{ID: id}
		}
		user = users[i]
		return nil
	})
	return user, err
}

// UpdateUser overwrites the fields present in input. Email and forename are
// only replaced by non-empty values, and the new email must not belong to another user.
func (s *UserService) UpdateUser(id string, input models.UpdateUserInput) (models.User, error) {
	var user models.User
	err := s.store.Update(func(users []models.User) ([]models.User, error) {
		i := indexByID(users, id)
		if i == -1 {
			return nil, &NotFoundError{ID: id}
		}

		if input.Email != nil && *input.Email != "" {
			if j := indexByEmail(users, *input.Email); j != -1 && j != i {
				return nil, &ConflictError{Email: *input.Email}
			}
			users[i].Email = *input.Email
		}
		if input.Forename != nil && *input.Forename != "" {
			users[i].Forename = *input.Forename
		}
		if input.Surname != nil {
			users[i].Surname = *input.Surname
		}

		user = users[i]
		return users, nil
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// DeleteUser removes a user and returns the removed record.
func (s *UserService) DeleteUser(id string) (models.User, error) {
	var user models.User
	err := s.store.Update(func(users []models.User) ([]models.User, error) {
		i := indexByID(users, id)
		if i == -1 {
			return nil, &NotFoundError{ID: id}
		}
		user = users[i]
		return append(users[:i], users[i+1:]...), nil
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func indexByID(users []models.User, id string) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func indexByEmail(users []models.User, email string) int {
	for i, u := range users {
		if u.Email == email {
			return i
		}
	}
	return -1
}
