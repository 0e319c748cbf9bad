package service

import (
	"context"
	"errors"
	"net/mail"
	"regexp"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"github.com/ikkim/foodgram-backend/pkg/util"
	"gorm.io/gorm"
)

const (
	maxEmailLength    = 254
	maxUserNameLength = 150
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

type RegisterInput struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type SetPasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*UserView, error)
	SetPassword(ctx context.Context, principal Principal, input SetPasswordInput) error
	ListUsers(ctx context.Context, viewer Principal, page, limit int) (*UserPage, error)
	GetUser(ctx context.Context, viewer Principal, userID uint) (*UserView, error)
	Me(ctx context.Context, principal Principal) (*UserView, error)
}

type userService struct {
	userRepo        repository.UserRepository
	projector       *ViewProjector
	defaultPageSize int
}

func NewUserService(userRepo repository.UserRepository, projector *ViewProjector, defaultPageSize int) UserService {
	if defaultPageSize <= 0 {
		defaultPageSize = 6
	}
	return &userService{
		userRepo:        userRepo,
		projector:       projector,
		defaultPageSize: defaultPageSize,
	}
}

func (s *userService) Register(ctx context.Context, input RegisterInput) (*UserView, error) {
	logger.Info("Registering user", map[string]interface{}{
		"email":    input.Email,
		"username": input.Username,
	})

	if err := s.validateRegistration(input); err != nil {
		logger.Warn("Registration rejected", map[string]interface{}{
			"email": input.Email,
			"error": err.Error(),
		})
		return nil, err
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return nil, err
	}

	user := &model.User{
		Email:        input.Email,
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			verr := newValidationError()
			verr.Add("non_field_errors", "A user with this email or username already exists.")
			return nil, verr
		}
		return nil, err
	}

	logger.Info("User registered", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	view := userView(*user, false)
	return &view, nil
}

func (s *userService) validateRegistration(input RegisterInput) error {
	verr := newValidationError()

	switch {
	case input.Email == "":
		verr.Add("email", msgRequired)
	case len(input.Email) > maxEmailLength:
		verr.Add("email", "Ensure this field has no more than 254 characters.")
	default:
		if _, err := mail.ParseAddress(input.Email); err != nil {
			verr.Add("email", "Enter a valid email address.")
		}
	}

	switch {
	case input.Username == "":
		verr.Add("username", msgRequired)
	case len(input.Username) > maxUserNameLength:
		verr.Add("username", "Ensure this field has no more than 150 characters.")
	case !usernamePattern.MatchString(input.Username):
		verr.Add("username", "Username may contain only letters, digits and @/./+/-/_ characters.")
	}

	for field, value := range map[string]string{"first_name": input.FirstName, "last_name": input.LastName} {
		switch {
		case value == "":
			verr.Add(field, msgRequired)
		case len(value) > maxUserNameLength:
			verr.Add(field, "Ensure this field has no more than 150 characters.")
		}
	}

	switch {
	case input.Password == "":
		verr.Add("password", msgRequired)
	case len(input.Password) < util.MinPasswordLength:
		verr.Add("password", "Password must be at least 8 characters long.")
	}

	if verr.HasErrors() {
		return verr
	}

	taken, err := s.userRepo.ExistsByEmail(input.Email)
	if err != nil {
		return err
	}
	if taken {
		verr.Add("email", "A user with this email already exists.")
	}
	taken, err = s.userRepo.ExistsByUsername(input.Username)
	if err != nil {
		return err
	}
	if taken {
		verr.Add("username", "A user with this username already exists.")
	}
	return verr.orNil()
}

func (s *userService) SetPassword(ctx context.Context, principal Principal, input SetPasswordInput) error {
	if principal.IsAnonymous() {
		return ErrAuthRequired
	}

	user, err := s.userRepo.FindByID(principal.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	verr := newValidationError()
	if input.CurrentPassword == "" {
		verr.Add("current_password", msgRequired)
	}
	switch {
	case input.NewPassword == "":
		verr.Add("new_password", msgRequired)
	case len(input.NewPassword) < util.MinPasswordLength:
		verr.Add("new_password", "Password must be at least 8 characters long.")
	}
	if err := verr.orNil(); err != nil {
		return err
	}

	if !util.VerifyPassword(user.PasswordHash, input.CurrentPassword) {
		logger.Warn("Password change with wrong current password", map[string]interface{}{
			"user_id": user.ID,
		})
		return ErrWrongPassword
	}

	hash, err := util.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(user.ID, hash); err != nil {
		return err
	}

	logger.Info("Password changed", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

func (s *userService) ListUsers(ctx context.Context, viewer Principal, page, limit int) (*UserPage, error) {
	page, limit = normalizePage(page, limit, s.defaultPageSize)

	users, total, err := s.userRepo.FindAll(limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	views, err := s.projector.Users(viewer, users)
	if err != nil {
		return nil, err
	}
	return &UserPage{Count: total, Page: page, Limit: limit, Results: views}, nil
}

func (s *userService) GetUser(ctx context.Context, viewer Principal, userID uint) (*UserView, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	views, err := s.projector.Users(viewer, []model.User{*user})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *userService) Me(ctx context.Context, principal Principal) (*UserView, error) {
	if principal.IsAnonymous() {
		return nil, ErrAuthRequired
	}
	return s.GetUser(ctx, principal, principal.UserID)
}
