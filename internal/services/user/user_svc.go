package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"truekki/internal/auth"
	"truekki/internal/store"
)

var (
	ErrMissingFields    = errors.New("nombre, email and password are required")
	ErrInvalidDomain    = errors.New("email domain not allowed")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrEmailTaken       = errors.New("email already registered")
	ErrBadCredentials   = errors.New("invalid email or password")
	ErrAccountInactive  = errors.New("account is not active")
	ErrNotFound         = errors.New("user not found")
)

// allowedDomains mirrors the registration whitelist of the original site.
var allowedDomains = map[string]bool{
	"gmail.com":   true,
	"yahoo.com":   true,
	"hotmail.com": true,
	"outlook.com": true,
}

const bcryptCost = 10

type Store interface {
	InsertUser(ctx context.Context, u *store.User) error
	UserByEmail(ctx context.Context, email string) (*store.User, error)
	UpdateUserProfile(ctx context.Context, id, name, phone, address, bio string) error
}

type IUserService interface {
	Register(ctx context.Context, name, email, password, confirm, phone, address string) (string, error)
	Login(ctx context.Context, email, password string) (*store.User, string, error)
	UpdateProfile(ctx context.Context, id, name, phone, address, bio string) error
}

type userService struct {
	st     Store
	tokens *auth.Tokens
}

func NewUserService(st Store, tokens *auth.Tokens) IUserService {
	return &userService{st: st, tokens: tokens}
}

func (svc *userService) Register(ctx context.Context, name, email, password, confirm, phone, address string) (string, error) {
	if name == "" || email == "" || password == "" {
		return "", ErrMissingFields
	}
	at := strings.LastIndex(email, "@")
	if at < 1 || !allowedDomains[strings.ToLower(email[at+1:])] {
		return "", ErrInvalidDomain
	}
	if confirm != "" && confirm != password {
		return "", ErrPasswordMismatch
	}
	if len(password) < 8 {
		return "", ErrPasswordTooShort
	}

	if _, err := svc.st.UserByEmail(ctx, email); err == nil {
		return "", ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("check email %s: %w", email, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}

	u := &store.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        phone,
		Address:      address,
		Status:       store.UserActive,
		RegisteredAt: time.Now().UTC(),
	}
	if err := svc.st.InsertUser(ctx, u); err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}
	return u.ID, nil
}

// Login verifies the password and account status and hands out a signed
// token. Absent users and wrong passwords are indistinguishable to the caller.
func (svc *userService) Login(ctx context.Context, email, password string) (*store.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrMissingFields
	}

	u, err := svc.st.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", ErrBadCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrBadCredentials
	}
	if u.Status != store.UserActive {
		return nil, "", ErrAccountInactive
	}

	token, err := svc.tokens.Create(u.ID, u.Name, u.Email)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return u, token, nil
}

func (svc *userService) UpdateProfile(ctx context.Context, id, name, phone, address, bio string) error {
	if id == "" || name == "" {
		return ErrMissingFields
	}
	err := svc.st.UpdateUserProfile(ctx, id, name, phone, address, bio)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update user %s: %w", id, err)
	}
	return nil
}
