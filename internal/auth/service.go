package auth

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/rpay/deskpet/internal/database"
)

const bcryptCost = 10

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = database.ErrUsernameTaken
)

// ValidationError is a rejected register/login request.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// UserStore is the part of database.DB the service needs.
type UserStore interface {
	CreateUser(username, passwordHash string) (*database.User, error)
	GetUserByUsername(username string) (*database.User, error)
}

// Service registers users and logs them in, returning session tokens.
type Service struct {
	store  UserStore
	tokens *Tokens
}

func NewService(store UserStore, tokens *Tokens) *Service {
	return &Service{store: store, tokens: tokens}
}

func (s *Service) Register(username, password string) (string, error) {
	if username == "" || password == "" {
		return "", &ValidationError{Msg: "username and password required"}
	}
	if n := utf8.RuneCountInString(username); n < 2 || n > 32 {
		return "", &ValidationError{Msg: "username must be 2-32 chars"}
	}
	if utf8.RuneCountInString(password) < 6 {
		return "", &ValidationError{Msg: "password must be at least 6 chars"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", &ValidationError{Msg: "password must be at most 72 bytes"}
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.CreateUser(username, string(hash))
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(user.ID)
}

func (s *Service) Login(username, password string) (string, error) {
	if username == "" || password == "" {
		return "", &ValidationError{Msg: "username and password required"}
	}

	user, err := s.store.GetUserByUsername(username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(user.ID)
}
