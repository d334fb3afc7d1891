package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

const minPasswordLen = 3

// dummyHash is compared against when the email is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// RegisterInput is the data needed to open a student account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (in RegisterInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return invalid("email", "is not a valid address")
	}
	if len(in.Password) < minPasswordLen {
		return invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}
	return nil
}

// AuthService validates credentials and manages accounts.
type AuthService struct {
	users *repository.UserRepository
	cost  int
}

func NewAuthService(users *repository.UserRepository) *AuthService {
	return &AuthService{users: users, cost: bcrypt.DefaultCost}
}

// WithHashCost returns a copy hashing at the given bcrypt cost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	cp := *s
	cp.cost = cost
	return &cp
}

// Register creates a student account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	// Checked first so the common case never reaches a unique-index
	// violation. Create still maps a concurrent duplicate.
	taken, err := s.users.EmailTaken(ctx, in.Email)
	if err != nil {
		return nil, storage("register", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         model.RoleStudent,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, storage("register", err)
	}

	log.Printf("[info] registered user %d (%s)", user.ID, user.Email)
	return user, nil
}

// Authenticate checks credentials. Unknown email and wrong password both
// yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (model.Identity, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return model.Identity{}, ErrInvalidCredentials
		}
		return model.Identity{}, storage("authenticate", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.Identity{}, ErrInvalidCredentials
	}

	return model.IdentityOf(*user), nil
}

// Resolve confirms that the user behind a session still exists and
// returns its current identity.
func (s *AuthService) Resolve(ctx context.Context, userID uint) (model.Identity, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Identity{}, ErrUnauthenticated
		}
		return model.Identity{}, storage("resolve session", err)
	}
	return model.IdentityOf(*user), nil
}

// EnsureAdmin creates the bootstrap admin account when no account with
// that email exists yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := &model.User{
		Name:         "Admin User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	created, err := s.users.EnsureAdmin(ctx, admin)
	if err != nil {
		return storage("bootstrap admin", err)
	}
	if created {
		log.Printf("[info] created bootstrap admin %s", email)
	}
	return nil
}
