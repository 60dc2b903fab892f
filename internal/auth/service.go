package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quitcoach/client/internal/model"
	"github.com/quitcoach/client/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingCredentials is returned when email or password is empty
	ErrMissingCredentials = errors.New("email and password are required")
	// ErrEmailTaken is returned when signing up with an email already in use
	ErrEmailTaken = repo.ErrEmailTaken
)

// AuthService orchestrates signup and login for smokers and coaches
type AuthService struct {
	jwtService *JWTService
	smokerRepo repo.SmokerRepo
	coachRepo  repo.CoachRepo
	hashCost   int
}

// NewAuthService creates a new auth service
func NewAuthService(
	jwtService *JWTService,
	smokerRepo repo.SmokerRepo,
	coachRepo repo.CoachRepo,
) *AuthService {
	return &AuthService{
		jwtService: jwtService,
		smokerRepo: smokerRepo,
		coachRepo:  coachRepo,
		hashCost:   bcrypt.DefaultCost,
	}
}

// WithHashCost overrides the bcrypt cost (tests use bcrypt.MinCost)
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.hashCost = cost
	return s
}

// SignupSmoker creates a smoker account and returns it with a fresh token
func (s *AuthService) SignupSmoker(ctx context.Context, user model.User) (model.User, error) {
	if err := requireCredentials(user.Email, user.Password); err != nil {
		return model.User{}, err
	}

	hash, err := s.HashPassword(user.Password)
	if err != nil {
		return model.User{}, err
	}
	user.Email = strings.TrimSpace(user.Email)
	user.Password = hash
	user.Token = ""

	created, err := s.smokerRepo.Create(ctx, user)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create smoker: %w", err)
	}

	token, err := s.jwtService.SignToken(model.RoleSmoker, created.ID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to generate token: %w", err)
	}
	created.Token = token

	return created.Redacted(), nil
}

// LoginSmoker checks the password and returns the smoker with a fresh token
func (s *AuthService) LoginSmoker(ctx context.Context, creds model.Credentials) (model.User, string, error) {
	if err := requireCredentials(creds.Email, creds.Password); err != nil {
		return model.User{}, "", err
	}

	user, err := s.smokerRepo.GetByEmail(ctx, strings.TrimSpace(creds.Email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.User{}, "", ErrInvalidCredentials
		}
		return model.User{}, "", fmt.Errorf("failed to load smoker: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		return model.User{}, "", ErrInvalidCredentials
	}

	token, err := s.jwtService.SignToken(model.RoleSmoker, user.ID)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user.Redacted(), token, nil
}

// SignupCoach creates a coach account and returns it with a fresh token
func (s *AuthService) SignupCoach(ctx context.Context, coach model.CoachProfile) (model.CoachProfile, error) {
	if err := requireCredentials(coach.Email, coach.Password); err != nil {
		return model.CoachProfile{}, err
	}

	hash, err := s.HashPassword(coach.Password)
	if err != nil {
		return model.CoachProfile{}, err
	}
	coach.Email = strings.TrimSpace(coach.Email)
	coach.Password = hash
	coach.Token = ""

	created, err := s.coachRepo.Create(ctx, coach)
	if err != nil {
		return model.CoachProfile{}, fmt.Errorf("failed to create coach: %w", err)
	}

	token, err := s.jwtService.SignToken(model.RoleCoach, created.ID)
	if err != nil {
		return model.CoachProfile{}, fmt.Errorf("failed to generate token: %w", err)
	}
	created.Token = token

	return created.Redacted(), nil
}

// LoginCoach checks the password and returns the coach with a fresh token
func (s *AuthService) LoginCoach(ctx context.Context, creds model.CoachCredentials) (model.CoachProfile, string, error) {
	if err := requireCredentials(creds.Email, creds.Password); err != nil {
		return model.CoachProfile{}, "", err
	}

	coach, err := s.coachRepo.GetByEmail(ctx, strings.TrimSpace(creds.Email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.CoachProfile{}, "", ErrInvalidCredentials
		}
		return model.CoachProfile{}, "", fmt.Errorf("failed to load coach: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(coach.Password), []byte(creds.Password)); err != nil {
		return model.CoachProfile{}, "", ErrInvalidCredentials
	}

	token, err := s.jwtService.SignToken(model.RoleCoach, coach.ID)
	if err != nil {
		return model.CoachProfile{}, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return coach.Redacted(), token, nil
}

// HashPassword returns the bcrypt hash stored in place of a password
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func requireCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return ErrMissingCredentials
	}
	return nil
}
