package stub

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/quitcoach/client/internal/auth"
	"github.com/quitcoach/client/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultFixtures []byte

// Fixtures is the YAML seed data of the stub API
type Fixtures struct {
	ConsumptionTypes []string       `yaml:"consumption_types"`
	Smokers          []SmokerSeed   `yaml:"smokers"`
	Coaches          []CoachSeed    `yaml:"coaches"`
	Requests         []RequestSeed  `yaml:"requests"`
	FollowUps        []FollowUpSeed `yaml:"follow_ups"`
}

type SmokerSeed struct {
	Email           string `yaml:"email"`
	Password        string `yaml:"password"`
	Name            string `yaml:"name"`
	Gender          string `yaml:"gender"`
	BirthDate       string `yaml:"birth_date"`
	Cigarettes      *int   `yaml:"cigarettes"`
	Periodicity     string `yaml:"periodicity"`
	SmokingTime     string `yaml:"smoking_time"`
	ConsumptionType *int64 `yaml:"consumption_type"`
	Photo           string `yaml:"photo"`
}

type CoachSeed struct {
	Email       string   `yaml:"email"`
	Password    string   `yaml:"password"`
	Name        string   `yaml:"name"`
	Gender      string   `yaml:"gender"`
	Description string   `yaml:"description"`
	Address     string   `yaml:"address"`
	BirthDate   string   `yaml:"birth_date"`
	Latitude    *float64 `yaml:"latitude"`
	Longitude   *float64 `yaml:"longitude"`
	Price       *float64 `yaml:"price"`
	Photo       string   `yaml:"photo"`
}

type RequestSeed struct {
	UserID       int64   `yaml:"user_id"`
	CoachID      int64   `yaml:"coach_id"`
	Date         string  `yaml:"date"`
	Answered     bool    `yaml:"answered"`
	ResponseDate *string `yaml:"response_date"`
	Comment      string  `yaml:"comment"`
}

type FollowUpSeed struct {
	UserID          int64  `yaml:"user_id"`
	ConsumptionType *int64 `yaml:"consumption_type"`
	Quantity        int    `yaml:"quantity"`
}

// ParseFixtures decodes YAML seed data
func ParseFixtures(data []byte) (*Fixtures, error) {
	var fx Fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &fx, nil
}

// LoadFixtures reads seed data from path, or the built-in set when path is empty
func LoadFixtures(path string) (*Fixtures, error) {
	if path == "" {
		return ParseFixtures(defaultFixtures)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// Seed inserts the fixtures. Accounts go through the auth service so their
// passwords are hashed like signed-up ones.
func (b *Backend) Seed(ctx context.Context, fx *Fixtures, authService *auth.AuthService) error {
	for _, name := range fx.ConsumptionTypes {
		b.ConsumptionTypes.Insert(model.ConsumptionType{Name: name})
	}

	for _, s := range fx.Smokers {
		_, err := authService.SignupSmoker(ctx, model.User{
			Email:             s.Email,
			Password:          s.Password,
			Name:              optional(s.Name),
			Gender:            optional(s.Gender),
			BirthDate:         optional(s.BirthDate),
			CigaretteCount:    s.Cigarettes,
			Periodicity:       optional(s.Periodicity),
			SmokingTime:       optional(s.SmokingTime),
			ConsumptionTypeID: s.ConsumptionType,
			Photo:             optional(s.Photo),
		})
		if err != nil {
			return fmt.Errorf("seed smoker %q: %w", s.Email, err)
		}
	}

	for _, c := range fx.Coaches {
		_, err := authService.SignupCoach(ctx, model.CoachProfile{
			Email:       c.Email,
			Password:    c.Password,
			Name:        optional(c.Name),
			Gender:      optional(c.Gender),
			Description: optional(c.Description),
			Address:     optional(c.Address),
			BirthDate:   optional(c.BirthDate),
			Latitude:    c.Latitude,
			Longitude:   c.Longitude,
			Price:       c.Price,
			Photo:       optional(c.Photo),
		})
		if err != nil {
			return fmt.Errorf("seed coach %q: %w", c.Email, err)
		}
	}

	for _, r := range fx.Requests {
		b.Requests.Insert(model.CoachRequest{
			UserID:       r.UserID,
			CoachID:      r.CoachID,
			RequestDate:  r.Date,
			Answered:     r.Answered,
			ResponseDate: r.ResponseDate,
			Comment:      r.Comment,
		})
	}

	for _, f := range fx.FollowUps {
		b.FollowUps.Insert(model.FollowUpRecord{
			UserID:            f.UserID,
			ConsumptionTypeID: f.ConsumptionType,
			Quantity:          f.Quantity,
		})
	}

	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
