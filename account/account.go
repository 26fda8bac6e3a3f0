package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hushhly/auth"
	"hushhly/config"
	"hushhly/model"
	"hushhly/store"
	"hushhly/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// returningAfter is how long a user stays "new" before logins mark them returning
const returningAfter = 24 * time.Hour

var errEmailClaimed = errors.New("email claimed")

// Service manages user profiles and credentials
type Service struct {
	docs  *store.DocumentStore
	jwt   *auth.JWTManager
	rules config.PasswordRulesConfig
	now   func() time.Time
}

func NewService(docs *store.DocumentStore, jwt *auth.JWTManager, rules config.PasswordRulesConfig, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{docs: docs, jwt: jwt, rules: rules, now: now}
}

// Register creates a user. The email index entry is claimed first so two
// registrations of one address cannot both succeed.
func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	email := utils.NormalizeEmail(req.Email)
	if err := utils.ValidateEmail(email); err != nil {
		return model.User{}, err
	}
	if err := utils.ValidatePassword(req.Password, email, s.rules); err != nil {
		return model.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	now := s.now()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		UserType:     model.UserTypeNew,
		Tags:         []string{},
		Actions:      []string{},
		CreatedAt:    now,
	}

	_, err = store.Mutate(ctx, s.docs, store.NamespaceUserEmails, email, func() string { return "" }, func(id *string) error {
		if *id != "" {
			return errEmailClaimed
		}
		*id = user.ID
		return nil
	})
	if errors.Is(err, errEmailClaimed) {
		return model.User{}, utils.ErrEmailTaken
	}
	if err != nil {
		return model.User{}, err
	}

	if err := s.docs.Set(ctx, store.NamespaceUsers, user.ID, user); err != nil {
		// Release the claim so the address can be registered again
		if derr := s.docs.Delete(ctx, store.NamespaceUserEmails, email); derr != nil {
			log.Error().Err(derr).Str("email", email).Msg("Failed to release email claim")
		}
		return model.User{}, err
	}

	log.Info().Str("user_id", user.ID).Str("email", email).Msg("User registered")
	return user, nil
}

// Login checks credentials and issues an access token
func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	email := utils.NormalizeEmail(req.Email)

	var userID string
	found, err := s.docs.Get(ctx, store.NamespaceUserEmails, email, &userID)
	if err != nil {
		return model.LoginResponse{}, err
	}
	if !found || userID == "" {
		return model.LoginResponse{}, utils.ErrInvalidCredentials
	}

	user, err := s.GetUser(ctx, userID)
	if errors.Is(err, utils.ErrUserNotFound) {
		return model.LoginResponse{}, utils.ErrInvalidCredentials
	}
	if err != nil {
		return model.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Warn().Str("email", email).Msg("Failed login attempt")
		return model.LoginResponse{}, utils.ErrInvalidCredentials
	}

	now := s.now()
	user, err = s.update(ctx, userID, func(u *model.User) error {
		u.LastLoginAt = now
		if u.UserType == model.UserTypeNew && now.Sub(u.CreatedAt) >= returningAfter {
			u.UserType = model.UserTypeReturning
		}
		return nil
	})
	if err != nil {
		return model.LoginResponse{}, err
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return model.LoginResponse{}, err
	}

	log.Info().Str("user_id", user.ID).Msg("User logged in")
	return model.LoginResponse{AccessToken: token, User: user.ToResponse()}, nil
}

// GetUser returns utils.ErrUserNotFound for unknown ids
func (s *Service) GetUser(ctx context.Context, userID string) (model.User, error) {
	if userID == "" {
		return model.User{}, utils.ErrEmptyUserID
	}
	var user model.User
	found, err := s.docs.Get(ctx, store.NamespaceUsers, userID, &user)
	if err != nil {
		return model.User{}, err
	}
	if !found {
		return model.User{}, utils.ErrUserNotFound
	}
	return user, nil
}

// RecordAction marks a product action as done, e.g. completed_onboarding
func (s *Service) RecordAction(ctx context.Context, userID, action string) (model.User, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return model.User{}, fmt.Errorf("action: %w", utils.ErrEmptyField)
	}
	if !model.IsUserAction(action) {
		return model.User{}, fmt.Errorf("%q: %w", action, utils.ErrUnknownAction)
	}
	return s.update(ctx, userID, func(u *model.User) error {
		if !u.HasAction(action) {
			u.Actions = append(u.Actions, action)
		}
		return nil
	})
}

// AddTag attaches a cohort tag. Tags gate promo codes, so only operators
// may assign them.
func (s *Service) AddTag(ctx context.Context, userID, tag string) (model.User, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return model.User{}, fmt.Errorf("tag: %w", utils.ErrEmptyField)
	}
	return s.update(ctx, userID, func(u *model.User) error {
		if !u.HasTag(tag) {
			u.Tags = append(u.Tags, tag)
		}
		return nil
	})
}

// SetUserType changes the user type evaluated by promo rules
func (s *Service) SetUserType(ctx context.Context, userID, userType string) (model.User, error) {
	switch userType {
	case model.UserTypeNew, model.UserTypeReturning, model.UserTypePremium:
	default:
		return model.User{}, fmt.Errorf("unknown user type %q: %w", userType, utils.ErrEmptyField)
	}
	return s.update(ctx, userID, func(u *model.User) error {
		u.UserType = userType
		return nil
	})
}

// update mutates an existing user; unknown ids fail without writing
func (s *Service) update(ctx context.Context, userID string, fn func(*model.User) error) (model.User, error) {
	if userID == "" {
		return model.User{}, utils.ErrEmptyUserID
	}
	return store.Mutate(ctx, s.docs, store.NamespaceUsers, userID, func() model.User { return model.User{} }, func(u *model.User) error {
		if u.ID == "" {
			return utils.ErrUserNotFound
		}
		return fn(u)
	})
}
