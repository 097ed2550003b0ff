package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/repository"
	apperrors "github.com/spec-kit/auth-service/pkg/util/errorutil"
)

// BearerTokenType is the token_type reported to clients.
const BearerTokenType = "bearer"

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int64
	IsSuperuser  bool
}

// RefreshResult is returned by a successful refresh.
type RefreshResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
}

// AuthService coordinates login, refresh, password changes and user admin.
type AuthService struct {
	users      repository.UserRepository
	hasher     auth.CredentialHasher
	issuer     *auth.TokenIssuer
	verifier   *auth.TokenVerifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time

	// decoyHash is verified against when the identifier is unknown so both
	// rejection paths pay the same hashing cost.
	decoyHash string
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	Users      repository.UserRepository
	Hasher     auth.CredentialHasher
	Issuer     *auth.TokenIssuer
	Verifier   *auth.TokenVerifier
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) (*AuthService, error) {
	if deps.Users == nil || deps.Hasher == nil || deps.Issuer == nil || deps.Verifier == nil {
		return nil, errors.New("auth service requires users, hasher, issuer and verifier")
	}
	if deps.Dispatcher == nil {
		deps.Dispatcher = events.NewInMemoryDispatcher()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	decoy, err := newDecoyHash(deps.Hasher)
	if err != nil {
		return nil, err
	}

	return &AuthService{
		users:      deps.Users,
		hasher:     deps.Hasher,
		issuer:     deps.Issuer,
		verifier:   deps.Verifier,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        deps.Now,
		decoyHash:  decoy,
	}, nil
}

// Verifier exposes the token verifier for middleware usage.
func (s *AuthService) Verifier() *auth.TokenVerifier {
	return s.verifier
}

// Authenticate checks credentials. Unknown identifiers and wrong secrets both
// yield ErrInvalidCredential.
func (s *AuthService) Authenticate(ctx context.Context, identifier, secret string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(identifier))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInternalError(err)
		}
		s.hasher.Verify(secret, s.decoyHash)
		return nil, apperrors.ErrInvalidCredential
	}
	if !s.hasher.Verify(secret, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredential
	}
	return user, nil
}

// Login authenticates and issues an access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, identifier, secret string) (*LoginResult, error) {
	user, err := s.Authenticate(ctx, identifier, secret)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredential) {
			event := events.NewEvent(events.EventLoginRejected, "", s.now())
			event.Identifier = normalizeEmail(identifier)
			s.publish(ctx, event)
		}
		return nil, err
	}

	access, _, err := s.issuer.IssueAccessToken(user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("issue access token: %w", err))
	}
	refresh, _, err := s.issuer.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("issue refresh token: %w", err))
	}

	if err := s.users.UpdateLastAuthenticated(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn("failed to record last authentication", zap.String("user_id", user.ID), zap.Error(err))
	}
	s.publish(ctx, events.NewEvent(events.EventLoginSucceeded, user.ID, s.now()))

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    BearerTokenType,
		ExpiresIn:    s.expiresIn(),
		IsSuperuser:  user.IsSuperuser,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The refresh
// token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claim, err := s.verifier.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	if _, err := s.loadUser(ctx, claim.Subject); err != nil {
		return nil, err
	}

	access, _, err := s.issuer.IssueAccessToken(claim.Subject)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("issue access token: %w", err))
	}
	s.publish(ctx, events.NewEvent(events.EventTokenRefreshed, claim.Subject, s.now()))

	return &RefreshResult{
		AccessToken: access,
		TokenType:   BearerTokenType,
		ExpiresIn:   s.expiresIn(),
	}, nil
}

// ChangePassword verifies the current password, then swaps in a hash of the
// new one. The write is conditional on the hash that was verified.
func (s *AuthService) ChangePassword(ctx context.Context, subjectID, currentPassword, newPassword string) error {
	user, err := s.loadUser(ctx, subjectID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredential
	}
	if s.hasher.Verify(newPassword, user.PasswordHash) {
		return apperrors.ErrSamePassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.CodeValidation {
			return err
		}
		return apperrors.NewInternalError(err)
	}

	switch err := s.users.UpdatePasswordHash(ctx, user.ID, user.PasswordHash, hash); {
	case err == nil:
	case errors.Is(err, repository.ErrHashChanged):
		return apperrors.Wrap(apperrors.ErrInvalidCredential, err)
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFound("user", map[string]any{"id": user.ID})
	default:
		return apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventPasswordChanged, user.ID, s.now()))
	return nil
}

// RequireSuperuser loads the claim's subject and checks its role. The claim
// must already have passed VerifyAccess.
func (s *AuthService) RequireSuperuser(ctx context.Context, claim domain.TokenClaim) (*domain.User, error) {
	user, err := s.loadUser(ctx, claim.Subject)
	if err != nil {
		return nil, err
	}
	if !user.IsSuperuser {
		return nil, apperrors.ErrForbidden
	}
	return user, nil
}

// CreateUser registers a new account. Only superusers reach this through HTTP.
func (s *AuthService) CreateUser(ctx context.Context, actorID, email, password string, isSuperuser bool) (*domain.User, error) {
	email = normalizeEmail(email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.CodeValidation {
			return nil, err
		}
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		IsSuperuser:  isSuperuser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	event := events.NewEvent(events.EventUserCreated, user.ID, s.now())
	event.ActorID = actorID
	s.publish(ctx, event)
	return user, nil
}

// EnsureSuperuser creates a superuser with the given credentials unless the
// email is already registered. Existing accounts are left untouched.
func (s *AuthService) EnsureSuperuser(ctx context.Context, email, password string) (bool, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return false, nil
	}
	_, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, apperrors.NewInternalError(err)
	}
	if _, err := s.CreateUser(ctx, "", email, password, true); err != nil {
		return false, err
	}
	return true, nil
}

// ListUsers returns every registered account. Only superusers reach this through HTTP.
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return users, nil
}

// DeleteUser removes an account. Superusers cannot delete themselves.
func (s *AuthService) DeleteUser(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return apperrors.NewValidationError("cannot delete your own account", nil)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"id": userID})
		}
		return apperrors.NewInternalError(err)
	}

	event := events.NewEvent(events.EventUserDeleted, userID, s.now())
	event.ActorID = actorID
	s.publish(ctx, event)
	return nil
}

func (s *AuthService) loadUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish auth event", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func (s *AuthService) expiresIn() int64 {
	return int64(s.issuer.AccessTTL() / time.Second)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newDecoyHash(hasher auth.CredentialHasher) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate decoy secret: %w", err)
	}
	hash, err := hasher.Hash(hex.EncodeToString(buf))
	if err != nil {
		return "", fmt.Errorf("hash decoy secret: %w", err)
	}
	return hash, nil
}
