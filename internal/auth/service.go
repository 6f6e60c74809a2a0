package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"storefront_auth/internal/domain"
	"storefront_auth/internal/metrics"
	"storefront_auth/internal/store"
	"storefront_auth/internal/utils"
)

// maxLoginWrites bounds how often a login write is recomputed after losing a
// version check to a concurrent login.
const maxLoginWrites = 3

// UserStore is the persistence the service needs.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
	SaveLogin(ctx context.Context, u *domain.User, priorVersion, award int64) error
	UpdatePassword(ctx context.Context, id, hash string, changedAt time.Time) error
}

// Config is the immutable privileged identity configuration.
type Config struct {
	AdminEmail    string
	AdminPassword string
	// Location decides which calendar day a login falls on. Defaults to UTC.
	Location *time.Location
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Identity     domain.Profile `json:"identity"`
	Token        string         `json:"token"`
	CoinsAwarded int64          `json:"coinsAwarded"`
}

// Service authenticates callers and applies the login reward.
type Service struct {
	adminEmail  string
	adminDigest [sha256.Size]byte
	loc         *time.Location
	users       UserStore
	hasher      utils.PasswordHasher
	tokens      *utils.TokenService
	locker      store.Locker
	now         func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// Option customizes a Service.
type Option func(*Service)

// WithClock sets the clock used for streak days.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocker sets the per-user login lock. Defaults to an in-process lock.
func WithLocker(l store.Locker) Option {
	return func(s *Service) { s.locker = l }
}

// NewService creates a new Service.
func NewService(cfg Config, users UserStore, hasher utils.PasswordHasher, tokens *utils.TokenService, opts ...Option) (*Service, error) {
	adminEmail := NormalizeEmail(cfg.AdminEmail)
	if adminEmail == "" || cfg.AdminPassword == "" {
		return nil, errors.New("privileged identity email and password are required")
	}
	if users == nil || hasher == nil || tokens == nil {
		return nil, errors.New("user store, hasher and token service are required")
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	s := &Service{
		adminEmail:  adminEmail,
		adminDigest: sha256.Sum256([]byte(cfg.AdminPassword)),
		loc:         loc,
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		locker:      store.NewLocalLocker(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login verifies credentials, applies the streak reward for stored users and
// issues a session token. Every credential failure returns the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	start := time.Now()
	email = NormalizeEmail(email)

	if email == s.adminEmail {
		if !s.isAdminPassword(password) {
			logrus.WithField("identity", domain.PrivilegedID).Warn("Privileged login rejected")
			metrics.RecordLogin(metrics.ResultInvalidCredentials, "", 0, 0)
			return nil, invalidCredentials()
		}
		identity := domain.NewPrivilegedIdentity(s.adminEmail)
		token, err := s.tokens.Issue(domain.PrivilegedID, s.adminEmail)
		if err != nil {
			metrics.RecordLogin(metrics.ResultError, "", 0, 0)
			return nil, oopsInternal("issue token", err)
		}
		metrics.RecordLogin(metrics.ResultSuccess, metrics.KindPrivileged, time.Since(start), 0)
		logrus.WithField("identity", domain.PrivilegedID).Info("Privileged login")
		return &LoginResult{Identity: identity.Profile(), Token: token}, nil
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		s.hasher.Verify(password, s.dummyPasswordHash()) // Same work as a real account
		metrics.RecordLogin(metrics.ResultInvalidCredentials, "", 0, 0)
		return nil, invalidCredentials()
	}
	if err != nil {
		s.logPersistence("find user by email", "", err)
		metrics.RecordLogin(metrics.ResultPersistenceFailure, "", 0, 0)
		return nil, persistence("find user by email", err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		logrus.WithField("user_id", user.ID).Info("Login rejected")
		metrics.RecordLogin(metrics.ResultInvalidCredentials, "", 0, 0)
		return nil, invalidCredentials()
	}

	award, err := s.applyLoginReward(ctx, user)
	if err != nil {
		metrics.RecordLogin(metrics.ResultPersistenceFailure, "", 0, 0)
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, "")
	if err != nil {
		metrics.RecordLogin(metrics.ResultError, "", 0, 0)
		return nil, oopsInternal("issue token", err)
	}
	metrics.RecordLogin(metrics.ResultSuccess, metrics.KindStored, time.Since(start), award)
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"streak":  user.LoginStreak.Current,
		"coins":   award,
	}).Info("Login")
	return &LoginResult{Identity: user.Profile(), Token: token, CoinsAwarded: award}, nil
}

// applyLoginReward runs the streak engine under the user's lock and writes the
// result with a version check. A lost check reloads the user and recomputes, so
// a calendar day is never rewarded twice. Other write errors are returned as is.
func (s *Service) applyLoginReward(ctx context.Context, user *domain.User) (int64, error) {
	unlock, err := s.locker.Lock(ctx, "login:"+user.ID)
	if err != nil {
		s.logPersistence("acquire login lock", user.ID, err)
		return 0, persistence("acquire login lock", err)
	}
	defer unlock()

	for attempt := 1; ; attempt++ {
		next, award, err := domain.UpdateStreak(user.LoginStreak, s.now().In(s.loc))
		if errors.Is(err, domain.ErrClockSkew) {
			logrus.WithFields(logrus.Fields{
				"user_id":    user.ID,
				"last_login": user.LoginStreak.LastLoginDate,
			}).Warn("Login time before last login, streak left unchanged")
			return 0, nil
		}
		if err != nil {
			return 0, oopsInternal("update streak", err)
		}

		updated := *user
		updated.LoginStreak = next
		updated.Coins += award
		err = s.users.SaveLogin(ctx, &updated, user.StreakVersion, award)
		if err == nil {
			*user = updated
			return award, nil
		}
		if !errors.Is(err, store.ErrStale) {
			s.logPersistence("save login", user.ID, err)
			return 0, persistence("save login", err)
		}

		metrics.StaleLoginWrites.Inc()
		if attempt == maxLoginWrites {
			s.logPersistence("save login", user.ID, err)
			return 0, persistence("save login", err)
		}
		fresh, err := s.users.FindUserByID(ctx, user.ID)
		if err != nil {
			s.logPersistence("reload user", user.ID, err)
			return 0, persistence("reload user", err)
		}
		*user = *fresh
	}
}

// Authenticate resolves a bearer token to an identity.
func (s *Service) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return nil, unauthenticated(MsgUnauthenticated)
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		metrics.TokenRejections.Inc()
		return nil, unauthenticated(MsgInvalidToken)
	}
	if claims.Email != "" {
		if claims.Subject == domain.PrivilegedID && NormalizeEmail(claims.Email) == s.adminEmail {
			return domain.NewPrivilegedIdentity(s.adminEmail), nil
		}
		metrics.TokenRejections.Inc()
		return nil, unauthenticated(MsgInvalidToken)
	}
	user, err := s.users.FindUserByID(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		metrics.TokenRejections.Inc()
		return nil, unauthenticated(MsgInvalidToken)
	}
	if err != nil {
		s.logPersistence("find user by id", claims.Subject, err)
		return nil, persistence("find user by id", err)
	}
	return domain.StoredIdentity{User: user}, nil
}

// Authorize checks that identity holds one of the allowed roles.
func (s *Service) Authorize(identity domain.Identity, allowed ...domain.Role) error {
	if identity == nil {
		return unauthenticated(MsgUnauthenticated)
	}
	if !domain.HasRole(identity, allowed...) {
		logrus.WithFields(logrus.Fields{
			"identity": identity.ID(),
			"role":     identity.Role(),
		}).Warn("Access denied")
		return forbidden()
	}
	return nil
}

func (s *Service) isAdminPassword(password string) bool {
	digest := sha256.Sum256([]byte(password))
	return subtle.ConstantTimeCompare(digest[:], s.adminDigest[:]) == 1
}

func (s *Service) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("storefront-dummy-password")
		if err != nil {
			logrus.WithError(err).Error("Failed to create dummy password hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func (s *Service) logPersistence(op, userID string, err error) {
	logrus.WithFields(logrus.Fields{
		"operation": op,
		"user_id":   userID,
		"error":     err.Error(),
	}).Error("Persistence failure")
}
