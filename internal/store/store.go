package store

import (
	"context"                         // Context for every query
	"errors"                          // Sentinel errors
	"fmt"                             // Error wrapping
	"storefront_auth/internal/domain" // Importing domain models
	"time"                            // Timestamps

	"gorm.io/gorm" // GORM ORM library
)

var (
	ErrNotFound       = errors.New("record not found")         // No row matched
	ErrStale          = errors.New("login state changed")      // Streak version moved since read
	ErrDuplicateEmail = errors.New("email already registered") // Unique email violated
)

// Default and maximum page sizes for listings
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page selects a window of a listing, pages start at 1
type Page struct {
	Page     int
	PageSize int
}

// Normalize clamps the page into valid bounds
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Offset returns the row offset of the page
func (p Page) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TotalPages returns the number of pages for total rows
func (p Page) TotalPages(total int64) int {
	return int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
}

// CoinTransactionFilter narrows the ledger listing
type CoinTransactionFilter struct {
	UserID string     // Only this user's rows when set
	Type   string     // Only this transaction type when set
	From   *time.Time // Created at or after
	To     *time.Time // Created at or before
	Page   Page
}

// Store is the credential store backed by gorm
type Store struct{ db *gorm.DB }

// New returns a store using db
func New(db *gorm.DB) *Store { return &Store{db: db} }

// FindUserByEmail loads a user including the password hash
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, wrap("find user by email", err)
	}
	return &u, nil
}

// FindUserByID loads a user without the password hash
func (s *Store) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).Omit("password_hash").Where("id = ?", id).First(&u).Error; err != nil {
		return nil, wrap("find user by id", err)
	}
	return &u, nil
}

// CreateUser inserts u, rejecting a duplicate email
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("count users by email: %w", err)
		}
		if count > 0 {
			return ErrDuplicateEmail
		}
		if err := tx.Create(u).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateEmail // Lost a race with another registration
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
}

// loginColumns are the columns written by a login
var loginColumns = []string{
	"coins",
	"streak_current",
	"streak_longest",
	"streak_start_date",
	"streak_last_login_date",
	"streak_breaks",
	"streak_version",
	"updated_at",
}

// SaveLogin persists the streak and coin balance on u, only if the stored streak
// version still equals priorVersion. A positive award also appends a ledger row.
// Both writes commit together. ErrStale means another login won.
func (s *Store) SaveLogin(ctx context.Context, u *domain.User, priorVersion, award int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u.StreakVersion = priorVersion + 1
		res := tx.Model(u).Where("streak_version = ?", priorVersion).Select(loginColumns).Updates(u)
		if res.Error != nil {
			return fmt.Errorf("update login state: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			u.StreakVersion = priorVersion
			return ErrStale
		}
		if award <= 0 {
			return nil
		}
		entry := domain.CoinTransaction{
			UserID:    u.ID,                              // Credited user
			Amount:    award,                             // Reward amount
			Type:      domain.CoinTransactionLoginReward, // Transaction type
			StreakDay: u.LoginStreak.Current,             // Streak day that earned it
		}
		if err := tx.Create(&entry).Error; err != nil {
			u.StreakVersion = priorVersion
			return fmt.Errorf("record login reward: %w", err)
		}
		return nil
	})
}

// UpdatePassword stores a new hash for the user
func (s *Store) UpdatePassword(ctx context.Context, id, hash string, changedAt time.Time) error {
	res := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(map[string]any{
		"password_hash":        hash,
		"last_password_change": changedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUsers returns one page of users without password hashes, oldest first
func (s *Store) ListUsers(ctx context.Context, page Page) ([]domain.User, int64, error) {
	page = page.Normalize()
	db := s.db.WithContext(ctx)
	var total int64
	if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	var users []domain.User
	err := db.Omit("password_hash").Order("created_at ASC").Order("id ASC").
		Offset(page.Offset()).Limit(page.PageSize).Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// ListCoinTransactions returns one page of ledger rows matching f, newest first
func (s *Store) ListCoinTransactions(ctx context.Context, f CoinTransactionFilter) ([]domain.CoinTransaction, int64, error) {
	page := f.Page.Normalize()
	query := s.db.WithContext(ctx).Model(&domain.CoinTransaction{})
	if f.UserID != "" {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if f.From != nil {
		query = query.Where("created_at >= ?", f.From.UnixMilli())
	}
	if f.To != nil {
		query = query.Where("created_at <= ?", f.To.UnixMilli())
	}
	query = query.Session(&gorm.Session{}) // Count and Find each start from the filters
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count coin transactions: %w", err)
	}
	var txs []domain.CoinTransaction
	err := query.Order("created_at DESC").Order("id DESC").
		Offset(page.Offset()).Limit(page.PageSize).Find(&txs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list coin transactions: %w", err)
	}
	return txs, total, nil
}

func wrap(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
