package domain

import "time"

// Role is the authorization role of an identity
type Role string

const (
	RoleUser  Role = "user"  // Regular storefront account
	RoleAdmin Role = "admin" // Administrative account
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User Model
type User struct {
	ID                 string      `gorm:"primaryKey;size:36" json:"id"`                       // UUID assigned at creation
	Name               string      `gorm:"size:50;not null" json:"name"`                       // Display name
	Email              string      `gorm:"uniqueIndex;size:191;not null" json:"email"`         // Lowercased email
	PasswordHash       string      `gorm:"size:255;not null" json:"-"`                         // Hashed password, never serialized
	Role               Role        `gorm:"size:16;not null;default:user" json:"role"`          // Role: user or admin
	Coins              int64       `gorm:"not null;default:0" json:"coins"`                    // Reward balance
	LoginStreak        LoginStreak `gorm:"embedded;embeddedPrefix:streak_" json:"loginStreak"` // Login streak state
	StreakVersion      int64       `gorm:"not null;default:0" json:"-"`                        // Bumped on every login write
	LastPasswordChange *time.Time  `json:"lastPasswordChange,omitempty"`                       // Last password change
	CreatedAt          time.Time   `json:"createdAt"`                                          // Creation time
	UpdatedAt          time.Time   `json:"updatedAt"`                                          // Last update time
}

// LoginStreak tracks consecutive calendar days with a successful login
type LoginStreak struct {
	Current       int           `gorm:"not null;default:0" json:"current"`       // Current streak length
	Longest       int           `gorm:"not null;default:0" json:"longest"`       // Longest streak ever
	StartDate     *time.Time    `json:"startDate"`                               // Start of the current streak
	LastLoginDate *time.Time    `gorm:"index" json:"lastLoginDate"`              // Last successful login
	Breaks        []StreakBreak `gorm:"serializer:json;type:text" json:"breaks"` // History of broken streaks
}

// StreakBreak records a gap that reset the streak
type StreakBreak struct {
	StartDate time.Time `json:"startDate"` // Last login before the gap
	EndDate   time.Time `json:"endDate"`   // Login that ended the gap
	Reason    string    `json:"reason"`    // Why the streak broke
}

// Profile is the public view of an account
type Profile struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Role        Role         `json:"role"`
	Coins       int64        `json:"coins"`
	LoginStreak *LoginStreak `json:"loginStreak,omitempty"`
}

// Profile returns the user's public view (no password hash)
func (u *User) Profile() Profile {
	streak := u.LoginStreak
	return Profile{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Coins:       u.Coins,
		LoginStreak: &streak,
	}
}
