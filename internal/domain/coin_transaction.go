package domain

// CoinTransactionLoginReward is the ledger type for streak rewards
const CoinTransactionLoginReward = "login_reward"

// CoinTransaction Model
type CoinTransaction struct {
	ID        uint   `gorm:"primaryKey" json:"id"`                  // Primary key
	UserID    string `gorm:"size:36;index;not null" json:"userId"`  // Credited user
	Amount    int64  `gorm:"not null" json:"amount"`                // Coins credited
	Type      string `gorm:"size:32;not null" json:"type"`          // Transaction type: login_reward
	StreakDay int    `gorm:"not null;default:0" json:"streakDay"`   // Streak length that earned the reward
	CreatedAt int64  `gorm:"autoCreateTime:milli" json:"createdAt"` // Timestamp of creation in milliseconds
}
