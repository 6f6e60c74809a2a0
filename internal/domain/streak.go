package domain

import (
	"errors"
	"time"
)

const (
	BaseLoginReward   = 10 // Coins for every rewarded login
	StreakRewardStep  = 5  // Extra coins per streak day
	MaxStreakBonus    = 50 // Cap on the streak bonus
	StreakBreakReason = "Missed login"
)

var (
	// ErrInvalidTime is returned when the login time is unset.
	ErrInvalidTime = errors.New("login time is not set")
	// ErrClockSkew is returned when the login time falls on a calendar day before the last login.
	ErrClockSkew = errors.New("login time is before the last login")
)

// StreakReward returns the coins earned by a login that leaves the streak at current days.
func StreakReward(current int) int64 {
	return BaseLoginReward + min(int64(current)*StreakRewardStep, MaxStreakBonus)
}

// UpdateStreak applies a successful login at now to state and returns the new state
// together with the coins to credit. Days are calendar days in now's location.
//
// A second login on the same calendar day only moves LastLoginDate and earns nothing,
// so the reward is paid at most once per day.
func UpdateStreak(state LoginStreak, now time.Time) (LoginStreak, int64, error) {
	if now.IsZero() {
		return state, 0, ErrInvalidTime
	}
	next := state
	next.Breaks = append([]StreakBreak(nil), state.Breaks...)

	if state.LastLoginDate == nil {
		next.Current = 1
		next.Longest = max(state.Longest, 1)
		next.StartDate = timePtr(now)
	} else {
		last := *state.LastLoginDate
		switch days := calendarDaysBetween(last, now); {
		case days < 0:
			return state, 0, ErrClockSkew
		case days == 0:
			if now.After(last) {
				next.LastLoginDate = timePtr(now)
			}
			return next, 0, nil
		case days == 1:
			next.Current = state.Current + 1
			next.Longest = max(state.Longest, next.Current)
		default:
			if state.Current > 0 {
				next.Breaks = append(next.Breaks, StreakBreak{
					StartDate: last,
					EndDate:   now,
					Reason:    StreakBreakReason,
				})
			}
			next.Current = 1
			next.Longest = max(state.Longest, 1)
			next.StartDate = timePtr(now)
		}
	}

	next.LastLoginDate = timePtr(now)
	return next, StreakReward(next.Current), nil
}

// calendarDaysBetween counts calendar-date boundaries from a to b in b's location.
func calendarDaysBetween(a, b time.Time) int {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
