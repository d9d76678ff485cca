package middleware

import (
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"courier-backend/models/user"
)

const (
	defaultTokenTTLHours    = 120 // 5 days
	defaultRenewalWindowHrs = 24
)

// Now is the middleware clock; swapped out in tests to drive expiry paths.
var Now = time.Now

func TokenTTL() time.Duration {
	if v, err := strconv.Atoi(os.Getenv("TOKEN_TTL_HOURS")); err == nil && v > 0 {
		return time.Duration(v) * time.Hour
	}
	return defaultTokenTTLHours * time.Hour
}

func RenewalWindow() time.Duration {
	if v, err := strconv.Atoi(os.Getenv("TOKEN_RENEWAL_HOURS")); err == nil && v > 0 {
		return time.Duration(v) * time.Hour
	}
	return defaultRenewalWindowHrs * time.Hour
}

// IssueToken replaces any live token for the user with a fresh one. Delete and
// create share a transaction so the user never ends up with zero or two live
// tokens.
func IssueToken(db *gorm.DB, userID uint) (user.Token, error) {
	fresh := user.Token{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: Now().Add(TokenTTL()),
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&user.Token{}).Error; err != nil {
			return err
		}
		return tx.Create(&fresh).Error
	})
	if err != nil {
		return user.Token{}, err
	}
	return fresh, nil
}
