package user

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"size:150;not null;unique" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Token is the opaque bearer credential. One live token per user: rotation and
// re-login delete the old row before creating the next one.
type Token struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Token     string    `gorm:"size:100;not null;unique" json:"token"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (t Token) IsExpired(at time.Time) bool {
	return !at.Before(t.ExpiresAt)
}

// OperatorProfile binds a user to exactly one organizational unit and carries
// the per-operator manifest/DRS sequence counters. The counters hold the full
// numeric document number (year + random block + unit code + series) and must
// only be advanced through utils.ClaimManifestNumber / utils.ClaimDRSNumber.
type OperatorProfile struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Type        string `gorm:"size:10;not null;index" json:"type"` // hub, branch, admin
	Code        string `gorm:"size:50;not null;index" json:"code"`
	CodeName    string `gorm:"size:100" json:"code_name"`
	FirstName   string `gorm:"size:100" json:"firstname"`
	LastName    string `gorm:"size:100" json:"lastname"`
	PhoneNumber string `gorm:"size:20" json:"phone_number"`

	NextManifestSeq int64 `gorm:"not null;default:0" json:"next_manifest_seq"`
	NextDRSSeq      int64 `gorm:"not null;default:0" json:"next_drs_seq"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (p OperatorProfile) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
