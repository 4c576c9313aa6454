package models

import (
	"amomaster/tools"
	"time"
)

const USER_GENDER_MALE = "male"
const USER_GENDER_FEMALE = "female"
const USER_GENDER_OTHER = "other"
const USER_GENDER_UNSPECIFIED = "unspecified"

const PARTNER_PRONOUN_HE = "he"
const PARTNER_PRONOUN_SHE = "she"
const PARTNER_PRONOUN_PARTNER = "partner"

/************************************************
/**** MARK: USER STATUS ****/
/************************************************/
const USER_STATUS_AVAILABLE = 0
const USER_STATUS_BLOCKED = 2

// User is the account owning every record. All other entities are
// partitioned by User.ID.
type User struct {
	ID             int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name           string     `json:"name" form:"name"`
	Email          string     `gorm:"not null;unique" json:"email" form:"email"`
	Password       string     `gorm:"not null" json:"password,omitempty" form:"password"`
	Gender         string     `gorm:"default:'unspecified'" json:"gender" form:"gender"`
	GenderCustom   string     `gorm:"column:gender_custom" json:"gender_custom" form:"gender_custom"`
	PartnerPronoun string     `gorm:"column:partner_pronoun;default:'partner'" json:"partner_pronoun" form:"partner_pronoun"`
	Status         int        `gorm:"default:0" json:"status"`
	Admin          bool       `gorm:"not null;default:false" json:"admin"`
	TrialStartDate string     `gorm:"column:trial_start_date" json:"trial_start_date"` // YYYY-MM-DD
	AIUsageCount   int        `gorm:"column:ai_usage_count;not null;default:0" json:"ai_usage_count"`
	AIUsageDate    string     `gorm:"column:ai_usage_date" json:"ai_usage_date"` // YYYY-MM-DD
	IsPremium      bool       `gorm:"column:is_premium;not null;default:false" json:"is_premium"`
	CreatedAt      *time.Time `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}

func (user User) MissingFields() string {
	if user.Email == "" {
		return "email"
	} else if user.Password == "" {
		return "password"
	} else if tools.CheckPassword(user.Password) != "" {
		return tools.CheckPassword(user.Password)
	}
	return ""
}

// DisplayName falls back to the local part of the e-mail.
func (user User) DisplayName() string {
	if user.Name != "" {
		return user.Name
	}
	for i, r := range user.Email {
		if r == '@' {
			return user.Email[:i]
		}
	}
	return user.Email
}

func IsValidGender(gender string) bool {
	switch gender {
	case USER_GENDER_MALE, USER_GENDER_FEMALE, USER_GENDER_OTHER, USER_GENDER_UNSPECIFIED:
		return true
	}
	return false
}

func IsValidPartnerPronoun(pronoun string) bool {
	switch pronoun {
	case PARTNER_PRONOUN_HE, PARTNER_PRONOUN_SHE, PARTNER_PRONOUN_PARTNER:
		return true
	}
	return false
}
