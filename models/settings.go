package models

// DefaultPartnerName is used until the user names the partner.
const DefaultPartnerName = "パートナー"

// Settings holds per-user partner configuration (one row per user).
type Settings struct {
	ID              int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID          int64  `gorm:"not null;unique" json:"user_id"`
	PartnerName     string `gorm:"not null;default:'パートナー'" json:"partner_name" form:"partner_name"`
	PartnerNickname string `json:"partner_nickname" form:"partner_nickname"`
	StartDate       string `json:"start_date" form:"start_date"` // YYYY-MM-DD
}

// DisplayName is the label used in prompts and contexts.
func (s Settings) DisplayName() string {
	if s.PartnerName == "" {
		return DefaultPartnerName
	}
	return s.PartnerName
}
