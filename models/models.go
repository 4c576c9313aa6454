package models

// All lists every persisted model. Owned records come first so that the
// list doubles as the deletion order for an account.
func All() []interface{} {
	return []interface{}{
		&Preference{},
		&Quote{},
		&Event{},
		&Settings{},
		&DiaryEntry{},
		&Feedback{},
		&RefreshToken{},
		&User{},
	}
}
