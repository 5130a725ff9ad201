package model

// SecretID identifies a secret card within its session
type SecretID int64

// Secret is a hidden identity card. At most one per session is the murderer
// and at most one the accomplice.
type Secret struct {
	ID           SecretID
	OwnerID      PlayerID
	IsMurderer   bool
	IsAccomplice bool
	IsRevealed   bool
}

// IsGuilty returns true for the murderer and accomplice secrets
func (s *Secret) IsGuilty() bool {
	return s.IsMurderer || s.IsAccomplice
}
