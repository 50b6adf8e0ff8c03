// Package session holds the kiosk terminal's identity state. A Session is an
// explicit value passed into every engine call — there is no process-global
// "current user". One terminal carries at most one active identity; logging
// in overwrites whatever was there.
package session

// Session is the per-terminal identity context.
//
// UserID is the active identity (nil = nobody logged in). PendingUserID is
// set when a card scan matched a PIN-protected user: the candidate is parked
// here so the UI can re-prompt for the PIN without another scan, but no
// identity is granted until the PIN verifies.
type Session struct {
	Token         string `json:"-"`
	UserID        *int64 `json:"user_id,omitempty"`
	PendingUserID *int64 `json:"pending_user_id,omitempty"`
}

// Login establishes userID as the active identity and clears any pending
// PIN challenge.
func (s *Session) Login(userID int64) {
	s.UserID = &userID
	s.PendingUserID = nil
}

// Logout clears both the active identity and any pending challenge.
func (s *Session) Logout() {
	s.UserID = nil
	s.PendingUserID = nil
}
