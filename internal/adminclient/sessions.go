package adminclient

import "fmt"

// Session mirrors adminapi's sessionView wire shape.
type Session struct {
	Slot        int    `json:"slot"`
	IdentityID  int64  `json:"identity_id"`
	CharacterID int    `json:"character_id"`
	IsModerator bool   `json:"is_moderator"`
	DisplayName string `json:"display_name,omitempty"`
}

// ListSessions fetches every active session from GET /api/v1/sessions.
func (c *Client) ListSessions() ([]Session, error) {
	var sessions []Session
	if err := c.get("/api/v1/sessions", &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// KickSession disconnects the session in slot via
// POST /api/v1/sessions/{slot}/kick.
func (c *Client) KickSession(slot int) error {
	return c.post(fmt.Sprintf("/api/v1/sessions/%d/kick", slot), nil, nil)
}

// BanRequest is the wire shape for POST /api/v1/bans.
type BanRequest struct {
	IP     string `json:"ip"`
	Reason string `json:"reason"`
}

// AddBan bans ip via POST /api/v1/bans.
func (c *Client) AddBan(ip, reason string) error {
	return c.post("/api/v1/bans", BanRequest{IP: ip, Reason: reason}, nil)
}
