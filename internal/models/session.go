package models

import "gorm.io/gorm"

// Session is the locally persisted sign-in state: the authenticated user plus
// the token issued by the marketplace backend. The token is the only credential
// ever stored; passwords pass through to the backend and are never kept.
type Session struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Token      string `json:"-" gorm:"type:text"`
	UserID     string `json:"user_id" gorm:"type:varchar(36)"`
	UserName   string `json:"user_name"`
	UserEmail  string `json:"user_email"`
	UserTel    string `json:"user_tel"`
	UserAvatar string `json:"user_avatar"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// User rebuilds the signed-in account from the flattened session row.
func (s *Session) User() User {
	return User{
		ID:     s.UserID,
		Name:   s.UserName,
		Email:  s.UserEmail,
		Tel:    s.UserTel,
		Avatar: s.UserAvatar,
	}
}

// NewSession flattens a backend sign-in result into a persistable row.
func NewSession(user User, token string) *Session {
	return &Session{
		Token:      token,
		UserID:     user.ID,
		UserName:   user.Name,
		UserEmail:  user.Email,
		UserTel:    user.Tel,
		UserAvatar: user.Avatar,
	}
}
