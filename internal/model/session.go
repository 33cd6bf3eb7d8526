package model

// Session 当前登录者的展示信息，由登录令牌的载荷解码而来
type Session struct {
	SubjectID   string `json:"subjectId"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	DisplayName string `json:"displayName,omitempty"`
}

func (s *Session) HasRole(r Role) bool {
	return s != nil && s.Role == r
}

// SessionFromClaims 从令牌载荷构造会话；载荷缺少邮箱时使用登录邮箱
func SessionFromClaims(claims map[string]any, loginEmail string) Session {
	s := Session{
		SubjectID:   pickString(claims, "id", "userId", "user_id", "sub"),
		Email:       pickString(claims, "email"),
		Role:        ParseRole(pickString(claims, "role", "userRole", "user_role")),
		DisplayName: pickString(claims, "name", "fullName", "full_name", "displayName", "username"),
	}
	if s.Email == "" {
		s.Email = loginEmail
	}
	return s
}
