package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"skill_console/internal/model"
	"skill_console/internal/repository"
	"skill_console/internal/session"
	"skill_console/internal/util"
	"skill_console/pkg/logger"
	"skill_console/pkg/monitoring"

	"go.uber.org/zap"
)

type AuthService struct {
	AuthRepo *repository.AuthRepository
	Store    session.Store
}

func NewAuthService(authRepo *repository.AuthRepository, store session.Store) *AuthService {
	return &AuthService{
		AuthRepo: authRepo,
		Store:    store,
	}
}

func (s *AuthService) NewSessionID() string {
	return model.GenerateUUID()
}

// Login 后端校验凭据，控制台只解码令牌载荷用于展示和菜单控制
func (s *AuthService) Login(ctx context.Context, sid, email, password string) (*model.Session, error) {
	email = strings.TrimSpace(email)
	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, util.NewValidationError(missing...)
	}

	raw, err := s.AuthRepo.Login(ctx, email, password)
	if err != nil {
		monitoring.LoginAttempts.WithLabelValues("rejected").Inc()
		var reqErr *util.RequestError
		if errors.As(err, &reqErr) {
			return nil, &util.AuthError{Reason: "credentials rejected", Err: err}
		}
		return nil, err
	}

	body, err := repository.DecodeObject(raw)
	if err != nil {
		return nil, &util.AuthError{Reason: "unreadable login response", Err: err}
	}
	token := extractToken(body)
	if token == "" {
		return nil, &util.AuthError{Reason: "no token returned"}
	}

	claims, err := util.DecodeTokenPayload(token)
	if err != nil {
		return nil, &util.AuthError{Reason: "undecodable token", Err: err}
	}
	current := model.SessionFromClaims(claims, email)
	if user, ok := body["user"].(map[string]any); ok {
		fromUser := model.SessionFromClaims(user, email)
		if current.Role == model.RoleNone {
			current.Role = fromUser.Role
		}
		if current.DisplayName == "" {
			current.DisplayName = fromUser.DisplayName
		}
		if current.SubjectID == "" {
			current.SubjectID = fromUser.SubjectID
		}
	}

	encoded, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}
	if err := s.Store.Set(ctx, sid, session.KeyToken, token); err != nil {
		return nil, err
	}
	if err := s.Store.Set(ctx, sid, session.KeySession, string(encoded)); err != nil {
		return nil, err
	}

	monitoring.LoginAttempts.WithLabelValues("success").Inc()
	logger.Log.Info("Console login",
		zap.String("subject_id", current.SubjectID),
		zap.String("role", current.Role.String()))
	return &current, nil
}

func extractToken(body model.Raw) string {
	for _, key := range []string{"token", "accessToken", "access_token"} {
		if v, ok := body[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	if nested, ok := body["data"].(map[string]any); ok {
		return extractToken(nested)
	}
	return ""
}

// CurrentSession 没有会话或存储内容无法解析时返回 nil
func (s *AuthService) CurrentSession(ctx context.Context, sid string) *model.Session {
	if sid == "" {
		return nil
	}
	raw, err := s.Store.Get(ctx, sid, session.KeySession)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			logger.Log.Warn("Failed to read session", zap.Error(err))
		}
		return nil
	}

	var current model.Session
	if err := json.Unmarshal([]byte(raw), &current); err != nil {
		logger.Log.Warn("Discarding unparsable session", zap.Error(&util.ParseError{Source: "stored session", Err: err}))
		return nil
	}
	current.Role = model.ParseRole(current.Role.String())
	return &current
}

func (s *AuthService) Token(ctx context.Context, sid string) (string, error) {
	if sid == "" {
		return "", util.ErrNoSession
	}
	token, err := s.Store.Get(ctx, sid, session.KeyToken)
	if errors.Is(err, session.ErrNotFound) {
		return "", util.ErrNoSession
	}
	return token, err
}

func (s *AuthService) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return s.Store.Clear(ctx, sid)
}
