package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"collabnote-be/internal/dto"
	"collabnote-be/internal/entity"
	"collabnote-be/internal/pkg/apperror"
	"collabnote-be/internal/pkg/logger"
	"collabnote-be/internal/repository/specification"
	"collabnote-be/internal/repository/unitofwork"
	"collabnote-be/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthClaims is what a verified access token grants.
type AuthClaims struct {
	UserId    uint
	SessionId string
}

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, sessionId string) error
	// VerifyToken checks the signature and that the session still exists.
	VerifyToken(ctx context.Context, tokenStr string) (*AuthClaims, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	sessions   session.IStore
	jwtSecret  []byte
	sessionTTL time.Duration
	logger     logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	sessions session.IStore,
	jwtSecret string,
	sessionTTL time.Duration,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		sessions:   sessions,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
		logger:     log,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user := &entity.User{
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: &hashStr,
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("AUTH", "User registered", map[string]interface{}{"user_id": user.Id, "username": user.Username})
	return &dto.RegisterResponse{Id: user.Id, Username: user.Username}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	invalid := &apperror.UnauthorizedError{Message: "invalid credentials"}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: req.Username})
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, invalid
	}

	sessionId := uuid.New().String()
	expiresAt := time.Now().Add(s.sessionTTL)
	if err := s.sessions.CreateSession(ctx, sessionId, user.Id, expiresAt); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	claims := jwt.MapClaims{
		"user_id":    user.Id,
		"session_id": sessionId,
		"exp":        expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: signed,
		User: dto.UserData{
			Id:          user.Id,
			Username:    user.Username,
			DisplayName: user.DisplayName,
		},
	}, nil
}

func (s *authService) Logout(ctx context.Context, sessionId string) error {
	return s.sessions.DeleteSession(ctx, sessionId)
}

func (s *authService) VerifyToken(ctx context.Context, tokenStr string) (*AuthClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, &apperror.UnauthorizedError{Message: "invalid token"}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, &apperror.UnauthorizedError{Message: "invalid claims"}
	}
	rawUserId, ok := claims["user_id"].(float64)
	if !ok || rawUserId <= 0 {
		return nil, &apperror.UnauthorizedError{Message: "invalid claims"}
	}
	sessionId, ok := claims["session_id"].(string)
	if !ok || sessionId == "" {
		return nil, &apperror.UnauthorizedError{Message: "invalid claims"}
	}

	sess, err := s.sessions.GetSession(ctx, sessionId)
	if err != nil {
		var notFound *apperror.NotInDBError
		if errors.As(err, &notFound) {
			return nil, &apperror.UnauthorizedError{Message: "session expired"}
		}
		return nil, err
	}
	if sess.UserId != uint(rawUserId) {
		return nil, &apperror.UnauthorizedError{Message: "session does not belong to token"}
	}

	return &AuthClaims{UserId: sess.UserId, SessionId: sessionId}, nil
}
