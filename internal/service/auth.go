package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"propbill.app/server/common/id"
	"propbill.app/server/core/config"
	"propbill.app/server/internal/gmail"
	"propbill.app/server/internal/model"
	"propbill.app/server/internal/store"
)

// Claims is the JWT payload issued after Google sign-in.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	GoogleID string `json:"google_id"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// AuthorizationURL builds the Google consent URL. Offline access and a
	// forced consent screen guarantee a refresh token on first approval.
	AuthorizationURL(state string) string
	// HandleCallback exchanges the authorization code, upserts the user and
	// issues an application JWT.
	HandleCallback(ctx context.Context, code string) (*model.User, string, error)
	ValidateToken(tokenString string) (*Claims, error)
	CurrentUser(ctx context.Context, userID int64) (*model.User, error)
}

type authService struct {
	userStore store.UserStore
	oauth     *oauth2.Config
	jwtCfg    config.JWTConfig
}

func NewAuthService(userStore store.UserStore, googleCfg config.GoogleConfig, jwtCfg config.JWTConfig) AuthService {
	return &authService{
		userStore: userStore,
		oauth:     gmail.OAuthConfig(googleCfg),
		jwtCfg:    jwtCfg,
	}
}

func (s *authService) AuthorizationURL(state string) string {
	return s.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))
}

func (s *authService) HandleCallback(ctx context.Context, code string) (*model.User, string, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to exchange authorization code", "error", err)
		return nil, "", ErrInvalidCode
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		return nil, "", fmt.Errorf("fetching google user info: %w", err)
	}

	user, err := s.upsertUser(ctx, info, token)
	if err != nil {
		return nil, "", err
	}

	jwtToken, err := s.issueToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}

	slog.InfoContext(ctx, "user signed in", "user_id", user.ID, "email", user.Email)
	return user, jwtToken, nil
}

func (s *authService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleoauth.Userinfo, error) {
	svc, err := googleoauth.NewService(ctx,
		option.WithTokenSource(oauth2.StaticTokenSource(token)))
	if err != nil {
		return nil, err
	}
	return svc.Userinfo.Get().Context(ctx).Do()
}

func (s *authService) upsertUser(ctx context.Context, info *googleoauth.Userinfo, token *oauth2.Token) (*model.User, error) {
	var avatarURL *string
	if info.Picture != "" {
		avatarURL = &info.Picture
	}

	user, err := s.userStore.GetByGoogleID(ctx, info.Id)
	switch {
	case err == nil:
		user.Email = info.Email
		user.Name = info.Name
		user.AvatarURL = avatarURL
		user.OAuthToken = &token.AccessToken
		// Google only returns a refresh token on the consent round. Keep the
		// stored one when this sign-in did not produce a new one.
		if token.RefreshToken != "" {
			user.RefreshToken = &token.RefreshToken
		}
		if err := s.userStore.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("updating user: %w", err)
		}
		return user, nil

	case errors.Is(err, store.ErrNotFound):
		user = &model.User{
			ID:         id.New(),
			GoogleID:   info.Id,
			Email:      info.Email,
			Name:       info.Name,
			AvatarURL:  avatarURL,
			OAuthToken: &token.AccessToken,
		}
		if token.RefreshToken != "" {
			user.RefreshToken = &token.RefreshToken
		}
		if err := s.userStore.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("creating user: %w", err)
		}
		return user, nil

	default:
		return nil, fmt.Errorf("looking up user: %w", err)
	}
}

func (s *authService) issueToken(user *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Email:    user.Email,
		GoogleID: user.GoogleID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.Secret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtCfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return user, nil
}
