package commands

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"slotbooker/internal/domain/client"
	"slotbooker/internal/pkg/errs"
	"slotbooker/internal/pkg/jwt"
	"slotbooker/internal/pkg/password"
	"slotbooker/internal/usecase/queries"
	"slotbooker/internal/usecase/shared"
)

var (
	ErrClientNotFound       = errs.New("client not found")
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrClientInactive       = errs.New("client inactive")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
	ErrTokenValidation      = errs.New("token validation failed")
)

type LoginRequest struct {
	Email    string
	Password string
}

type LoginResult struct {
	ClientID  uuid.UUID
	TokenPair *TokenPair
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthCommands interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	readStore  queries.ClientReadStore
	jwtService *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, readStore queries.ClientReadStore, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		readStore:  readStore,
		jwtService: jwtService,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email, err := client.NewEmail(req.Email)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	clientView, err := a.validateClient(ctx, email.String(), req.Password)
	if err != nil {
		return nil, err
	}

	role, err := client.NewRole(clientView.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	accessToken, err := a.jwtService.GenerateAccessToken(clientView.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	refreshToken, err := a.jwtService.GenerateRefreshToken(clientView.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if updateErr := tx.Clients().UpdateLastLogin(ctx, tx.DB(), clientView.ID); updateErr != nil {
			slog.Warn("failed to update last login", "client_id", clientView.ID, "error", updateErr.Error())
		}
		return nil
	})
	if err != nil {
		slog.Warn("transaction failed during login", "client_id", clientView.ID, "error", err.Error())
	}

	return &LoginResult{
		ClientID: clientView.ID,
		TokenPair: &TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
	}, nil
}

func (a *authCommandsImpl) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}

	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrTokenValidation
	}

	role, err := client.NewRole(claims.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}

	// Validate client still exists and is active
	clientView, err := a.readStore.FindByID(ctx, claims.ClientID)
	if err != nil || clientView == nil {
		return nil, ErrClientNotFound
	}
	if !clientView.IsActive {
		return nil, ErrClientInactive
	}

	accessToken, err := a.jwtService.GenerateAccessToken(claims.ClientID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	newRefreshToken, err := a.jwtService.GenerateRefreshToken(claims.ClientID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

func (a *authCommandsImpl) validateClient(ctx context.Context, email, plainPassword string) (*queries.AuthorizedClientView, error) {
	clientView, hashedPassword, err := a.readStore.FindByEmail(ctx, email)
	if err != nil {
		// Same error as a password mismatch to prevent account enumeration
		return nil, ErrInvalidCredentials
	}

	if clientView == nil {
		return nil, ErrClientNotFound
	}
	if !clientView.IsActive {
		return nil, ErrClientInactive
	}

	if err := password.ComparePassword(hashedPassword, plainPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	return clientView, nil
}
