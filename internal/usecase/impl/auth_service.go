// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	"go.uber.org/fx"

	deliverycontext "concordia/internal/delivery/context"
	domainerrors "concordia/internal/domain/errors"
	"concordia/internal/domain/repository"
	"concordia/internal/domain/service"
	"concordia/internal/errors"
	"concordia/internal/usecase"
)

// errAlreadyProvisioned rolls back a Google provisioning transaction that lost
// the race to a concurrent request for the same account.
var errAlreadyProvisioned = errors.New("account provisioned concurrently")

// authService implements the AuthUsecase interface.
type authService struct {
	txManager         repository.TransactionManager
	credentialRepo    repository.CredentialRepository
	credentials       *credentialStore
	tokenService      service.TokenService
	googleAuthService service.OAuthAuthService
	logger            *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager         repository.TransactionManager
	CredentialRepo    repository.CredentialRepository
	Hasher            service.PasswordHasher
	TokenService      service.TokenService
	GoogleAuthService service.OAuthAuthService
	Logger            *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:         params.TxManager,
		credentialRepo:    params.CredentialRepo,
		credentials:       &credentialStore{hasher: params.Hasher},
		tokenService:      params.TokenService,
		googleAuthService: params.GoogleAuthService,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a password account and opens a session for it.
func (srv *authService) Register(ctx context.Context, input *usecase.CredentialsInput) (*usecase.SessionOutput, error) {
	username, password, err := readCredentials(input)
	if err != nil {
		return nil, err
	}

	if err := srv.credentials.create(ctx, srv.credentialRepo, username, password); err != nil {
		if errors.Is(err, domainerrors.ErrUserAlreadyExists) {
			srv.log(ctx).Info("Registration rejected, username taken", slog.String("username", username))

			return nil, err
		}
		srv.log(ctx).Error("Failed to create credential", slog.String("username", username), slog.Any("error", err))

		return nil, errors.Wrap(err, "register failed")
	}

	srv.log(ctx).Info("User registered", slog.String("username", username))

	return srv.openSession(ctx, username)
}

// Login checks a password. Unknown users and wrong passwords are indistinguishable to the caller.
func (srv *authService) Login(ctx context.Context, input *usecase.CredentialsInput) (*usecase.SessionOutput, error) {
	username, password, err := readCredentials(input)
	if err != nil {
		return nil, err
	}

	err = srv.credentials.verify(ctx, srv.credentialRepo, username, password)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrCredentialNotFound):
		srv.log(ctx).Info("Login failed", slog.String("username", username), slog.String("reason", "not_found"))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	case errors.Is(err, errPasswordMismatch):
		srv.log(ctx).Info("Login failed", slog.String("username", username), slog.String("reason", "mismatch"))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	default:
		srv.log(ctx).Error("Failed to verify credential", slog.String("username", username), slog.Any("error", err))

		return nil, errors.Wrap(err, "login failed")
	}

	return srv.openSession(ctx, username)
}

// LoginWithIDToken logs in with a Google ID token, provisioning an account named
// after the token's email the first time.
func (srv *authService) LoginWithIDToken(ctx context.Context, input *usecase.IDTokenLoginInput) (*usecase.SessionOutput, error) {
	if input == nil || strings.TrimSpace(input.IDToken) == "" {
		return nil, domainerrors.ErrMissingIDToken
	}

	oauthUser, err := srv.googleAuthService.VerifyIDToken(ctx, input.IDToken)
	if err != nil {
		if errors.Is(err, service.ErrIDTokenMissingEmail) {
			return nil, domainerrors.ErrIDTokenMissingEmail
		}
		srv.log(ctx).Info("Google login rejected", slog.Any("error", err))

		return nil, domainerrors.ErrInvalidIDToken.WithDetails(err.Error())
	}

	username := oauthUser.Email
	if err := srv.ensureGoogleAccount(ctx, username); err != nil {
		srv.log(ctx).Error("Failed to provision Google account", slog.String("username", username), slog.Any("error", err))

		return nil, errors.Wrap(err, "google login failed")
	}

	return srv.openSession(ctx, username)
}

func (srv *authService) ensureGoogleAccount(ctx context.Context, username string) error {
	_, err := srv.credentialRepo.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrCredentialNotFound) {
		return err
	}

	password, err := randomPassword()
	if err != nil {
		return err
	}
	passwordHash, err := srv.credentials.hash(password)
	if err != nil {
		return err
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		credentialRepo := repoFactory.CredentialRepo()

		_, err := credentialRepo.FindByUsername(ctx, username)
		if err == nil {
			return errAlreadyProvisioned
		}
		if !errors.Is(err, repository.ErrCredentialNotFound) {
			return err
		}

		err = srv.credentials.insert(ctx, credentialRepo, username, passwordHash)
		if errors.Is(err, domainerrors.ErrUserAlreadyExists) {
			return errAlreadyProvisioned
		}

		return err
	})
	if errors.Is(err, errAlreadyProvisioned) {
		srv.log(ctx).Debug("Google account already provisioned", slog.String("username", username))

		return nil
	}
	if err != nil {
		return err
	}

	srv.log(ctx).Info("Provisioned account for Google user", slog.String("username", username))

	return nil
}

// VerifySession validates a bearer token.
func (srv *authService) VerifySession(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domainerrors.ErrMissingAuthorization
	}

	username, err := srv.tokenService.Verify(token)
	if err != nil {
		srv.log(ctx).Debug("Session token rejected", slog.Any("reason", err))

		return "", domainerrors.ErrUnauthorized.WrapMessage(err.Error())
	}

	return username, nil
}

// EnsureAccount is used to seed accounts at startup.
func (srv *authService) EnsureAccount(ctx context.Context, input *usecase.CredentialsInput) (bool, error) {
	username, password, err := readCredentials(input)
	if err != nil {
		return false, err
	}

	_, err = srv.credentialRepo.FindByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrCredentialNotFound) {
		return false, err
	}

	err = srv.credentials.create(ctx, srv.credentialRepo, username, password)
	if errors.Is(err, domainerrors.ErrUserAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (srv *authService) openSession(ctx context.Context, username string) (*usecase.SessionOutput, error) {
	token, err := srv.tokenService.Issue(username)
	if err != nil {
		srv.log(ctx).Error("Failed to issue session token", slog.String("username", username), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrTokenIssueFailed, err.Error())
	}

	return &usecase.SessionOutput{Username: username, Token: token}, nil
}

// readCredentials requires both fields. Both are used verbatim; a blank username counts as missing.
func readCredentials(input *usecase.CredentialsInput) (string, string, error) {
	if input == nil {
		return "", "", domainerrors.ErrMissingFields
	}

	if strings.TrimSpace(input.Username) == "" || input.Password == "" {
		return "", "", domainerrors.ErrMissingFields
	}

	return input.Username, input.Password, nil
}
