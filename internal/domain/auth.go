package domain

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/koinonia-app/backend/internal/domain/reward"
	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/internal/model"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/pkg/authenticator"
	"github.com/koinonia-app/backend/pkg/crypto"
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type AuthDomain interface {
	OAuth2Verify(context.Context, *model.OAuth2VerifyRequest) (*model.OAuth2VerifyResponse, error)
	Refresh(context.Context, *model.RefreshTokenRequest) (*model.RefreshTokenResponse, error)
	Logout(context.Context, *model.LogoutRequest) (*model.LogoutResponse, error)
}

type authDomain struct {
	hasSuperAdmin      bool
	hasSuperAdminMutex sync.Mutex

	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	oauth2Repo       repository.OAuth2Repository
	oauth2Services   []authenticator.IOAuth2Service
	rewardEngine     *reward.Engine
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	oauth2Repo repository.OAuth2Repository,
	oauth2Services []authenticator.IOAuth2Service,
	rewardEngine *reward.Engine,
) *authDomain {
	return &authDomain{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		oauth2Repo:       oauth2Repo,
		oauth2Services:   oauth2Services,
		rewardEngine:     rewardEngine,
	}
}

func (d *authDomain) OAuth2Verify(
	ctx context.Context, req *model.OAuth2VerifyRequest,
) (*model.OAuth2VerifyResponse, error) {
	service, ok := d.getOAuth2Service(req.Type)
	if !ok {
		return nil, errorx.New(errorx.BadRequest, "Unsupported type %s", req.Type)
	}

	var serviceUser authenticator.OAuth2User
	var err error
	var oauth2Method string
	if req.AccessToken != "" {
		oauth2Method = "access token"
		serviceUser, err = service.GetUserID(ctx, req.AccessToken)
	} else if req.Code != "" {
		oauth2Method = "authorization code with pkce"
		serviceUser, err = service.VerifyAuthorizationCode(
			ctx, req.Code, req.CodeVerifier, req.RedirectURI)
	} else if req.IDToken != "" {
		oauth2Method = "id token"
		serviceUser, err = service.VerifyIDToken(ctx, req.IDToken)
	}

	if oauth2Method == "" {
		return nil, errorx.New(errorx.BadRequest, "Please provide at least one method to authorize")
	}

	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot verify %s: %v", oauth2Method, err)
		return nil, errorx.Unknown
	}

	user, accessToken, refreshToken, err := d.generateTokensWithServiceUserID(ctx, service, serviceUser)
	if err != nil {
		return nil, err
	}

	return &model.OAuth2VerifyResponse{
		User:         model.ConvertUser(user, true),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (d *authDomain) Refresh(
	ctx context.Context, req *model.RefreshTokenRequest,
) (*model.RefreshTokenResponse, error) {
	refreshToken := model.RefreshToken{}
	err := xcontext.TokenEngine(ctx).Verify(req.RefreshToken, &refreshToken)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Failed to verify refresh token: %v", err)
		return nil, errorx.New(errorx.Unauthenticated, "Invalid refresh token")
	}

	hashedFamily := crypto.SHA256([]byte(refreshToken.Family))
	storageToken, err := d.refreshTokenRepo.Get(ctx, hashedFamily)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid refresh token")
		}

		xcontext.Logger(ctx).Errorf("Cannot get refresh token family: %v", err)
		return nil, errorx.Unknown
	}

	if storageToken.Expiration.Before(time.Now()) {
		return nil, errorx.New(errorx.TokenExpired, "Your refresh token is expired")
	}

	// A counter mismatch means this token was already spent once. Someone is
	// replaying it, so the whole family is revoked.
	// NOTE: no transaction here, the delete and rotate queries are
	// independent.
	if refreshToken.Counter != storageToken.Counter {
		err = d.refreshTokenRepo.Delete(ctx, hashedFamily)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete refresh token: %v", err)
			return nil, errorx.Unknown
		}

		return nil, errorx.New(errorx.StolenDetected,
			"Your refresh token will be revoked because it is detected as stolen")
	}

	err = d.refreshTokenRepo.Rotate(ctx, hashedFamily)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot rotate the refresh token: %v", err)
		return nil, errorx.Unknown
	}

	newRefreshToken, err := xcontext.TokenEngine(ctx).Generate(
		xcontext.Configs(ctx).Auth.RefreshToken.Expiration,
		model.RefreshToken{
			Family:  refreshToken.Family,
			Counter: refreshToken.Counter + 1,
		})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate refresh token: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, storageToken.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	newAccessToken, err := xcontext.TokenEngine(ctx).Generate(
		xcontext.Configs(ctx).Auth.AccessToken.Expiration,
		model.AccessToken{
			ID:   user.ID,
			Name: user.Name,
		})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RefreshTokenResponse{
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

func (d *authDomain) Logout(
	ctx context.Context, req *model.LogoutRequest,
) (*model.LogoutResponse, error) {
	session, err := xcontext.SessionStore(ctx).Get(
		xcontext.HTTPRequest(ctx), xcontext.Configs(ctx).Session.Name)
	if err == nil {
		session.Options.MaxAge = -1
		if err := session.Save(xcontext.HTTPRequest(ctx), xcontext.HTTPWriter(ctx)); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot expire session: %v", err)
		}
	}

	return &model.LogoutResponse{}, nil
}

func (d *authDomain) getOAuth2Service(service string) (authenticator.IOAuth2Service, bool) {
	for i := range d.oauth2Services {
		if d.oauth2Services[i].Service() == service {
			return d.oauth2Services[i], true
		}
	}
	return nil, false
}

func (d *authDomain) generateTokensWithServiceUserID(
	ctx context.Context, service authenticator.IOAuth2Service, serviceUser authenticator.OAuth2User,
) (*entity.User, string, string, error) {
	var isNewUser bool
	user, err := d.userRepo.GetByServiceUserID(ctx, service.Service(), serviceUser.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user by service id: %v", err)
			return nil, "", "", errorx.Unknown
		}

		txCtx := xcontext.WithDBTransaction(ctx)
		defer xcontext.WithRollbackDBTransaction(txCtx)

		user = &entity.User{
			Base:      entity.Base{ID: uuid.NewString()},
			Name:      serviceUser.ID,
			IsNewUser: true,
		}

		if err := d.createUser(txCtx, user); err != nil {
			return nil, "", "", err
		}

		err = d.oauth2Repo.Create(txCtx, &entity.OAuth2{
			UserID:          user.ID,
			Service:         service.Service(),
			ServiceUserID:   serviceUser.ID,
			ServiceUsername: serviceUser.Username,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot register user with service: %v", err)
			return nil, "", "", errorx.New(errorx.AlreadyExists,
				"This %s account was already registered with another user", service.Service())
		}

		xcontext.WithCommitDBTransaction(txCtx)
		isNewUser = true
	}

	if isNewUser {
		// Losing the welcome coins must not block the first sign in.
		_, err := d.rewardEngine.Issue(ctx, reward.IssueInput{
			UserID:      user.ID,
			SourceType:  entity.SourceOnboarding,
			SourceID:    user.ID,
			Amount:      int64(xcontext.Configs(ctx).Engagement.OnboardingReward),
			Reason:      "Welcome aboard",
			Criticality: reward.BestEffort,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot issue onboarding reward: %v", err)
		}
	}

	refreshToken, err := d.generateRefreshToken(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate refresh token: %v", err)
		return nil, "", "", errorx.Unknown
	}

	accessToken, err := xcontext.TokenEngine(ctx).Generate(
		xcontext.Configs(ctx).Auth.AccessToken.Expiration,
		model.AccessToken{
			ID:   user.ID,
			Name: user.Name,
		})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, "", "", errorx.Unknown
	}

	return user, accessToken, refreshToken, nil
}

// createUser promotes the very first account to super admin so a fresh
// deployment is administrable without touching the database by hand.
func (d *authDomain) createUser(ctx context.Context, user *entity.User) error {
	d.hasSuperAdminMutex.Lock()
	defer d.hasSuperAdminMutex.Unlock()

	user.Role = entity.RoleMember
	if !d.hasSuperAdmin {
		count, err := d.userRepo.Count(ctx)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count users: %v", err)
			return errorx.Unknown
		}

		if count == 0 {
			user.Role = entity.RoleSuperAdmin
		}

		d.hasSuperAdmin = true
	}

	// Service user ids make awkward display names. Trim the scope prefix the
	// authenticator added.
	if _, name, found := strings.Cut(user.Name, "_"); found {
		user.Name = name
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *authDomain) generateRefreshToken(ctx context.Context, userID string) (string, error) {
	refreshTokenFamily, err := crypto.GenerateRandomString()
	if err != nil {
		return "", err
	}

	refreshToken, err := xcontext.TokenEngine(ctx).Generate(
		xcontext.Configs(ctx).Auth.RefreshToken.Expiration,
		model.RefreshToken{
			Family:  refreshTokenFamily,
			Counter: 0,
		})
	if err != nil {
		return "", err
	}

	err = d.refreshTokenRepo.Create(ctx, &entity.RefreshToken{
		UserID:     userID,
		Family:     crypto.SHA256([]byte(refreshTokenFamily)),
		Counter:    0,
		Expiration: time.Now().Add(xcontext.Configs(ctx).Auth.RefreshToken.Expiration),
	})
	if err != nil {
		return "", err
	}

	return refreshToken, nil
}
