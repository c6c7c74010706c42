// Package auth implements the account lifecycle: signup with OTP email
// verification, login with access/refresh token issuance, refresh-on-expiry
// and logout via a backdated token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/markclone/shop-api/internal/domain"
	jwtinfra "github.com/markclone/shop-api/internal/infrastructure/jwt"
	"github.com/markclone/shop-api/internal/infrastructure/smtp"
	"github.com/markclone/shop-api/internal/infrastructure/sns"
	"github.com/markclone/shop-api/internal/pkg/id"
	"github.com/markclone/shop-api/internal/pkg/otp"
	"github.com/markclone/shop-api/internal/pkg/passcode"
	"github.com/markclone/shop-api/internal/pkg/validate"
)

// otpTTL is the validity window persisted with each generated code.
// The code itself is not re-derivable from time, so the window lives
// next to the stored value and is checked at verification.
const otpTTL = 15 * time.Minute

// deliveryTimeout bounds the detached OTP delivery goroutine.
const deliveryTimeout = 10 * time.Second

// DynamoDB attribute names used in partial update maps.
const (
	fieldOTP          = "otp"
	fieldOTPVerified  = "otp_verified"
	fieldRefreshToken = "refresh_token"
	fieldLastLogin    = "last_login"
)

type Service interface {
	Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, error)
	VerifyOTP(ctx context.Context, userID, code string) error
	Login(ctx context.Context, req domain.LoginRequest) (accessToken string, err error)
	Logout(ctx context.Context, bearer string) (backdated string, err error)
	RefreshAccess(ctx context.Context, userID string) (accessToken string, err error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type tokenProvider interface {
	Sign(userID, email, phone, kind string) (string, error)
	SignExpiredAt(c *jwtinfra.Claims, expiry time.Time) (string, error)
	Verify(token string) (*jwtinfra.Claims, error)
}

type service struct {
	repo      userStore
	tokens    tokenProvider
	mailer    smtp.Mailer
	smsSender sns.SMSSender // nil unless the SMS OTP channel is enabled
}

type ServiceDeps struct {
	UserRepo  userStore
	Tokens    tokenProvider
	Mailer    smtp.Mailer
	SMSSender sns.SMSSender
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:      deps.UserRepo,
		tokens:    deps.Tokens,
		mailer:    deps.Mailer,
		smsSender: deps.SMSSender,
	}
}

func (s *service) Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	// Email is checked before phone; the first taken identity wins the
	// conflict message. Only a definitive miss lets signup proceed: a store
	// failure here must not mint an identity that may already be taken.
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if _, err := s.repo.GetByPhone(ctx, req.Phone); err == nil {
		return nil, fmt.Errorf("phone already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := passcode.Hash(req.Passcode)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	code, err := otp.Generate(now.Unix())
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		UserID:       id.New(),
		Email:        req.Email,
		Phone:        req.Phone,
		PasscodeHash: hash,
		Role:         domain.RoleRegular,
		OTP:          code,
		OTPExpiresAt: now.Add(otpTTL).Unix(),
		Cart:         []domain.CartItem{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}

	// Delivery is fire-and-forget: a failed send never rolls back the
	// created account, the user re-requests the code instead.
	go s.deliverOTP(u.Email, u.Phone, code)

	return u, nil
}

func (s *service) deliverOTP(email, phone, code string) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	subject, body := smtp.OTPMessage(email, code)
	if err := s.mailer.SendEmail(email, subject, body); err != nil {
		slog.Warn("failed to send OTP email", "email", email, "err", err)
	}
	if s.smsSender != nil {
		if err := s.smsSender.SendSMS(ctx, phone, "Your verification code: "+code); err != nil {
			slog.Warn("failed to send OTP SMS", "phone", phone, "err", err)
		}
	}
}

func (s *service) VerifyOTP(ctx context.Context, userID, code string) error {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no user to verify: %w", domain.ErrNotFound)
		}
		return err
	}
	if u.OTPExpiresAt < time.Now().Unix() {
		return fmt.Errorf("otp expired: %w", domain.ErrVerificationFailed)
	}
	if !otp.Verify(code, u.OTP) {
		return fmt.Errorf("otp mismatch: %w", domain.ErrVerificationFailed)
	}
	// The code is single-use: cleared together with flipping the flag, so a
	// replayed code cannot verify twice.
	return s.repo.Update(ctx, userID, map[string]interface{}{
		fieldOTPVerified: true,
		fieldOTP:         "",
	})
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (string, error) {
	if req.Passcode == "" || (req.Email == "" && req.Phone == "") {
		return "", fmt.Errorf("email or phone and passcode required: %w", domain.ErrBadRequest)
	}

	var u *domain.User
	var err error
	if req.Phone != "" {
		u, err = s.repo.GetByPhone(ctx, req.Phone)
	} else {
		u, err = s.repo.GetByEmail(ctx, req.Email)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("no such user: %w", domain.ErrNotFound)
		}
		return "", err
	}
	if u.Banned {
		return "", fmt.Errorf("account banned: %w", domain.ErrUnauthorized)
	}
	if !passcode.Verify(req.Passcode, u.PasscodeHash) {
		return "", fmt.Errorf("incorrect credential(s): %w", domain.ErrUnauthorized)
	}

	access, err := s.tokens.Sign(u.UserID, u.Email, u.Phone, jwtinfra.KindAccess)
	if err != nil {
		return "", err
	}
	refresh, err := s.tokens.Sign(u.UserID, u.Email, u.Phone, jwtinfra.KindRefresh)
	if err != nil {
		return "", err
	}

	// Concurrent logins race here; the last write wins and the earlier
	// refresh token is orphaned. Accepted consistency model.
	now := time.Now().UTC()
	if err := s.repo.Update(ctx, u.UserID, map[string]interface{}{
		fieldRefreshToken: refresh,
		fieldLastLogin:    now.Format(time.RFC3339),
	}); err != nil {
		return "", err
	}

	// Only the access token goes back to the caller; the refresh token is
	// server-side state used by the middleware refresh path.
	return access, nil
}

// Logout revokes by convention: the server keeps no blacklist, so a valid
// token is answered with a backdated twin the client is expected to adopt.
// A still-distributed copy of the old token stays cryptographically valid
// until it expires on its own.
func (s *service) Logout(ctx context.Context, bearer string) (string, error) {
	if bearer == "" {
		return "", nil
	}
	claims, err := s.tokens.Verify(bearer)
	if err != nil {
		// Already unusable; logout is idempotent.
		return "", nil
	}
	backdated, err := s.tokens.SignExpiredAt(claims, time.Now().Add(-time.Second))
	if err != nil {
		return "", err
	}
	return backdated, nil
}

// RefreshAccess mints a new access token from the user's stored refresh
// token. The auth middleware calls this when a presented access token fails
// verification; the caller retries with the replacement.
func (s *service) RefreshAccess(ctx context.Context, userID string) (string, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("no token associated with the user id provided: %w", domain.ErrNotFound)
		}
		return "", err
	}
	if u.RefreshToken == "" {
		return "", fmt.Errorf("no refresh token on record: %w", domain.ErrUnauthorized)
	}
	claims, err := s.tokens.Verify(u.RefreshToken)
	if err != nil {
		if errors.Is(err, jwtinfra.ErrTokenInvalid) {
			return "", fmt.Errorf("refresh token not valid: %w", domain.ErrUnauthorized)
		}
		return "", err
	}
	if claims.TokenKind != jwtinfra.KindRefresh {
		return "", fmt.Errorf("stored token is not a refresh token: %w", domain.ErrUnauthorized)
	}
	return s.tokens.Sign(u.UserID, u.Email, u.Phone, jwtinfra.KindAccess)
}
