package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"synapnote/internal/mail"
	"synapnote/internal/model"
	"synapnote/internal/pkg/jwtutil"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUserExists        = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user doesn't exist")
	ErrNotVerified       = errors.New("user is not verified")
	ErrAlreadyVerified   = errors.New("user already verified")
	ErrOTPExpired        = errors.New("otp expired")
	ErrInvalidOTP        = errors.New("invalid otp")
	ErrInvalidCredential = errors.New("invalid password")
	ErrResetTokenExpired = errors.New("password reset token expired")
	ErrMailDispatch      = errors.New("mail dispatch failed")
)

// UserStore is the credential store the auth lifecycle runs against.
type UserStore interface {
	Create(user *model.User) error
	Save(user *model.User) error
	GetByEmail(email string) (*model.User, error)
	GetByID(id uint) (*model.User, error)
	GetByResetToken(token string) (*model.User, error)
}

// MailQueue enqueues outbound email for asynchronous delivery.
type MailQueue interface {
	Publish(ctx context.Context, job mail.Job) error
}

type AuthService struct {
	userStore        UserStore
	mailQueue        MailQueue
	jwtSecret        string
	jwtExpiration    time.Duration
	otpTTL           time.Duration
	resetTTL         time.Duration
	resetLinkBaseURL string
}

type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

type SignInInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	Token string
	User  *model.User
}

func NewAuthService(
	userStore UserStore,
	mailQueue MailQueue,
	jwtSecret string,
	jwtExpiration time.Duration,
	otpTTL time.Duration,
	resetTTL time.Duration,
	resetLinkBaseURL string,
) *AuthService {
	if otpTTL <= 0 {
		otpTTL = 15 * time.Minute
	}
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &AuthService{
		userStore:        userStore,
		mailQueue:        mailQueue,
		jwtSecret:        jwtSecret,
		jwtExpiration:    jwtExpiration,
		otpTTL:           otpTTL,
		resetTTL:         resetTTL,
		resetLinkBaseURL: strings.TrimRight(resetLinkBaseURL, "/"),
	}
}

// SignUp creates an unverified account, or refreshes an existing unverified
// one, and dispatches the verification code by email. A verified account
// with the same email is a conflict.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) error {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)
	if name == "" || email == "" || password == "" {
		return ErrInvalidInput
	}

	existing, err := s.userStore.GetByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil && existing.IsVerified {
		return ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password failed: %w", err)
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}
	otpExpiry := time.Now().Add(s.otpTTL)

	if existing != nil {
		existing.Name = name
		existing.PasswordHash = string(hash)
		existing.OTP = otp
		existing.OTPExpiry = &otpExpiry
		if err := s.userStore.Save(existing); err != nil {
			return err
		}
	} else {
		user := &model.User{
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
			OTP:          otp,
			OTPExpiry:    &otpExpiry,
		}
		if err := s.userStore.Create(user); err != nil {
			return err
		}
	}

	if err := s.mailQueue.Publish(ctx, mail.OTPJob(email, otp)); err != nil {
		return fmt.Errorf("%w: %v", ErrMailDispatch, err)
	}
	return nil
}

// VerifyOTP activates the account on a correct, unexpired code. Expiry is
// checked before the code itself.
func (s *AuthService) VerifyOTP(ctx context.Context, email, otp string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	otp = strings.TrimSpace(otp)
	if email == "" || otp == "" {
		return ErrInvalidInput
	}

	user, err := s.userStore.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}
	if user.OTPExpiry == nil || user.OTPExpiry.Before(time.Now()) {
		return ErrOTPExpired
	}
	if user.OTP != otp {
		return ErrInvalidOTP
	}

	user.IsVerified = true
	user.OTP = ""
	user.OTPExpiry = nil
	if err := s.userStore.Save(user); err != nil {
		return err
	}

	// Welcome mail is best-effort; verification already succeeded.
	_ = s.mailQueue.Publish(ctx, mail.WelcomeJob(user.Email, user.Name))
	return nil
}

func (s *AuthService) SignIn(input SignInInput) (*AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.userStore.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsVerified {
		return nil, ErrNotVerified
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Name, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// ForgotPassword issues a single-use reset token and emails the reset link.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return ErrInvalidInput
	}

	user, err := s.userStore.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !user.IsVerified {
		return ErrNotVerified
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return fmt.Errorf("generate reset token failed: %w", err)
	}
	token := hex.EncodeToString(tokenBytes)
	expiry := time.Now().Add(s.resetTTL)

	user.ResetPasswordToken = token
	user.ResetPasswordExpiry = &expiry
	if err := s.userStore.Save(user); err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.resetLinkBaseURL, token)
	if err := s.mailQueue.Publish(ctx, mail.PasswordResetJob(user.Email, user.Name, resetLink)); err != nil {
		return fmt.Errorf("%w: %v", ErrMailDispatch, err)
	}
	return nil
}

// ResetPassword consumes a reset token: replaces the password hash and
// invalidates the token so it cannot be reused.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	token = strings.TrimSpace(token)
	newPassword = strings.TrimSpace(newPassword)
	if token == "" || newPassword == "" {
		return ErrInvalidInput
	}

	user, err := s.userStore.GetByResetToken(token)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.ResetPasswordExpiry == nil || user.ResetPasswordExpiry.Before(time.Now()) {
		return ErrResetTokenExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password failed: %w", err)
	}

	user.PasswordHash = string(hash)
	user.ResetPasswordToken = ""
	user.ResetPasswordExpiry = nil
	return s.userStore.Save(user)
}

func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	return s.userStore.GetByID(id)
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp failed: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
