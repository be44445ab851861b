package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"synapnote/internal/pkg/jwtutil"
)

const (
	testJWTSecret = "test-secret"
	testResetBase = "http://localhost:3000"
)

func newTestAuthService(store *fakeUserStore, queue *fakeMailQueue) *AuthService {
	return NewAuthService(store, queue, testJWTSecret, 24*time.Hour, 15*time.Minute, time.Hour, testResetBase)
}

func TestSignUpCreatesUnverifiedUserAndSendsOTP(t *testing.T) {
	store := newFakeUserStore()
	queue := &fakeMailQueue{}
	svc := newTestAuthService(store, queue)

	err := svc.SignUp(context.Background(), SignUpInput{Name: "Ann", Email: "ann@example.com", Password: "secret"})
	require.NoError(t, err)

	user, err := store.GetByEmail("ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.False(t, user.IsVerified)
	assert.Len(t, user.OTP, 6)
	require.NotNil(t, user.OTPExpiry)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), *user.OTPExpiry, time.Minute)

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, "ann@example.com", queue.jobs[0].To)
	assert.Contains(t, queue.jobs[0].HTML, user.OTP)
}

func TestSignUpRejectsVerifiedEmail(t *testing.T) {
	store := newFakeUserStore()
	queue := &fakeMailQueue{}
	svc := newTestAuthService(store, queue)

	ctx := context.Background()
	require.NoError(t, svc.SignUp(ctx, SignUpInput{Name: "Ann", Email: "ann@example.com", Password: "secret"}))

	user, _ := store.GetByEmail("ann@example.com")
	require.NoError(t, svc.VerifyOTP(ctx, "ann@example.com", user.OTP))

	err := svc.SignUp(ctx, SignUpInput{Name: "Ann", Email: "ann@example.com", Password: "other"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestSignUpOverwritesUnverifiedUser(t *testing.T) {
	store := newFakeUserStore()
	queue := &fakeMailQueue{}
	svc := newTestAuthService(store, queue)

	ctx := context.Background()
	require.NoError(t, svc.SignUp(ctx, SignUpInput{Name: "Ann", Email: "ann@example.com", Password: "first"}))
	first, _ := store.GetByEmail("ann@example.com")

	require.NoError(t, svc.SignUp(ctx, SignUpInput{Name: "Annie", Email: "ann@example.com", Password: "second"}))
	second, _ := store.GetByEmail("ann@example.com")

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Annie", second.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(second.PasswordHash), []byte("second")))
	assert.Len(t, queue.jobs, 2)
}

func TestSignUpMailFailure(t *testing.T) {
	store := newFakeUserStore()
	queue := &fakeMailQueue{failErr: errors.New("broker down")}
	svc := newTestAuthService(store, queue)

	err := svc.SignUp(context.Background(), SignUpInput{Name: "Ann", Email: "ann@example.com", Password: "secret"})
	assert.ErrorIs(t, err, ErrMailDispatch)
}

func TestVerifyOTP(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*AuthService, *fakeUserStore, *fakeMailQueue, string) {
		store := newFakeUserStore()
		queue := &fakeMailQueue{}
		svc := newTestAuthService(store, queue)
		require.NoError(t, svc.SignUp(ctx, SignUpInput{Name: "Ann", Email: "ann@example.com", Password: "secret"}))
		user, _ := store.GetByEmail("ann@example.com")
		return svc, store, queue, user.OTP
	}

	t.Run("success clears the code and marks verified", func(t *testing.T) {
		svc, store, queue, otp := setup(t)
		require.NoError(t, svc.VerifyOTP(ctx, "ann@example.com", otp))

		user, _ := store.GetByEmail("ann@example.com")
		assert.True(t, user.IsVerified)
		assert.Empty(t, user.OTP)
		assert.Nil(t, user.OTPExpiry)
		// signup OTP plus welcome mail
		assert.Len(t, queue.jobs, 2)
	})

	t.Run("second attempt reports already verified", func(t *testing.T) {
		svc, _, _, otp := setup(t)
		require.NoError(t, svc.VerifyOTP(ctx, "ann@example.com", otp))
		assert.ErrorIs(t, svc.VerifyOTP(ctx, "ann@example.com", otp), ErrAlreadyVerified)
	})

	t.Run("wrong code", func(t *testing.T) {
		svc, _, _, otp := setup(t)
		wrong := "000000"
		if wrong == otp {
			wrong = "000001"
		}
		assert.ErrorIs(t, svc.VerifyOTP(ctx, "ann@example.com", wrong), ErrInvalidOTP)
	})

	t.Run("expired code beats wrong code", func(t *testing.T) {
		svc, store, _, otp := setup(t)
		user, _ := store.GetByEmail("ann@example.com")
		past := time.Now().Add(-time.Minute)
		user.OTPExpiry = &past
		require.NoError(t, store.Save(user))

		wrong := "000000"
		if wrong == otp {
			wrong = "000001"
		}
		assert.ErrorIs(t, svc.VerifyOTP(ctx, "ann@example.com", wrong), ErrOTPExpired)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, _, _, _ := setup(t)
		assert.ErrorIs(t, svc.VerifyOTP(ctx, "nobody@example.com", "123456"), ErrUserNotFound)
	})
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	queue := &fakeMailQueue{}
	svc := newTestAuthService(store, queue)

	require.NoError(t, svc.SignUp(ctx, SignUpInput{Name: "Ann", Email: "ann@example.com", Password: "secret"}))

	t.Run("unverified account is rejected", func(t *testing.T) {
		_, err := svc.SignIn(SignInInput{Email: "ann@example.com", Password: "secret"})
		assert.ErrorIs(t, err, ErrNotVerified)
	})

	user, _ := store.GetByEmail("ann@example.com")
	require.NoError(t, svc.VerifyOTP(ctx, "ann@example.com", user.OTP))

	t.Run("token carries identity claims", func(t *testing.T) {
		result, err := svc.SignIn(SignInInput{Email: "ann@example.com", Password: "secret"})
		require.NoError(t, err)
		require.NotEmpty(t, result.Token)

		claims, err := jwtutil.ParseToken(testJWTSecret, result.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID())
		assert.Equal(t, "Ann", claims.Name)
		assert.Equal(t, "ann@example.com", claims.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.SignIn(SignInInput{Email: "ann@example.com", Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.SignIn(SignInInput{Email: "nobody@example.com", Password: "secret"})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	queue := &fakeMailQueue{}
	svc := newTestAuthService(store, queue)

	require.NoError(t, svc.SignUp(ctx, SignUpInput{Name: "Ann", Email: "ann@example.com", Password: "secret"}))
	user, _ := store.GetByEmail("ann@example.com")
	require.NoError(t, svc.VerifyOTP(ctx, "ann@example.com", user.OTP))

	require.NoError(t, svc.ForgotPassword(ctx, "ann@example.com"))

	user, _ = store.GetByEmail("ann@example.com")
	token := user.ResetPasswordToken
	require.Len(t, token, 64)
	require.NotNil(t, user.ResetPasswordExpiry)

	last := queue.jobs[len(queue.jobs)-1]
	assert.Contains(t, last.HTML, testResetBase+"/reset-password?token="+token)

	require.NoError(t, svc.ResetPassword(token, "brand-new"))

	t.Run("new password works", func(t *testing.T) {
		_, err := svc.SignIn(SignInInput{Email: "ann@example.com", Password: "brand-new"})
		assert.NoError(t, err)
	})

	t.Run("old password is gone", func(t *testing.T) {
		_, err := svc.SignIn(SignInInput{Email: "ann@example.com", Password: "secret"})
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("token is single use", func(t *testing.T) {
		err := svc.ResetPassword(token, "yet-another")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestResetPasswordExpiredToken(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	queue := &fakeMailQueue{}
	svc := newTestAuthService(store, queue)

	require.NoError(t, svc.SignUp(ctx, SignUpInput{Name: "Ann", Email: "ann@example.com", Password: "secret"}))
	user, _ := store.GetByEmail("ann@example.com")
	require.NoError(t, svc.VerifyOTP(ctx, "ann@example.com", user.OTP))
	require.NoError(t, svc.ForgotPassword(ctx, "ann@example.com"))

	user, _ = store.GetByEmail("ann@example.com")
	past := time.Now().Add(-time.Minute)
	user.ResetPasswordExpiry = &past
	require.NoError(t, store.Save(user))

	err := svc.ResetPassword(user.ResetPasswordToken, "brand-new")
	assert.ErrorIs(t, err, ErrResetTokenExpired)
}

func TestForgotPasswordUnverifiedUser(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	svc := newTestAuthService(store, &fakeMailQueue{})

	require.NoError(t, svc.SignUp(ctx, SignUpInput{Name: "Ann", Email: "ann@example.com", Password: "secret"}))
	assert.ErrorIs(t, svc.ForgotPassword(ctx, "ann@example.com"), ErrNotVerified)
}

func TestGenerateOTPRange(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := generateOTP()
		require.NoError(t, err)
		require.Len(t, otp, 6)
		assert.False(t, strings.HasPrefix(otp, "0"))
	}
}
