package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aviatehq/aviate/adapters/auth"
	"github.com/aviatehq/aviate/adapters/clock"
	"github.com/aviatehq/aviate/adapters/hasher"
	"github.com/rs/zerolog"
)

func newAccountService() *AccountService {
	return NewAccountService(AccountDeps{
		Users:  newFakeUserStore(),
		Hasher: hasher.NewBcrypt(4), // min cost, tests only
		Tokens: auth.NewTokenService("test-secret", time.Hour),
		Clock:  clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		IDGen:  &fakeIDGen{},
		Logger: zerolog.Nop(),
	})
}

func TestAccountSignupAndLogin(t *testing.T) {
	svc := newAccountService()

	sess, err := svc.Signup(context.Background(), "Founder@Example.com", "hunter2hunter2", "Sam")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if sess.Token == "" {
		t.Fatal("no session token")
	}
	if sess.User.Email != "founder@example.com" {
		t.Errorf("email not normalized: %q", sess.User.Email)
	}

	login, err := svc.Login(context.Background(), "founder@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != sess.User.ID {
		t.Error("login resolved a different user")
	}

	u, err := svc.Authenticate(context.Background(), login.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if u.ID != sess.User.ID {
		t.Error("token resolved a different user")
	}
}

func TestAccountSignupRejectsDuplicates(t *testing.T) {
	svc := newAccountService()
	if _, err := svc.Signup(context.Background(), "a@example.com", "password1", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Signup(context.Background(), "a@example.com", "password2", ""); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestAccountSignupValidation(t *testing.T) {
	svc := newAccountService()
	if _, err := svc.Signup(context.Background(), "not-an-email", "password1", ""); err == nil {
		t.Error("bad email accepted")
	}
	if _, err := svc.Signup(context.Background(), "a@example.com", "short", ""); err == nil {
		t.Error("short password accepted")
	}
}

func TestAccountLoginFailures(t *testing.T) {
	svc := newAccountService()
	svc.Signup(context.Background(), "a@example.com", "password1", "")

	if _, err := svc.Login(context.Background(), "a@example.com", "wrong-password"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("wrong password err = %v, want ErrBadCredentials", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "password1"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("unknown email err = %v, want ErrBadCredentials", err)
	}
	if _, err := svc.Authenticate(context.Background(), "not.a.token"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("garbage token err = %v, want ErrBadCredentials", err)
	}
}
