package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"sankhyacrm/entity"
	"sankhyacrm/internal/config"

	"golang.org/x/crypto/bcrypt"
)

type stubUsers struct {
	users []entity.User
	err   error
}

func (s *stubUsers) List(context.Context) ([]entity.User, error) {
	return s.users, s.err
}

type stubLeads struct {
	leads []entity.Lead
	err   error
}

func (s *stubLeads) List(context.Context) ([]entity.Lead, error) {
	return s.leads, s.err
}

func (s *stubLeads) Save(_ context.Context, lead entity.Lead) (entity.Lead, error) {
	return lead, s.err
}

func (s *stubLeads) UpdateStage(context.Context, string, string) (entity.Lead, error) {
	return entity.Lead{}, s.err
}

func (s *stubLeads) SetActive(context.Context, string, bool) error {
	return s.err
}

func testCore(t *testing.T) *Core {
	t.Helper()
	conf := &config.Config{}
	conf.SuperAdmin.Name = "Super Admin"
	conf.SuperAdmin.Email = "sup@sankhya.com.br"
	conf.SuperAdmin.Password = "sup-password"
	conf.Listen.ApiKey = "ui-api-key"
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, conf)
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

func TestLoginSuperAdmin(t *testing.T) {
	c := testCore(t)
	// No users service wired: the super admin must still get in.

	user, err := c.Login(context.Background(), "sup@sankhya.com.br", "sup-password")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Name != "Super Admin" || user.Role != "Administrador" {
		t.Errorf("user = %+v", user)
	}
	if user.Password != "" {
		t.Error("password must be stripped")
	}
}

func TestLoginSuperAdminWrongPassword(t *testing.T) {
	c := testCore(t)

	_, err := c.Login(context.Background(), "sup@sankhya.com.br", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginSuperAdminDisabledWithoutPassword(t *testing.T) {
	c := testCore(t)
	c.superAdminPwd = ""

	// An empty configured password must not allow empty-password logins.
	_, err := c.Login(context.Background(), "sup@sankhya.com.br", "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginErpUser(t *testing.T) {
	c := testCore(t)
	c.SetUsers(&stubUsers{users: []entity.User{
		{ID: 7, Name: "Ana", Email: "ana@sankhya.com.br", Status: entity.UserStatusActive, Password: hash(t, "ana-secret")},
	}})

	user, err := c.Login(context.Background(), "ana@sankhya.com.br", "ana-secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != 7 || user.Name != "Ana" {
		t.Errorf("user = %+v", user)
	}
	if user.Password != "" {
		t.Error("password must be stripped")
	}
}

func TestLoginRejections(t *testing.T) {
	active := entity.User{Email: "ana@sankhya.com.br", Status: entity.UserStatusActive, Password: ""}
	pending := entity.User{Email: "bob@sankhya.com.br", Status: "pendente", Password: ""}

	c := testCore(t)

	tests := []struct {
		name     string
		users    *stubUsers
		email    string
		password string
	}{
		{
			name:     "wrong password",
			users:    &stubUsers{users: []entity.User{{Email: "ana@sankhya.com.br", Status: entity.UserStatusActive, Password: hash(t, "right")}}},
			email:    "ana@sankhya.com.br",
			password: "wrong",
		},
		{
			name:     "unknown email",
			users:    &stubUsers{},
			email:    "nobody@sankhya.com.br",
			password: "x",
		},
		{
			name:     "user not approved",
			users:    &stubUsers{users: []entity.User{pending}},
			email:    "bob@sankhya.com.br",
			password: "x",
		},
		{
			name:     "empty stored hash",
			users:    &stubUsers{users: []entity.User{active}},
			email:    "ana@sankhya.com.br",
			password: "",
		},
		{
			name:     "user register unreachable",
			users:    &stubUsers{err: errors.New("erp down")},
			email:    "ana@sankhya.com.br",
			password: "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.SetUsers(tt.users)
			_, err := c.Login(context.Background(), tt.email, tt.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestListLeadsFiltersBlankCodes(t *testing.T) {
	c := testCore(t)
	c.SetLeads(&stubLeads{leads: []entity.Lead{
		{CodLead: "1", Nome: "Lead A"},
		{CodLead: "", Nome: "transient"},
		{CodLead: "2", Nome: "Lead B"},
	}})

	leads, err := c.ListLeads(context.Background())
	if err != nil {
		t.Fatalf("ListLeads: %v", err)
	}
	if len(leads) != 2 {
		t.Fatalf("leads = %d, want 2", len(leads))
	}
	if leads[0].CodLead != "1" || leads[1].CodLead != "2" {
		t.Errorf("leads = %+v", leads)
	}
}

func TestAuthenticateByToken(t *testing.T) {
	c := testCore(t)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"configured api key", "ui-api-key", false},
		{"cached on second use", "ui-api-key", false},
		{"empty token", "", true},
		{"unknown token", "other", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := c.AuthenticateByToken(tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && user.Name != "ui" {
				t.Errorf("Name = %q, want ui", user.Name)
			}
		})
	}
}

func TestAuthenticateByTokenWithoutConfiguredKey(t *testing.T) {
	c := testCore(t)
	c.SetAuthKey("")

	if _, err := c.AuthenticateByToken("anything"); err == nil {
		t.Fatal("authentication must fail when no key is configured")
	}
}
