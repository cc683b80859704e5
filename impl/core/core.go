package core

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"sankhyacrm/entity"
	"sankhyacrm/internal/config"
	"sankhyacrm/internal/lib/sl"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Login for a wrong email/password
// pair or a user that is not approved yet.
var ErrInvalidCredentials = errors.New("invalid credentials or user not approved")

type Leads interface {
	List(ctx context.Context) ([]entity.Lead, error)
	Save(ctx context.Context, lead entity.Lead) (entity.Lead, error)
	UpdateStage(ctx context.Context, codLead, codEstagio string) (entity.Lead, error)
	SetActive(ctx context.Context, codLead string, active bool) error
}

type Funnels interface {
	ListFunnels(ctx context.Context) ([]entity.Funnel, error)
	SaveFunnel(ctx context.Context, funnel entity.Funnel) (entity.Funnel, error)
	SetFunnelActive(ctx context.Context, codFunil string, active bool) error
	ListStages(ctx context.Context, codFunil string) ([]entity.Stage, error)
	SaveStage(ctx context.Context, stage entity.Stage) (entity.Stage, error)
}

type Partners interface {
	List(ctx context.Context, page, pageSize int, searchName, searchCode string) ([]entity.Partner, int, error)
	Save(ctx context.Context, partner entity.Partner) (entity.Partner, error)
}

type Users interface {
	List(ctx context.Context) ([]entity.User, error)
}

type Core struct {
	leads    Leads
	funnels  Funnels
	partners Partners
	users    Users

	superAdmin    entity.User
	superAdminPwd string

	authKey string
	keys    map[string]string
	keysMu  sync.RWMutex

	log *slog.Logger
}

func New(log *slog.Logger, conf *config.Config) *Core {
	return &Core{
		superAdmin: entity.User{
			ID:     0,
			Name:   conf.SuperAdmin.Name,
			Email:  conf.SuperAdmin.Email,
			Role:   "Administrador",
			Status: entity.UserStatusActive,
		},
		superAdminPwd: conf.SuperAdmin.Password,
		authKey:       conf.Listen.ApiKey,
		keys:          make(map[string]string),
		log:           log.With(sl.Module("core")),
	}
}

func (c *Core) SetLeads(leads Leads) {
	c.leads = leads
}

func (c *Core) SetFunnels(funnels Funnels) {
	c.funnels = funnels
}

func (c *Core) SetPartners(partners Partners) {
	c.partners = partners
}

func (c *Core) SetUsers(users Users) {
	c.users = users
}

func (c *Core) SetAuthKey(key string) {
	c.authKey = key
}

// Login verifies email/password against the configured super admin and
// then against the active ERP users. An unreachable user register is a
// credential failure for the caller, not an internal error: the super
// admin must stay able to log in while the ERP is down.
func (c *Core) Login(ctx context.Context, email, password string) (*entity.User, error) {
	if c.superAdminPwd != "" && email == c.superAdmin.Email && password == c.superAdminPwd {
		user := c.superAdmin.WithoutPassword()
		return &user, nil
	}

	if c.users == nil {
		return nil, ErrInvalidCredentials
	}

	users, err := c.users.List(ctx)
	if err != nil {
		c.log.With(sl.Err(err)).Warn("user lookup failed during login")
		return nil, ErrInvalidCredentials
	}

	for _, user := range users {
		if user.Email != email || user.Status != entity.UserStatusActive || user.Password == "" {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil {
			safe := user.WithoutPassword()
			return &safe, nil
		}
	}

	return nil, ErrInvalidCredentials
}

// ListLeads keeps only leads that exist remotely (non-blank CODLEAD).
func (c *Core) ListLeads(ctx context.Context) ([]entity.Lead, error) {
	leads, err := c.leads.List(ctx)
	if err != nil {
		return nil, err
	}
	valid := make([]entity.Lead, 0, len(leads))
	for _, lead := range leads {
		if lead.CodLead != "" {
			valid = append(valid, lead)
		}
	}
	return valid, nil
}

func (c *Core) SaveLead(ctx context.Context, lead entity.Lead) (entity.Lead, error) {
	return c.leads.Save(ctx, lead)
}

func (c *Core) UpdateLeadStage(ctx context.Context, codLead, codEstagio string) (entity.Lead, error) {
	return c.leads.UpdateStage(ctx, codLead, codEstagio)
}

func (c *Core) DeleteLead(ctx context.Context, codLead string) error {
	return c.leads.SetActive(ctx, codLead, false)
}

func (c *Core) ListFunnels(ctx context.Context) ([]entity.Funnel, error) {
	return c.funnels.ListFunnels(ctx)
}

func (c *Core) SaveFunnel(ctx context.Context, funnel entity.Funnel) (entity.Funnel, error) {
	return c.funnels.SaveFunnel(ctx, funnel)
}

func (c *Core) DeleteFunnel(ctx context.Context, codFunil string) error {
	return c.funnels.SetFunnelActive(ctx, codFunil, false)
}

func (c *Core) ListStages(ctx context.Context, codFunil string) ([]entity.Stage, error) {
	return c.funnels.ListStages(ctx, codFunil)
}

func (c *Core) SaveStage(ctx context.Context, stage entity.Stage) (entity.Stage, error) {
	return c.funnels.SaveStage(ctx, stage)
}

func (c *Core) ListPartners(ctx context.Context, page, pageSize int, searchName, searchCode string) ([]entity.Partner, int, error) {
	return c.partners.List(ctx, page, pageSize, searchName, searchCode)
}

func (c *Core) SavePartner(ctx context.Context, partner entity.Partner) (entity.Partner, error) {
	return c.partners.Save(ctx, partner)
}
