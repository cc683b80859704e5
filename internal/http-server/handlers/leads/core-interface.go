package leads

import (
	"context"
	"sankhyacrm/entity"
)

type Core interface {
	ListLeads(ctx context.Context) ([]entity.Lead, error)
	SaveLead(ctx context.Context, lead entity.Lead) (entity.Lead, error)
	UpdateLeadStage(ctx context.Context, codLead, codEstagio string) (entity.Lead, error)
	DeleteLead(ctx context.Context, codLead string) error
}
