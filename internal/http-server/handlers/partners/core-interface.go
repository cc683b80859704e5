package partners

import (
	"context"
	"sankhyacrm/entity"
)

type Core interface {
	ListPartners(ctx context.Context, page, pageSize int, searchName, searchCode string) ([]entity.Partner, int, error)
	SavePartner(ctx context.Context, partner entity.Partner) (entity.Partner, error)
}
