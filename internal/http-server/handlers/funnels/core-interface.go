package funnels

import (
	"context"
	"sankhyacrm/entity"
)

type Core interface {
	ListFunnels(ctx context.Context) ([]entity.Funnel, error)
	SaveFunnel(ctx context.Context, funnel entity.Funnel) (entity.Funnel, error)
	DeleteFunnel(ctx context.Context, codFunil string) error
	ListStages(ctx context.Context, codFunil string) ([]entity.Stage, error)
	SaveStage(ctx context.Context, stage entity.Stage) (entity.Stage, error)
}
