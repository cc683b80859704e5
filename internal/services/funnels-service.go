package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"sankhyacrm/entity"
	"sankhyacrm/internal/lib/sl"
)

const (
	funnelsEntity = "AD_FUNIS"
	funnelsPK     = "CODFUNIL"
	stagesEntity  = "AD_ESTAGIOS"
	stagesPK      = "CODESTAGIO"
)

var funnelQueryFields = []string{
	"NOME", "DESCRICAO", "ATIVO", "DATA_CRIACAO", "DATA_ATUALIZACAO",
}

var stageQueryFields = []string{
	"CODFUNIL", "NOME", "ORDEM", "COR", "ATIVO", "DATA_ATUALIZACAO",
}

// FunnelsService is the AD_FUNIS / AD_ESTAGIOS adapter.
type FunnelsService struct {
	api *SankhyaService
	log *slog.Logger
}

func NewFunnelsService(api *SankhyaService, log *slog.Logger) *FunnelsService {
	return &FunnelsService{
		api: api,
		log: log.With(sl.Module("funnels")),
	}
}

// ListFunnels returns the active funnels, degrading to an empty slice on
// remote-call failure.
func (s *FunnelsService) ListFunnels(ctx context.Context) ([]entity.Funnel, error) {
	query := entity.NewQuery(funnelsEntity, funnelQueryFields, "ATIVO = 'S'")

	raw, err := s.api.Query(ctx, query)
	if err != nil {
		if degradable(err) {
			s.log.With(sl.Err(err)).Warn("funnel query failed, degrading to empty list")
			return []entity.Funnel{}, nil
		}
		return nil, err
	}

	records, err := DecodeEntities(raw, funnelsPK)
	if err != nil {
		return nil, err
	}

	funnels := make([]entity.Funnel, 0, len(records))
	for _, rec := range records {
		funnels = append(funnels, funnelFromRecord(rec))
	}
	return funnels, nil
}

// SaveFunnel inserts or updates a funnel and reloads the saved state.
func (s *FunnelsService) SaveFunnel(ctx context.Context, funnel entity.Funnel) (entity.Funnel, error) {
	builder := NewSaveBuilder(funnelsEntity)
	if funnel.IsUpdate() {
		builder.WithKey(funnelsPK, funnel.CodFunil)
	}

	builder.
		Add("NOME", funnel.Nome).
		Add("DESCRICAO", funnel.Descricao)

	if funnel.IsUpdate() {
		builder.Add("DATA_ATUALIZACAO", TodaySankhya())
	} else {
		builder.
			Add("ATIVO", "S").
			Add("DATA_CRIACAO", TodaySankhya()).
			Add("DATA_ATUALIZACAO", TodaySankhya())
	}

	if _, err := s.api.Save(ctx, builder.Build()); err != nil {
		return entity.Funnel{}, err
	}

	funnels, err := s.ListFunnels(ctx)
	if err != nil {
		return entity.Funnel{}, err
	}
	if funnel.IsUpdate() {
		for _, f := range funnels {
			if f.CodFunil == funnel.CodFunil {
				return f, nil
			}
		}
		return entity.Funnel{}, fmt.Errorf("funnel %s not found after save", funnel.CodFunil)
	}
	if len(funnels) == 0 {
		return entity.Funnel{}, fmt.Errorf("funnel not found after insert")
	}
	return funnels[len(funnels)-1], nil
}

// SetFunnelActive flips the funnel's soft-delete flag.
func (s *FunnelsService) SetFunnelActive(ctx context.Context, codFunil string, active bool) error {
	if err := validCode(codFunil); err != nil {
		return err
	}

	flag := "N"
	if active {
		flag = "S"
	}

	builder := NewSaveBuilder(funnelsEntity).
		WithKey(funnelsPK, codFunil).
		Add("ATIVO", flag).
		Add("DATA_ATUALIZACAO", TodaySankhya())

	_, err := s.api.Save(ctx, builder.Build())
	return err
}

// ListStages returns the active stages of one funnel in board order.
func (s *FunnelsService) ListStages(ctx context.Context, codFunil string) ([]entity.Stage, error) {
	if err := validCode(codFunil); err != nil {
		return nil, err
	}

	expression := fmt.Sprintf("CODFUNIL = %s AND ATIVO = 'S'", codFunil)
	query := entity.NewQuery(stagesEntity, stageQueryFields, expression)

	raw, err := s.api.Query(ctx, query)
	if err != nil {
		if degradable(err) {
			s.log.With(sl.Err(err)).Warn("stage query failed, degrading to empty list")
			return []entity.Stage{}, nil
		}
		return nil, err
	}

	records, err := DecodeEntities(raw, stagesPK)
	if err != nil {
		return nil, err
	}

	stages := make([]entity.Stage, 0, len(records))
	for _, rec := range records {
		stages = append(stages, stageFromRecord(rec))
	}
	sort.SliceStable(stages, func(i, j int) bool { return stages[i].Ordem < stages[j].Ordem })
	return stages, nil
}

// SaveStage inserts or updates one stage.
func (s *FunnelsService) SaveStage(ctx context.Context, stage entity.Stage) (entity.Stage, error) {
	if err := validCode(stage.CodFunil); err != nil {
		return entity.Stage{}, err
	}

	builder := NewSaveBuilder(stagesEntity)
	if stage.IsUpdate() {
		builder.WithKey(stagesPK, stage.CodEstagio)
	}

	builder.
		Add("CODFUNIL", stage.CodFunil).
		Add("NOME", stage.Nome).
		AddInt("ORDEM", stage.Ordem).
		Add("COR", stage.Cor)

	if stage.IsUpdate() {
		builder.Add("DATA_ATUALIZACAO", TodaySankhya())
	} else {
		builder.
			Add("ATIVO", "S").
			Add("DATA_ATUALIZACAO", TodaySankhya())
	}

	if _, err := s.api.Save(ctx, builder.Build()); err != nil {
		return entity.Stage{}, err
	}

	stages, err := s.ListStages(ctx, stage.CodFunil)
	if err != nil {
		return entity.Stage{}, err
	}
	if stage.IsUpdate() {
		for _, st := range stages {
			if st.CodEstagio == stage.CodEstagio {
				return st, nil
			}
		}
		return entity.Stage{}, fmt.Errorf("stage %s not found after save", stage.CodEstagio)
	}
	if len(stages) == 0 {
		return entity.Stage{}, fmt.Errorf("stage not found after insert")
	}
	return stages[len(stages)-1], nil
}

func funnelFromRecord(rec entity.Record) entity.Funnel {
	return entity.Funnel{
		CodFunil:        rec[funnelsPK],
		Nome:            rec["NOME"],
		Descricao:       rec["DESCRICAO"],
		Ativo:           rec["ATIVO"],
		DataCriacao:     ParseSankhyaDate(rec["DATA_CRIACAO"]),
		DataAtualizacao: ParseSankhyaDate(rec["DATA_ATUALIZACAO"]),
	}
}

func stageFromRecord(rec entity.Record) entity.Stage {
	ordem, _ := strconv.Atoi(rec["ORDEM"])
	return entity.Stage{
		CodEstagio:      rec[stagesPK],
		CodFunil:        rec["CODFUNIL"],
		Nome:            rec["NOME"],
		Ordem:           ordem,
		Cor:             rec["COR"],
		Ativo:           rec["ATIVO"],
		DataAtualizacao: ParseSankhyaDate(rec["DATA_ATUALIZACAO"]),
	}
}
