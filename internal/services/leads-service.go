package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"sankhyacrm/entity"
	"sankhyacrm/internal/lib/sl"
)

const (
	leadsEntity = "AD_LEADS"
	leadsPK     = "CODLEAD"
)

// leadQueryFields is the fixed decode order for AD_LEADS queries.
var leadQueryFields = []string{
	"NOME", "DESCRICAO", "VALOR", "CODESTAGIO", "DATA_VENCIMENTO",
	"TIPO_TAG", "COR_TAG", "CODPARC", "CODFUNIL", "ATIVO",
	"DATA_CRIACAO", "DATA_ATUALIZACAO",
}

// LeadsService is the AD_LEADS adapter: a thin consumer of the gateway.
type LeadsService struct {
	api *SankhyaService
	log *slog.Logger
}

func NewLeadsService(api *SankhyaService, log *slog.Logger) *LeadsService {
	return &LeadsService{
		api: api,
		log: log.With(sl.Module("leads")),
	}
}

// List returns the active leads. Remote-call failures degrade to an
// empty slice (degrade-to-empty policy) so the board stays usable when
// the ERP is down; session expiry and auth failures still propagate.
func (s *LeadsService) List(ctx context.Context) ([]entity.Lead, error) {
	query := entity.NewQuery(leadsEntity, leadQueryFields, "ATIVO = 'S'")

	raw, err := s.api.Query(ctx, query)
	if err != nil {
		if degradable(err) {
			s.log.With(sl.Err(err)).Warn("lead query failed, degrading to empty list")
			return []entity.Lead{}, nil
		}
		return nil, err
	}

	records, err := DecodeEntities(raw, leadsPK)
	if err != nil {
		return nil, err
	}

	leads := make([]entity.Lead, 0, len(records))
	for _, rec := range records {
		leads = append(leads, leadFromRecord(rec))
	}
	return leads, nil
}

// Save inserts or updates a lead, then reloads it so the caller receives
// the remotely assigned state. Write errors always propagate.
func (s *LeadsService) Save(ctx context.Context, lead entity.Lead) (entity.Lead, error) {
	builder := NewSaveBuilder(leadsEntity)
	if lead.IsUpdate() {
		builder.WithKey(leadsPK, lead.CodLead)
	}

	builder.
		Add("NOME", lead.Nome).
		Add("DESCRICAO", lead.Descricao).
		AddNumber("VALOR", lead.Valor).
		Add("CODESTAGIO", lead.CodEstagio).
		AddDate("DATA_VENCIMENTO", lead.DataVencimento).
		Add("TIPO_TAG", lead.TipoTag).
		Add("COR_TAG", lead.CorTag).
		Add("CODPARC", lead.CodParc).
		Add("CODFUNIL", lead.CodFunil)

	if lead.IsUpdate() {
		builder.Add("DATA_ATUALIZACAO", TodaySankhya())
	} else {
		builder.
			Add("ATIVO", "S").
			Add("DATA_CRIACAO", TodaySankhya()).
			Add("DATA_ATUALIZACAO", TodaySankhya())
	}

	s.logDateErrors(builder)

	if _, err := s.api.Save(ctx, builder.Build()); err != nil {
		return entity.Lead{}, err
	}

	return s.reload(ctx, lead)
}

// UpdateStage moves a lead to another funnel stage.
func (s *LeadsService) UpdateStage(ctx context.Context, codLead, codEstagio string) (entity.Lead, error) {
	if err := validCode(codLead); err != nil {
		return entity.Lead{}, err
	}

	builder := NewSaveBuilder(leadsEntity).
		WithKey(leadsPK, codLead).
		Add("CODESTAGIO", codEstagio).
		Add("DATA_ATUALIZACAO", TodaySankhya())

	if _, err := s.api.Save(ctx, builder.Build()); err != nil {
		return entity.Lead{}, err
	}

	return s.reload(ctx, entity.Lead{CodLead: codLead})
}

// SetActive flips the soft-delete flag. Deactivation never issues a
// physical delete.
func (s *LeadsService) SetActive(ctx context.Context, codLead string, active bool) error {
	if err := validCode(codLead); err != nil {
		return err
	}

	flag := "N"
	if active {
		flag = "S"
	}

	builder := NewSaveBuilder(leadsEntity).
		WithKey(leadsPK, codLead).
		Add("ATIVO", flag).
		Add("DATA_ATUALIZACAO", TodaySankhya())

	_, err := s.api.Save(ctx, builder.Build())
	return err
}

// reload fetches the saved lead back from the ERP. For inserts (no key)
// the most recently listed lead is the new one.
func (s *LeadsService) reload(ctx context.Context, lead entity.Lead) (entity.Lead, error) {
	leads, err := s.List(ctx)
	if err != nil {
		return entity.Lead{}, err
	}

	if lead.IsUpdate() {
		for _, l := range leads {
			if l.CodLead == lead.CodLead {
				return l, nil
			}
		}
		return entity.Lead{}, fmt.Errorf("lead %s not found after save", lead.CodLead)
	}

	if len(leads) == 0 {
		return entity.Lead{}, errors.New("lead not found after insert")
	}
	return leads[len(leads)-1], nil
}

func (s *LeadsService) logDateErrors(b *SaveBuilder) {
	for _, derr := range b.DateErrors() {
		s.log.With(sl.Err(derr)).Warn("date written empty")
	}
}

func leadFromRecord(rec entity.Record) entity.Lead {
	valor, _ := strconv.ParseFloat(strings.TrimSpace(rec["VALOR"]), 64)
	return entity.Lead{
		CodLead:         rec[leadsPK],
		Nome:            rec["NOME"],
		Descricao:       rec["DESCRICAO"],
		Valor:           valor,
		CodEstagio:      rec["CODESTAGIO"],
		CodFunil:        rec["CODFUNIL"],
		DataVencimento:  ParseSankhyaDate(rec["DATA_VENCIMENTO"]),
		TipoTag:         rec["TIPO_TAG"],
		CorTag:          rec["COR_TAG"],
		CodParc:         rec["CODPARC"],
		Ativo:           rec["ATIVO"],
		DataCriacao:     ParseSankhyaDate(rec["DATA_CRIACAO"]),
		DataAtualizacao: ParseSankhyaDate(rec["DATA_ATUALIZACAO"]),
	}
}

// degradable reports whether a read path may swallow the error and
// return an empty result set.
func degradable(err error) bool {
	var remote *RemoteCallError
	return errors.As(err, &remote)
}

// validCode guards filter expressions and primary keys: ERP codes are
// numeric.
func validCode(code string) error {
	if code == "" {
		return errors.New("empty record code")
	}
	if _, err := strconv.ParseInt(code, 10, 64); err != nil {
		return fmt.Errorf("invalid record code %q", code)
	}
	return nil
}
