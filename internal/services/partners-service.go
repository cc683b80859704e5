package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"sankhyacrm/entity"
	"sankhyacrm/internal/lib/sl"
)

const (
	partnersEntity = "Parceiro"
	partnersPK     = "CODPARC"
)

var partnerQueryFields = []string{
	"NOMEPARC", "CGC_CPF", "CODCID", "TIPPESSOA", "ATIVO",
}

// PartnersService is the Parceiro adapter: paginated reads over the
// ERP's partner register plus insert/update writes.
type PartnersService struct {
	api *SankhyaService
	log *slog.Logger
}

func NewPartnersService(api *SankhyaService, log *slog.Logger) *PartnersService {
	return &PartnersService{
		api: api,
		log: log.With(sl.Module("partners")),
	}
}

// List returns one page of active partners matching the filters, along
// with the total match count. Remote-call failures degrade to an empty
// page.
func (s *PartnersService) List(ctx context.Context, page, pageSize int, searchName, searchCode string) ([]entity.Partner, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}

	query := entity.NewQuery(partnersEntity, partnerQueryFields, partnerCriteria(searchName, searchCode))

	raw, err := s.api.Query(ctx, query)
	if err != nil {
		if degradable(err) {
			s.log.With(sl.Err(err)).Warn("partner query failed, degrading to empty page")
			return []entity.Partner{}, 0, nil
		}
		return nil, 0, err
	}

	records, err := DecodeEntities(raw, partnersPK)
	if err != nil {
		return nil, 0, err
	}

	partners := make([]entity.Partner, 0, len(records))
	for _, rec := range records {
		partners = append(partners, partnerFromRecord(rec))
	}

	total := len(partners)
	start := (page - 1) * pageSize
	if start >= total {
		return []entity.Partner{}, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return partners[start:end], total, nil
}

// Save inserts or updates a partner.
func (s *PartnersService) Save(ctx context.Context, partner entity.Partner) (entity.Partner, error) {
	builder := NewSaveBuilder(partnersEntity)
	if partner.IsUpdate() {
		builder.WithKey(partnersPK, partner.CodParc)
	}

	builder.
		Add("NOMEPARC", partner.NomeParc).
		Add("CGC_CPF", partner.CgcCpf).
		Add("CODCID", partner.CodCid).
		Add("TIPPESSOA", partner.TipPessoa)

	if !partner.IsUpdate() {
		builder.Add("ATIVO", "S")
	}

	if _, err := s.api.Save(ctx, builder.Build()); err != nil {
		return entity.Partner{}, err
	}

	if partner.IsUpdate() {
		return partner, nil
	}
	// Reload so the caller receives the assigned CODPARC.
	partners, _, err := s.List(ctx, 1, 1_000_000, partner.NomeParc, "")
	if err != nil {
		return entity.Partner{}, err
	}
	if len(partners) == 0 {
		return entity.Partner{}, fmt.Errorf("partner not found after insert")
	}
	return partners[len(partners)-1], nil
}

// partnerCriteria builds the filter expression. Quotes in the name are
// doubled so the expression stays well-formed; codes must be numeric.
func partnerCriteria(searchName, searchCode string) string {
	expr := "ATIVO = 'S'"
	if searchName != "" {
		escaped := strings.ReplaceAll(searchName, "'", "''")
		expr += fmt.Sprintf(" AND UPPER(NOMEPARC) LIKE UPPER('%%%s%%')", escaped)
	}
	if searchCode != "" && validCode(searchCode) == nil {
		expr += fmt.Sprintf(" AND CODPARC = %s", searchCode)
	}
	return expr
}

func partnerFromRecord(rec entity.Record) entity.Partner {
	return entity.Partner{
		CodParc:   rec[partnersPK],
		NomeParc:  rec["NOMEPARC"],
		CgcCpf:    rec["CGC_CPF"],
		CodCid:    rec["CODCID"],
		TipPessoa: rec["TIPPESSOA"],
		Ativo:     rec["ATIVO"],
	}
}
