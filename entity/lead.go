package entity

import (
	"net/http"
	"sankhyacrm/internal/lib/validate"
)

const DefaultTagColor = "#3b82f6"

// Lead is the named-field projection of one AD_LEADS entity. Dates are
// carried in calendar order (YYYY-MM-DD); the gateway transcodes at the
// wire boundary.
type Lead struct {
	CodLead         string  `json:"CODLEAD,omitempty"`
	Nome            string  `json:"NOME" validate:"required"`
	Descricao       string  `json:"DESCRICAO"`
	Valor           float64 `json:"VALOR" validate:"gte=0"`
	CodEstagio      string  `json:"CODESTAGIO"`
	CodFunil        string  `json:"CODFUNIL"`
	DataVencimento  string  `json:"DATA_VENCIMENTO"`
	TipoTag         string  `json:"TIPO_TAG"`
	CorTag          string  `json:"COR_TAG"`
	CodParc         string  `json:"CODPARC,omitempty"`
	Ativo           string  `json:"ATIVO,omitempty"`
	DataCriacao     string  `json:"DATA_CRIACAO,omitempty"`
	DataAtualizacao string  `json:"DATA_ATUALIZACAO,omitempty"`
}

func (l *Lead) Bind(_ *http.Request) error {
	if l.CorTag == "" {
		l.CorTag = DefaultTagColor
	}
	return validate.Struct(l)
}

// IsUpdate reports whether the lead already exists remotely.
func (l *Lead) IsUpdate() bool {
	return l.CodLead != ""
}

// StageMove is the request body for moving a lead between funnel stages.
type StageMove struct {
	CodLead    string `json:"codLead" validate:"required"`
	CodEstagio string `json:"codEstagio" validate:"required"`
}

func (s *StageMove) Bind(_ *http.Request) error {
	return validate.Struct(s)
}

// LeadDelete is the request body for soft-deleting a lead.
type LeadDelete struct {
	CodLead string `json:"codLead" validate:"required"`
}

func (d *LeadDelete) Bind(_ *http.Request) error {
	return validate.Struct(d)
}
