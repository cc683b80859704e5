package entity

import (
	"net/http"
	"sankhyacrm/internal/lib/validate"
)

// Funnel is one AD_FUNIS entity: a named pipeline of stages.
type Funnel struct {
	CodFunil        string `json:"CODFUNIL,omitempty"`
	Nome            string `json:"NOME" validate:"required"`
	Descricao       string `json:"DESCRICAO"`
	Ativo           string `json:"ATIVO,omitempty"`
	DataCriacao     string `json:"DATA_CRIACAO,omitempty"`
	DataAtualizacao string `json:"DATA_ATUALIZACAO,omitempty"`
}

func (f *Funnel) Bind(_ *http.Request) error {
	return validate.Struct(f)
}

func (f *Funnel) IsUpdate() bool {
	return f.CodFunil != ""
}

// Stage is one AD_ESTAGIOS entity, ordered within its funnel.
type Stage struct {
	CodEstagio      string `json:"CODESTAGIO,omitempty"`
	CodFunil        string `json:"CODFUNIL" validate:"required"`
	Nome            string `json:"NOME" validate:"required"`
	Ordem           int    `json:"ORDEM" validate:"gte=0"`
	Cor             string `json:"COR"`
	Ativo           string `json:"ATIVO,omitempty"`
	DataAtualizacao string `json:"DATA_ATUALIZACAO,omitempty"`
}

func (s *Stage) Bind(_ *http.Request) error {
	return validate.Struct(s)
}

func (s *Stage) IsUpdate() bool {
	return s.CodEstagio != ""
}

// FunnelDelete is the request body for soft-deleting a funnel.
type FunnelDelete struct {
	CodFunil string `json:"codFunil" validate:"required"`
}

func (d *FunnelDelete) Bind(_ *http.Request) error {
	return validate.Struct(d)
}
