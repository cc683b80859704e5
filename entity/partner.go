package entity

import (
	"net/http"
	"sankhyacrm/internal/lib/validate"
)

// Partner is the projection of one Parceiro entity, the ERP's business
// partner register.
type Partner struct {
	CodParc   string `json:"CODPARC,omitempty"`
	NomeParc  string `json:"NOMEPARC" validate:"required"`
	CgcCpf    string `json:"CGC_CPF"`
	CodCid    string `json:"CODCID,omitempty"`
	TipPessoa string `json:"TIPPESSOA,omitempty"`
	Ativo     string `json:"ATIVO,omitempty"`
}

func (p *Partner) Bind(_ *http.Request) error {
	return validate.Struct(p)
}

func (p *Partner) IsUpdate() bool {
	return p.CodParc != ""
}
