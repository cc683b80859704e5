package response

import (
	apierrors "sankhyacrm/internal/lib/errors"
)

// ErrorBody is the error shape every route returns: {"error": "..."}.
type ErrorBody struct {
	Error string `json:"error"`
}

func Error(message string) ErrorBody {
	return ErrorBody{Error: message}
}

// FromAPIError renders a structured APIError as the wire error shape.
func FromAPIError(err *apierrors.APIError) ErrorBody {
	return ErrorBody{Error: err.Message}
}

// PartnersPage is the paginated partners envelope.
type PartnersPage struct {
	Partners   interface{} `json:"partners"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// Partners builds the pagination envelope around a partners slice.
func Partners(data interface{}, page, pageSize, total int) PartnersPage {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize // Ceiling division
	}
	return PartnersPage{
		Partners:   data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
