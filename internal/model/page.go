// Package model defines the canonical entity types produced by normalization.
package model

// Page is the canonical pagination envelope returned by every list operation,
// regardless of which upstream wrapper shape produced it.
type Page[T any] struct {
	Content       []T  `json:"content"`
	PageNumber    int  `json:"pageNumber"`
	PageSize      int  `json:"pageSize"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	First         bool `json:"first"`
	Last          bool `json:"last"`
}

// EmptyPage returns a well-formed zero-result envelope for the given page
// request. Read failures degrade to this rather than an error.
func EmptyPage[T any](pageNumber, pageSize int) Page[T] {
	return Page[T]{
		Content:       []T{},
		PageNumber:    pageNumber,
		PageSize:      pageSize,
		TotalElements: 0,
		TotalPages:    0,
		First:         pageNumber == 0,
		Last:          true,
	}
}

// NewPage assembles an envelope from content and upstream-supplied metadata.
// Metadata the upstream omitted is passed as -1 and derived here:
// totalElements falls back to len(content), totalPages to
// ceil(totalElements/pageSize). Upstream-supplied values are never
// second-guessed.
func NewPage[T any](content []T, pageNumber, pageSize, totalElements, totalPages int) Page[T] {
	if content == nil {
		content = []T{}
	}
	if pageNumber < 0 {
		pageNumber = 0
	}
	if pageSize <= 0 {
		pageSize = len(content)
		if pageSize == 0 {
			pageSize = 1
		}
	}
	if totalElements < 0 {
		totalElements = len(content)
	}
	if totalPages < 0 {
		totalPages = (totalElements + pageSize - 1) / pageSize
	}
	return Page[T]{
		Content:       content,
		PageNumber:    pageNumber,
		PageSize:      pageSize,
		TotalElements: totalElements,
		TotalPages:    totalPages,
		First:         pageNumber == 0,
		Last:          totalPages == 0 || pageNumber >= totalPages-1,
	}
}
