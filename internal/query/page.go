package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"beercatalog/internal/domain"

	"github.com/samber/lo"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// PageRequest is a zero-based page index and a page size.
type PageRequest struct {
	Index int
	Size  int
}

// Validate rejects negative indexes, sizes outside 1..MaxPageSize and
// indexes whose offset does not fit in an int64.
func (p PageRequest) Validate() error {
	if p.Index < 0 {
		return domain.ValidationError{Field: "page", Msg: "Page index must not be less than zero"}
	}
	if p.Size <= 0 {
		return domain.ValidationError{Field: "size", Msg: "Page size must be greater than zero"}
	}
	if p.Size > MaxPageSize {
		return domain.ValidationError{Field: "size", Msg: fmt.Sprintf("Page size must not exceed %d", MaxPageSize)}
	}
	if int64(p.Index) > math.MaxInt64/int64(p.Size) {
		return domain.ValidationError{Field: "page", Msg: "Page index is too large"}
	}
	return nil
}

func (p PageRequest) Offset() int64 {
	return int64(p.Index) * int64(p.Size)
}

// ParsePage reads the page/size query parameters. Blank values fall back to
// defaults, sizes above MaxPageSize are clamped, non-numeric values fail.
// Range checks are left to Validate so callers get one error path.
func ParsePage(pageRaw, sizeRaw string) (PageRequest, error) {
	req := PageRequest{Index: 0, Size: DefaultPageSize}

	if s := strings.TrimSpace(pageRaw); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return PageRequest{}, domain.ValidationError{Field: "page", Msg: "Page index must be a number", Err: err}
		}
		req.Index = n
	}
	if s := strings.TrimSpace(sizeRaw); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return PageRequest{}, domain.ValidationError{Field: "size", Msg: "Page size must be a number", Err: err}
		}
		req.Size = n
	}
	if req.Size > MaxPageSize {
		req.Size = MaxPageSize
	}
	return req, nil
}

// Page is one slice of a listing plus the metadata needed to walk the rest.
type Page[T any] struct {
	Content []T      `json:"content"`
	Page    PageMeta `json:"page"`
}

type PageMeta struct {
	Size          int   `json:"size"`
	Number        int   `json:"number"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int64 `json:"totalPages"`
}

// NewPage echoes req and derives the page count from total.
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	var pages int64
	if req.Size > 0 {
		pages = (total + int64(req.Size) - 1) / int64(req.Size)
	}
	return Page[T]{
		Content: content,
		Page: PageMeta{
			Size:          req.Size,
			Number:        req.Index,
			TotalElements: total,
			TotalPages:    pages,
		},
	}
}

// MapPage projects the content of p and keeps the metadata.
func MapPage[T, R any](p Page[T], fn func(T) R) Page[R] {
	return Page[R]{
		Content: lo.Map(p.Content, func(item T, _ int) R { return fn(item) }),
		Page:    p.Page,
	}
}
