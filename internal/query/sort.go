package query

import (
	"strings"
)

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// SortSpec is a requested ordering. Column is caller-controlled and is only
// ever used as a lookup key into an Entity's allowlist.
type SortSpec struct {
	Column    string
	Direction Direction
}

// ParseSort reads the "<column>[,asc|desc]" wire format. A blank value
// returns def. Any direction token other than desc is ascending.
func ParseSort(raw string, def SortSpec) SortSpec {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	column, dir, _ := strings.Cut(raw, ",")
	spec := SortSpec{Column: strings.TrimSpace(column), Direction: Asc}
	if strings.EqualFold(strings.TrimSpace(dir), "desc") {
		spec.Direction = Desc
	}
	return spec
}

func (s SortSpec) String() string {
	dir := "asc"
	if s.Direction == Desc {
		dir = "desc"
	}
	return s.Column + "," + dir
}
