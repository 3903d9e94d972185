package dbx

import (
	"database/sql"
	"database/sql/driver"

	"github.com/jackc/pgx/v5/pgtype"
)

// TextArray adapts a []string to a PostgreSQL TEXT[] parameter. A nil slice
// is sent as an empty array, never NULL.
type TextArray []string

// Value encodes the array in PostgreSQL text format.
func (a TextArray) Value() (driver.Value, error) {
	v := []string(a)
	if v == nil {
		v = []string{}
	}
	buf, err := pgtype.NewMap().Encode(pgtype.TextArrayOID, pgtype.TextFormatCode, v, nil)
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

// ScanTextArray returns a scanner that decodes a TEXT[] column into dst.
// NULL decodes to an empty slice.
func ScanTextArray(dst *[]string) sql.Scanner {
	return &textArrayScanner{dst: dst}
}

type textArrayScanner struct {
	dst *[]string
}

func (s *textArrayScanner) Scan(src any) error {
	var v []string
	if err := pgtype.NewMap().SQLScanner(&v).Scan(src); err != nil {
		return err
	}
	if v == nil {
		v = []string{}
	}
	*s.dst = v
	return nil
}
