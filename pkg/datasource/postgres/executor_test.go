package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeNameFromOID(t *testing.T) {
	tests := []struct {
		oid  uint32
		want string
	}{
		{16, "BOOL"},
		{20, "INT8"},
		{23, "INT4"},
		{25, "TEXT"},
		{701, "FLOAT8"},
		{1043, "VARCHAR"},
		{1082, "DATE"},
		{1114, "TIMESTAMP"},
		{1184, "TIMESTAMPTZ"},
		{1700, "NUMERIC"},
		{2950, "UUID"},
		{99999, "UNKNOWN"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, typeNameFromOID(tt.oid))
	}
}
