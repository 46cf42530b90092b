package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
)

func TestApplySmartCorrection(t *testing.T) {
	r := NewSynonymResolver(nil)

	tests := []struct {
		name string
		in   domain.AssetQuery
		want domain.AssetQuery
	}{
		{
			name: "keyword in asset_id moves to name",
			in:   domain.AssetQuery{AssetID: "노트북"},
			want: domain.AssetQuery{AssetName: "노트북"},
		},
		{
			name: "keyword in identification_num moves to name",
			in:   domain.AssetQuery{IdentificationNum: "PC"},
			want: domain.AssetQuery{AssetName: "PC"},
		},
		{
			name: "explicit name wins over misplaced keyword",
			in:   domain.AssetQuery{AssetName: "맥북", AssetID: "복합기"},
			want: domain.AssetQuery{AssetName: "맥북"},
		},
		{
			name: "both identifiers misplaced, first fills the name",
			in:   domain.AssetQuery{AssetID: "모니터", IdentificationNum: "프린터"},
			want: domain.AssetQuery{AssetName: "모니터"},
		},
		{
			name: "real identifiers untouched",
			in:   domain.AssetQuery{AssetID: "A-1234", IdentificationNum: "2024-000123"},
			want: domain.AssetQuery{AssetID: "A-1234", IdentificationNum: "2024-000123"},
		},
		{
			name: "empty query",
			in:   domain.AssetQuery{},
			want: domain.AssetQuery{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplySmartCorrection(tt.in, r, nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplySmartCorrection_Idempotent(t *testing.T) {
	r := NewSynonymResolver(nil)

	inputs := []domain.AssetQuery{
		{AssetID: "노트북"},
		{AssetName: "맥북", AssetID: "복합기", IdentificationNum: "PC"},
		{AssetID: "A-1234"},
		{IdentificationNum: "에어컨"},
		{AssetName: "pc", AssetID: "A-1", IdentificationNum: "laptop"},
	}

	for _, in := range inputs {
		once := ApplySmartCorrection(in, r, nil)
		twice := ApplySmartCorrection(once, r, nil)
		assert.Equal(t, once, twice, "input %+v", in)
	}
}
