package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rakurank/rakurank_api/internal/models"
)

func TestInferTags(t *testing.T) {
	cases := []struct {
		name    string
		product models.Product
		want    []string
	}{
		{
			name:    "uv in name",
			product: models.Product{ItemName: "UVカット カーディガン"},
			want:    []string{"UVカット"},
		},
		{
			name:    "hinyari maps to cooling",
			product: models.Product{ItemName: "夏用シャツ", Catchcopy: "ひんやり素材"},
			want:    []string{"冷感"},
		},
		{
			name:    "romaji onepiece",
			product: models.Product{ItemName: "onepiece dress"},
			want:    []string{"ワンピース"},
		},
		{
			name:    "rashguard counts as swimwear",
			product: models.Product{ItemName: "ラッシュガード"},
			want:    []string{"水着"},
		},
		{
			name:    "multiple rules can fire",
			product: models.Product{ItemName: "冷感ワンピ", Description: "体型カバーに"},
			want:    []string{"冷感", "ワンピース", "体型カバー"},
		},
		{
			name:    "description text is searched",
			product: models.Product{ItemName: "春物", Description: "部屋で着るルームウェアにも"},
			want:    []string{"ルームウェア"},
		},
		{
			name:    "no rule fires",
			product: models.Product{ItemName: "シンプルシャツ"},
			want:    []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ElementsMatch(t, tc.want, InferTags(&tc.product))
		})
	}
}

func TestInferTagsDeduplicates(t *testing.T) {
	p := models.Product{ItemName: "デニムパンツ", Catchcopy: "ストレッチデニム", Description: "デニム素材"}
	assert.ElementsMatch(t, []string{"パンツ", "デニム"}, InferTags(&p))
}
