package catalog

import (
	"strings"

	"github.com/rakurank/rakurank_api/internal/models"
)

// tagRule maps substring patterns to a category label. Rules are checked in
// order against the lower-cased item text; each match adds its label once.
type tagRule struct {
	patterns []string
	label    string
}

// tagRules is the fixed vocabulary for the ladies-fashion genre. Matching is
// by substring presence only, so the same text always yields the same set.
var tagRules = []tagRule{
	{[]string{"uv"}, "UVカット"},
	{[]string{"冷感", "ひんやり"}, "冷感"},
	{[]string{"ワンピ", "onepiece"}, "ワンピース"},
	{[]string{"水着", "ラッシュ"}, "水着"},
	{[]string{"パンツ"}, "パンツ"},
	{[]string{"デニム"}, "デニム"},
	{[]string{"ルームウェア"}, "ルームウェア"},
	{[]string{"体型カバー"}, "体型カバー"},
	{[]string{"パーカー"}, "パーカー"},
}

// InferTags derives category tags from the product's free text. Only set
// membership is stable; callers must not rely on order.
func InferTags(p *models.Product) []string {
	text := strings.ToLower(p.ItemName + " " + p.Catchcopy + " " + p.Description)
	seen := make(map[string]struct{})
	tags := make([]string, 0, 4)
	for _, rule := range tagRules {
		for _, pat := range rule.patterns {
			if strings.Contains(text, pat) {
				if _, ok := seen[rule.label]; !ok {
					seen[rule.label] = struct{}{}
					tags = append(tags, rule.label)
				}
				break
			}
		}
	}
	return tags
}
