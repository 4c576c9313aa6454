package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateSimilarityExactMatch(t *testing.T) {
	for _, s := range []string{"", "香水", "Perfume", "香水をもらうのは苦手", "  "} {
		assert.Equal(t, 100, CalculateSimilarity(s, s), s)
	}
	assert.Equal(t, 100, CalculateSimilarity("PERFUME", "perfume"))
}

func TestCalculateSimilarityContainment(t *testing.T) {
	tests := []struct{ a, b string }{
		{"香水", "香水をもらうのは苦手"},
		{"香水をもらうのは苦手", "香水"},
		{"Chocolate", "dark chocolate cake"},
	}
	for _, tt := range tests {
		assert.Equal(t, 70, CalculateSimilarity(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestCalculateSimilarityEmptyQueryDoesNotMatch(t *testing.T) {
	assert.Equal(t, 0, CalculateSimilarity("", "香水"))
	assert.Equal(t, 0, CalculateSimilarity("香水", ""))
	assert.Equal(t, 0, CalculateSimilarity("   ", "香水"))
}

func TestCalculateSimilarityKeywordOverlap(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		candidate string
		want      int
	}{
		// 香水 == 香水 (+2); nothing else shared.
		{"shared ideograph run", "香水をプレゼントしようと思ってる", "香水をもらうのは苦手", 40},
		// 香水 inside 香水瓶 (+1); 香水瓶 is not in the query.
		{"partial keyword only", "香水を", "高い香水瓶", 20},
		// 映画 == 映画 (+2), ホラー == ホラー (+2).
		{"several shared keywords", "ホラー映画を一緒に見る", "ホラー映画は怖いから嫌", 80},
		{"unrelated", "花束を贈る", "辛い料理", 0},
		{"latin only unrelated", "gift card", "spicy food", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateSimilarity(tt.query, tt.candidate))
		})
	}
}

func TestCalculateSimilarityCapsKeywordScore(t *testing.T) {
	// Three identical keyword pairs count 6, capped at 80.
	got := CalculateSimilarity("誕生日にサプライズで花束", "サプライズの花束と誕生日")
	assert.Equal(t, 80, got)
}

func TestCalculateSimilarityBounded(t *testing.T) {
	inputs := []string{"", "香水", "香水をもらうのは苦手", "ホラー映画", "サプライズ", "gift", "ねこちゃん", "誕生日にサプライズで花束"}
	for _, a := range inputs {
		for _, b := range inputs {
			s := CalculateSimilarity(a, b)
			assert.GreaterOrEqual(t, s, 0)
			assert.LessOrEqual(t, s, 100)
			assert.Equal(t, s, CalculateSimilarity(a, b), "deterministic")
		}
	}
}
