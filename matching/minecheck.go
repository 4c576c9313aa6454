package matching

import (
	"context"

	"amomaster/models"

	"go.uber.org/zap"
)

// RiskLevel grades a MineCheckResult.
type RiskLevel string

const (
	RiskSafe    RiskLevel = "safe"
	RiskWarning RiskLevel = "warning"
	RiskDanger  RiskLevel = "danger"
)

// MatchType grades a single NG match by its similarity score.
type MatchType string

const (
	MatchExact   MatchType = "exact"
	MatchPartial MatchType = "partial"
	MatchSimilar MatchType = "similar"
)

// Fixed advice, one per risk tier.
const (
	AdviceDanger  = "🚨 これは地雷だ！絶対にやめろ。パートナーが過去に嫌がったことに直接触れている。"
	AdviceWarning = "⚠️ 注意が必要だ。過去のNG記録に似たパターンがある。もう一度考え直せ。"
	AdviceCaution = "🤔 少し気になる点がある。念のため、パートナーの反応をよく観察しろ。"
	AdviceSafe    = "✅ 現在の記録では特に問題は見つからない。ただし油断するな、常にパートナーの反応を見ろ。"
)

const (
	dangerThreshold  = 70
	warningThreshold = 40
	maxRiskScore     = 100
)

type MatchedNG struct {
	Content   string    `json:"content"`
	MatchType MatchType `json:"match_type"`
	Score     int       `json:"score"`
}

type MineCheckResult struct {
	RiskScore  int         `json:"risk_score"`
	RiskLevel  RiskLevel   `json:"risk_level"`
	MatchedNGs []MatchedNG `json:"matched_ngs"`
	Advice     string      `json:"advice"`
}

// MineChecker screens a proposed action or gift against the user's NG records.
type MineChecker struct {
	source RecordSource
	logger *zap.Logger
}

func NewMineChecker(source RecordSource, logger *zap.Logger) *MineChecker {
	return &MineChecker{source: source, logger: logger.Named("mine-checker")}
}

// Check never fails: when the records cannot be fetched the input is judged
// against an empty NG set. Callers reject blank input beforehand.
func (m *MineChecker) Check(ctx context.Context, userID int64, input string) MineCheckResult {
	return Evaluate(input, m.ngRecords(ctx, userID))
}

func (m *MineChecker) ngRecords(ctx context.Context, userID int64) []models.Preference {
	prefs, err := m.source.Preferences(ctx, userID)
	if err != nil {
		m.logger.Error("fetch NG records failed, checking against none",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return nil
	}

	var ngs []models.Preference
	for _, p := range prefs {
		if p.Category == models.CategoryNG {
			ngs = append(ngs, p)
		}
	}
	return ngs
}

// Evaluate scores input against every NG record and aggregates. The risk
// score is the clamped sum of per-record scores, so several weak matches
// add up.
func Evaluate(input string, ngs []models.Preference) MineCheckResult {
	matched := []MatchedNG{}
	total := 0

	for _, ng := range ngs {
		score := CalculateSimilarity(input, ng.Content)
		if score <= 0 {
			continue
		}
		matched = append(matched, MatchedNG{
			Content:   ng.Content,
			MatchType: matchTypeFor(score),
			Score:     score,
		})
		total += score
	}

	risk := min(maxRiskScore, total)
	level, advice := gradeRisk(risk, len(matched) > 0)

	return MineCheckResult{
		RiskScore:  risk,
		RiskLevel:  level,
		MatchedNGs: matched,
		Advice:     advice,
	}
}

func matchTypeFor(score int) MatchType {
	switch {
	case score >= scoreExact:
		return MatchExact
	case score >= 50:
		return MatchPartial
	default:
		return MatchSimilar
	}
}

func gradeRisk(score int, anyMatch bool) (RiskLevel, string) {
	switch {
	case score >= dangerThreshold:
		return RiskDanger, AdviceDanger
	case score >= warningThreshold:
		return RiskWarning, AdviceWarning
	case anyMatch:
		return RiskWarning, AdviceCaution
	default:
		return RiskSafe, AdviceSafe
	}
}

// Label returns the Japanese display label of the level.
func (l RiskLevel) Label() string {
	switch l {
	case RiskDanger:
		return "危険"
	case RiskWarning:
		return "注意"
	default:
		return "安全"
	}
}
