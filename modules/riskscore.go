package modules

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// RiskTier is one of five ordered severity buckets derived from a risk score.
type RiskTier int

const (
	TierSafe RiskTier = iota
	TierLow
	TierMedium
	TierHigh
	TierCritical
)

func (t RiskTier) String() string {
	switch t {
	case TierSafe:
		return "SAFE"
	case TierLow:
		return "LOW"
	case TierMedium:
		return "MEDIUM"
	case TierHigh:
		return "HIGH"
	case TierCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Emoji returns the severity marker used in chat replies.
func (t RiskTier) Emoji() string {
	switch t {
	case TierSafe:
		return "🟢"
	case TierLow:
		return "🟡"
	case TierMedium:
		return "🟠"
	case TierHigh:
		return "🔴"
	case TierCritical:
		return "☠️"
	default:
		return "❓"
	}
}

// Taxes above this percentage are treated as a severe trading restriction.
const highTaxThresholdPct = 10.0

// riskFactor pairs a human-readable label with its severity weight.
type riskFactor struct {
	label  string
	weight int
}

// flagSet honors the GoPlus string-boolean convention: the literal "1" is
// true, anything else (including "", "0", garbage) is false.
func flagSet(v string) bool {
	return v == "1"
}

// parseTaxPct parses a GoPlus tax field. An absent or unparseable value
// degrades to 0, i.e. it never trips the high-tax factor.
// TODO: GoPlus occasionally returns non-numeric tax strings; revisit once the
// API documents the intended encoding.
func parseTaxPct(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// triggeredFactors returns the factors a token trips, ordered most severe
// first. Pure over its input.
func triggeredFactors(f TokenSecurityFacts) []riskFactor {
	var out []riskFactor
	if flagSet(f.IsHoneypot) {
		out = append(out, riskFactor{"honeypot: holders cannot sell", 100})
	}
	if flagSet(f.HoneypotWithSameCreator) {
		out = append(out, riskFactor{"creator has deployed other honeypots", 100})
	}
	if flagSet(f.HiddenOwner) {
		out = append(out, riskFactor{"hidden owner", 90})
	}
	if flagSet(f.SelfDestruct) {
		out = append(out, riskFactor{"contract can self-destruct", 80})
	}
	if flagSet(f.CanTakeBackOwnership) {
		out = append(out, riskFactor{"ownership can be reclaimed", 70})
	}
	if parseTaxPct(f.BuyTax) > highTaxThresholdPct || parseTaxPct(f.SellTax) > highTaxThresholdPct {
		out = append(out, riskFactor{"trading tax above 10%", 70})
	}
	if !flagSet(f.IsOpenSource) {
		out = append(out, riskFactor{"contract source not verified", 60})
	}
	if flagSet(f.IsMintable) {
		out = append(out, riskFactor{"supply is mintable", 40})
	}
	if flagSet(f.TradingCooldown) {
		out = append(out, riskFactor{"trading cooldown enabled", 30})
	}
	if flagSet(f.TransferPausable) {
		out = append(out, riskFactor{"transfers can be paused", 30})
	}
	if flagSet(f.IsProxy) {
		out = append(out, riskFactor{"upgradeable proxy contract", 20})
	}
	return out
}

// ComputeRiskScore sums the weights of every triggered factor. Weights are
// additive with no cap, so a token tripping everything accumulates the full
// sum. Deterministic: identical facts always yield the same score.
func ComputeRiskScore(f TokenSecurityFacts) int {
	score := 0
	for _, rf := range triggeredFactors(f) {
		score += rf.weight
	}
	return score
}

// ClassifyScore maps a score onto a tier, highest threshold first.
// Boundaries are inclusive: 20, 40, 70 and 100 land on the upper tier.
func ClassifyScore(score int) RiskTier {
	switch {
	case score >= 100:
		return TierCritical
	case score >= 70:
		return TierHigh
	case score >= 40:
		return TierMedium
	case score >= 20:
		return TierLow
	default:
		return TierSafe
	}
}

var tierRecommendations = map[RiskTier]string{
	TierSafe:     "No risk factors detected. Appears safe, but always verify independently before trading.",
	TierLow:      "Minor risk factors present. Review the flagged items before trading.",
	TierMedium:   "Several risk factors present. Trade only with caution and small size.",
	TierHigh:     "Serious risk factors present. Trading this token is strongly discouraged.",
	TierCritical: "Critical risk detected. Do not interact with this token.",
}

// Recommendation returns the fixed advisory sentence for a tier.
func Recommendation(t RiskTier) string {
	if r, ok := tierRecommendations[t]; ok {
		return r
	}
	return tierRecommendations[TierMedium]
}

// RiskAssessment is the classifier verdict for a single token check.
type RiskAssessment struct {
	ID             string    `json:"id"`
	Address        string    `json:"address"`
	ChainID        string    `json:"chain_id"`
	TokenName      string    `json:"token_name"`
	TokenSymbol    string    `json:"token_symbol"`
	Score          int       `json:"score"`
	Tier           RiskTier  `json:"tier"`
	Factors        []string  `json:"factors"`
	Recommendation string    `json:"recommendation"`
	AssessedAt     time.Time `json:"assessed_at"`
}

// AssessToken runs the classifier over a set of token-security facts. The
// score/tier mapping is pure; only the id and timestamp vary between calls.
func AssessToken(address, chainID string, f TokenSecurityFacts) RiskAssessment {
	factors := triggeredFactors(f)
	score := 0
	labels := make([]string, 0, len(factors))
	for _, rf := range factors {
		score += rf.weight
		labels = append(labels, rf.label)
	}

	tier := ClassifyScore(score)
	return RiskAssessment{
		ID:             uuid.NewString(),
		Address:        address,
		ChainID:        chainID,
		TokenName:      f.TokenName,
		TokenSymbol:    f.TokenSymbol,
		Score:          score,
		Tier:           tier,
		Factors:        labels,
		Recommendation: Recommendation(tier),
		AssessedAt:     time.Now().UTC(),
	}
}
