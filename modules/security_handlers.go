package modules

import (
	"context"
	"fmt"
	"log"
	"strings"

	"tokensentry/pkg/store"
	"tokensentry/pkg/validate"
)

// parseTokenArgs extracts <address> [chain] from command arguments.
func parseTokenArgs(args []string) (address, chainID, chainSlug string, errReply string) {
	if len(args) == 0 {
		return "", "", "", "Usage: security [address] [chain]. Example: security 0xdAC17F958D2ee523a2206206994597C13D831ec7 eth"
	}

	res := validate.ContractAddress(args[0])
	if !res.IsValid {
		return "", "", "", "Invalid contract address: " + strings.Join(res.Errors, "; ")
	}
	address = res.Normalized

	chainID = DefaultChainID
	chainSlug = "eth"
	if len(args) > 1 {
		id, ok := ResolveChainID(args[1])
		if !ok {
			return "", "", "", fmt.Sprintf("Unknown chain '%s'. Supported: eth, bsc, polygon, arbitrum, base, avalanche", args[1])
		}
		chainID = id
		chainSlug = strings.ToLower(args[1])
	}
	return address, chainID, chainSlug, ""
}

// RunSecurity is the public entry for the full token-security report.
func RunSecurity(args []string) (string, error) {
	address, chainID, chainSlug, errReply := parseTokenArgs(args)
	if errReply != "" {
		return errReply, nil
	}

	facts, err := FetchTokenSecurity(address, chainID)
	if err != nil {
		return fmt.Sprintf("Security check for %s failed. Reason: %s", address, summarizeErr(err)), nil
	}

	assessment := AssessToken(address, chainID, facts)
	persistAssessment(assessment)

	return BuildSecurityReply(chainSlug, facts, assessment), nil
}

// RunRiskCheck returns the short classifier verdict without the full report.
func RunRiskCheck(args []string) (string, error) {
	address, chainID, _, errReply := parseTokenArgs(args)
	if errReply != "" {
		return strings.Replace(errReply, "Usage: security", "Usage: risk", 1), nil
	}

	facts, err := FetchTokenSecurity(address, chainID)
	if err != nil {
		return fmt.Sprintf("Risk check for %s failed. Reason: %s", address, summarizeErr(err)), nil
	}

	a := AssessToken(address, chainID, facts)
	persistAssessment(a)

	name := a.TokenSymbol
	if name == "" {
		name = shortAddr(address)
	}
	return fmt.Sprintf("%s %s risk: %s (score %d)\n%s",
		a.Tier.Emoji(), strings.ToUpper(name), a.Tier, a.Score, a.Recommendation), nil
}

// BuildSecurityReply renders the full security report in chat form.
func BuildSecurityReply(chainSlug string, f TokenSecurityFacts, a RiskAssessment) string {
	var b strings.Builder

	title := f.TokenName
	if title == "" {
		title = shortAddr(a.Address)
	}
	if f.TokenSymbol != "" {
		title += fmt.Sprintf(" (%s)", strings.ToUpper(f.TokenSymbol))
	}

	fmt.Fprintf(&b, "Token security report for %s\n", title)
	fmt.Fprintf(&b, "Chain: %s • Address: %s\n", chainSlug, a.Address)
	fmt.Fprintf(&b, "%s Risk: %s (score %d)\n", a.Tier.Emoji(), a.Tier, a.Score)

	if len(a.Factors) > 0 {
		b.WriteString("Flags:\n")
		for _, factor := range a.Factors {
			fmt.Fprintf(&b, " - %s\n", factor)
		}
	} else {
		b.WriteString("Flags: none detected\n")
	}

	fmt.Fprintf(&b, "Buy tax: %s • Sell tax: %s\n", formatTax(f.BuyTax), formatTax(f.SellTax))
	fmt.Fprintf(&b, "Open source: %s • Proxy: %s • Mintable: %s\n",
		yesNo(f.IsOpenSource), yesNo(f.IsProxy), yesNo(f.IsMintable))
	fmt.Fprintf(&b, "Honeypot: %s • Anti-whale: %s • Transfer pausable: %s\n",
		yesNo(f.IsHoneypot), yesNo(f.IsAntiWhale), yesNo(f.TransferPausable))
	if f.HolderCount != "" {
		fmt.Fprintf(&b, "Holders: %s\n", f.HolderCount)
	}
	fmt.Fprintf(&b, "Recommendation: %s", a.Recommendation)

	return b.String()
}

// RunHistory lists recent assessments, optionally filtered by address.
func RunHistory(args []string) (string, error) {
	if db == nil {
		return "History is not available (no local store configured).", nil
	}

	ctx := context.Background()
	var (
		records []store.Assessment
		err     error
	)
	if len(args) > 0 {
		res := validate.ContractAddress(args[0])
		if !res.IsValid {
			return "Invalid contract address: " + strings.Join(res.Errors, "; "), nil
		}
		records, err = db.AssessmentsByAddress(ctx, res.Normalized, 10)
	} else {
		records, err = db.RecentAssessments(ctx, 10)
	}
	if err != nil {
		return "Could not read assessment history. Reason: " + summarizeErr(err), nil
	}
	if len(records) == 0 {
		return "No assessments recorded yet. Run: security [address] [chain]", nil
	}

	var b strings.Builder
	b.WriteString("Recent risk assessments:\n")
	for _, r := range records {
		name := r.TokenSymbol
		if name == "" {
			name = shortAddr(r.Address)
		}
		fmt.Fprintf(&b, " - %s %s: %s (score %d) • %s\n",
			r.AssessedAt.Format("2006-01-02 15:04"), strings.ToUpper(name), r.Tier, r.Score, shortAddr(r.Address))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// RunWatchToken adds a token to the liquidity watchlist.
func RunWatchToken(args []string) (string, error) {
	if db == nil {
		return "Watchlist is not available (no local store configured).", nil
	}
	address, chainID, chainSlug, errReply := parseTokenArgs(args)
	if errReply != "" {
		return strings.Replace(errReply, "Usage: security", "Usage: watch", 1), nil
	}

	if err := db.Watch(context.Background(), address, chainID); err != nil {
		return "Could not add token to watchlist. Reason: " + summarizeErr(err), nil
	}
	return fmt.Sprintf("Now watching %s on %s. You will get alerts on significant liquidity drops.", shortAddr(address), chainSlug), nil
}

// RunUnwatchToken removes a token from the liquidity watchlist.
func RunUnwatchToken(args []string) (string, error) {
	if db == nil {
		return "Watchlist is not available (no local store configured).", nil
	}
	if len(args) == 0 {
		return "Usage: unwatch [address]", nil
	}
	res := validate.ContractAddress(args[0])
	if !res.IsValid {
		return "Invalid contract address: " + strings.Join(res.Errors, "; "), nil
	}

	if err := db.Unwatch(context.Background(), res.Normalized); err != nil {
		return "Could not remove token from watchlist. Reason: " + summarizeErr(err), nil
	}
	return fmt.Sprintf("Stopped watching %s.", shortAddr(res.Normalized)), nil
}

func persistAssessment(a RiskAssessment) {
	if db == nil {
		return
	}
	rec := store.Assessment{
		ID:             a.ID,
		Address:        a.Address,
		ChainID:        a.ChainID,
		TokenName:      a.TokenName,
		TokenSymbol:    a.TokenSymbol,
		Score:          a.Score,
		Tier:           a.Tier.String(),
		Factors:        strings.Join(a.Factors, "; "),
		Recommendation: a.Recommendation,
		AssessedAt:     a.AssessedAt,
	}
	if err := db.RecordAssessment(context.Background(), rec); err != nil {
		// history is best-effort; the reply still goes out
		log.Printf("[security] warn: could not persist assessment: %v", err)
	}
}

func yesNo(flag string) string {
	if flagSet(flag) {
		return "yes"
	}
	return "no"
}

func formatTax(v string) string {
	if v == "" {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", parseTaxPct(v))
}

func shortAddr(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:8] + "..." + addr[len(addr)-4:]
}
