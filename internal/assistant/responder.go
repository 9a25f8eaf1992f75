// Package assistant turns a chat message into a canned financial answer.
//
// Matching is plain case-insensitive substring search over the raw message,
// evaluated as an ordered rule table where the first match wins. Personal
// rules run only when a snapshot of the caller's finances is available.
// Everything here is a pure function of its inputs.
package assistant

import (
	"fmt"
	"regexp"
	"strings"

	"finview/internal/core"
)

// Rule identifiers, in evaluation order.
const (
	RuleSpendByCategory     = "spend_by_category"
	RuleBalanceCheck        = "balance_check"
	RuleTotalExpenses       = "total_expenses"
	RuleSIPExplainer        = "sip_explainer"
	RuleSIPVsLumpSum        = "sip_vs_lumpsum"
	RuleLowRiskPortfolio    = "low_risk_portfolio"
	RuleMutualFundSimple    = "mutual_fund_simple"
	RuleMutualFund          = "mutual_fund"
	RuleProductExplainer    = "product_explainer"
	RuleTaxPlanning         = "tax_planning"
	RuleEMIPlanning         = "emi_planning"
	RuleSavingsOptimization = "savings_optimization"
	RuleDefault             = "default"
)

// Result is a filled template and the rule that produced it.
type Result struct {
	Rule     string
	Template core.ResponseTemplate
}

type rule struct {
	id       string
	personal bool
	match    func(msg string, snap *core.Snapshot) (core.ResponseTemplate, bool)
}

var categoryPattern = regexp.MustCompile(`on (.*?) this month`)

// rules is the dispatch table. Order matters: templates overlap, e.g. any
// message with "sip" is answered by the explainer before the SIP vs lump sum
// comparison is ever considered.
var rules = []rule{
	{id: RuleSpendByCategory, personal: true, match: matchSpendByCategory},
	{id: RuleBalanceCheck, personal: true, match: matchBalance},
	{id: RuleTotalExpenses, personal: true, match: matchTotalExpenses},
	{id: RuleSIPExplainer, match: static(sipTemplate, anyOf("sip", "systematic"))},
	{id: RuleSIPVsLumpSum, match: static(sipVsLumpSumTemplate, anyOf("should i start sip", "lump sum"))},
	{id: RuleLowRiskPortfolio, match: static(lowRiskPortfolioTemplate, allOf("portfolio", "low risk"))},
	{id: RuleMutualFundSimple, match: static(mutualFundSimpleTemplate, func(m string) bool {
		return anyOf("mutual fund", "mf")(m) && strings.Contains(m, "like") && anyOf("15", "teen")(m)
	})},
	{id: RuleMutualFund, match: static(mutualFundTemplate, anyOf("mutual fund", "mf"))},
	{id: RuleProductExplainer, match: static(productTemplate, anyOf("what is finview", "budget tracker"))},
	{id: RuleTaxPlanning, match: static(taxPlanningTemplate, anyOf("tax planning"))},
	{id: RuleEMIPlanning, match: static(emiPlanningTemplate, anyOf("emi planning"))},
	{id: RuleSavingsOptimization, match: static(savingsOptimizationTemplate, anyOf("savings optimization"))},
}

// Respond picks the answer for message. snap is nil for anonymous callers
// and for users without financial data.
func Respond(message string, snap *core.Snapshot) Result {
	msg := strings.ToLower(message)
	for _, r := range rules {
		if r.personal && snap == nil {
			continue
		}
		if t, ok := r.match(msg, snap); ok {
			return Result{Rule: r.id, Template: t}
		}
	}
	return Result{Rule: RuleDefault, Template: defaultTemplate.Clone()}
}

// Rules lists rule identifiers in evaluation order, ending with the default.
func Rules() []string {
	ids := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		ids = append(ids, r.id)
	}
	return append(ids, RuleDefault)
}

func anyOf(subs ...string) func(string) bool {
	return func(m string) bool {
		for _, s := range subs {
			if strings.Contains(m, s) {
				return true
			}
		}
		return false
	}
}

func allOf(subs ...string) func(string) bool {
	return func(m string) bool {
		for _, s := range subs {
			if !strings.Contains(m, s) {
				return false
			}
		}
		return true
	}
}

func static(t core.ResponseTemplate, pred func(string) bool) func(string, *core.Snapshot) (core.ResponseTemplate, bool) {
	return func(msg string, _ *core.Snapshot) (core.ResponseTemplate, bool) {
		if !pred(msg) {
			return core.ResponseTemplate{}, false
		}
		return t.Clone(), true
	}
}

func matchSpendByCategory(msg string, snap *core.Snapshot) (core.ResponseTemplate, bool) {
	if !allOf("how much did i spend on", "this month")(msg) {
		return core.ResponseTemplate{}, false
	}
	m := categoryPattern.FindStringSubmatch(msg)
	if m == nil {
		return core.ResponseTemplate{}, false
	}
	name, ok := snap.CanonicalCategory(m[1])
	if !ok {
		return core.ResponseTemplate{}, false
	}
	amount, _ := snap.Category(name)
	return core.ResponseTemplate{
		Summary:           fmt.Sprintf("You spent %s on %s this month.", amount.String(), name),
		Details:           fmt.Sprintf("This represents %s%% of your total monthly expenses.", snap.CategoryShare(amount).String()),
		ActionableInsight: append([]string(nil), spendInsights...),
	}, true
}

func matchBalance(msg string, snap *core.Snapshot) (core.ResponseTemplate, bool) {
	if !strings.Contains(msg, "balance") || !anyOf("low", "why")(msg) {
		return core.ResponseTemplate{}, false
	}
	rate := "N/A (no income recorded)"
	if r, ok := snap.SavingsRate(); ok {
		rate = r.String() + "%"
	}
	return core.ResponseTemplate{
		Summary: fmt.Sprintf("Your current balance is %s.", snap.Balance().String()),
		Details: fmt.Sprintf("With total monthly expenses of %s against income of %s, you have a savings rate of %s.",
			snap.CategoryTotal().String(), snap.TotalIncome().String(), rate),
		ActionableInsight: append([]string(nil), balanceInsights...),
	}, true
}

func matchTotalExpenses(msg string, snap *core.Snapshot) (core.ResponseTemplate, bool) {
	if !anyOf("total expense", "total spending")(msg) {
		return core.ResponseTemplate{}, false
	}
	details := "No category spending has been recorded this month."
	if top, ok := snap.HighestCategory(); ok {
		details = fmt.Sprintf("Your highest expense category is %s at %s.", top.Name, top.Amount.String())
	}
	return core.ResponseTemplate{
		Summary:           fmt.Sprintf("Your total expenses this month are %s.", snap.CategoryTotal().String()),
		Details:           details,
		ActionableInsight: append([]string(nil), totalInsights...),
	}, true
}
