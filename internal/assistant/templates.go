package assistant

import "finview/internal/core"

// Static answers for the keyword rules. Personal answers are built in
// responder.go because they interpolate snapshot figures.
var (
	sipTemplate = core.ResponseTemplate{
		Summary: "SIP is an excellent strategy for disciplined investing.",
		Details: "SIP helps with rupee-cost averaging, removing the need to time the market. Even ₹500/month can grow significantly over time through the power of compounding.",
		ActionableInsight: []string{
			"• Start with an amount you can consistently invest monthly",
			"• Choose funds based on your risk tolerance and investment horizon",
		},
	}

	sipVsLumpSumTemplate = core.ResponseTemplate{
		Summary: "Both SIP and lump sum have their advantages depending on market conditions.",
		Details: "SIP reduces timing risk and is better for volatile markets. Lump sum can be beneficial in consistently rising markets or when you have a large amount to invest.",
		ActionableInsight: []string{
			"• Use SIP for regular income and market volatility",
			"• Consider lump sum for bonus amounts or windfalls",
		},
	}

	lowRiskPortfolioTemplate = core.ResponseTemplate{
		Summary: "For low-risk investors, focus on capital preservation with moderate growth.",
		Details: "A conservative portfolio typically includes 70-80% in debt instruments (bonds, FDs) and 20-30% in large-cap equities or balanced funds.",
		ActionableInsight: []string{
			"• Allocate 40% to debt mutual funds and government bonds",
			"• Keep 30% in fixed deposits and 30% in large-cap index funds",
		},
	}

	mutualFundSimpleTemplate = core.ResponseTemplate{
		Summary: "Mutual funds are like a team effort for your money!",
		Details: "Imagine you and your friends pool money together to buy different toys. A mutual fund works similarly - many people put money together to buy different stocks and bonds. A professional manager decides what to buy, so you don't have to pick individual stocks yourself. It's like having an expert shop for you!",
		ActionableInsight: []string{
			"• Start with small amounts to learn how they work",
			"• Choose funds that match your goals",
			"• Be patient - investing is a long-term game",
		},
	}

	mutualFundTemplate = core.ResponseTemplate{
		Summary: "Mutual funds are excellent for diversification!",
		Details: "For beginners, I recommend starting with index funds or balanced funds. They offer professional management and instant diversification. Select your risk tolerance on the right, and I'll show you specific mutual fund recommendations tailored to your profile.",
		ActionableInsight: []string{
			"• Start with index funds for broad market exposure",
			"• Consider balanced funds for moderate risk",
			"• Check expense ratios before investing",
		},
	}

	productTemplate = core.ResponseTemplate{
		Summary: "FinView is a comprehensive financial management platform.",
		Details: "FinView helps you track income and expenses, analyze spending patterns, set budgets, and get AI-powered investment advice. It provides insights into your financial health and helps you make better money decisions.",
		ActionableInsight: []string{
			"• Use the Budget Tracker to monitor daily expenses",
			"• Check Investment Analytics for portfolio performance",
		},
	}

	taxPlanningTemplate = core.ResponseTemplate{
		Summary: "Tax planning helps reduce your tax liability legally.",
		Details: "Under Section 80C, you can save up to ₹1.5 lakhs through ELSS, PPF, life insurance, etc. Section 80D provides deductions for health insurance premiums.",
		ActionableInsight: []string{
			"• Consider ELSS mutual funds for tax saving with growth potential",
			"• Maximize 80C limit with a mix of PPF, ELSS, and life insurance",
		},
	}

	emiPlanningTemplate = core.ResponseTemplate{
		Summary: "EMI planning ensures your loan repayments don't strain your finances.",
		Details: "The 50-30-20 rule suggests keeping total EMIs under 50% of monthly income. Consider the loan tenure, interest rate, and your monthly budget before taking new loans.",
		ActionableInsight: []string{
			"• Keep total EMIs below 40% of monthly income",
			"• Consider prepaying high-interest loans when possible",
		},
	}

	savingsOptimizationTemplate = core.ResponseTemplate{
		Summary: "Optimize savings by balancing liquidity, returns, and risk.",
		Details: "Maintain an emergency fund (6-12 months expenses) in liquid instruments. Invest surplus in higher-return instruments based on your time horizon and risk tolerance.",
		ActionableInsight: []string{
			"• Keep 3-6 months expenses in high-yield savings accounts",
			"• Invest remaining surplus in diversified mutual funds",
		},
	}

	defaultTemplate = core.ResponseTemplate{
		Summary: "I'm here to help with your financial questions!",
		Details: "I can assist with investment advice, budget planning, tax optimization, and portfolio management. Feel free to ask about specific financial topics or your personal finances.",
		ActionableInsight: []string{
			"• Ask about specific investment options or market trends",
			"• Inquire about optimizing your budget and savings",
		},
	}
)

var (
	spendInsights = []string{
		"• Compare this to previous months to identify spending trends",
		"• Set a monthly budget limit for this category if needed",
	}
	balanceInsights = []string{
		"• Consider reducing discretionary spending in high-expense categories",
		"• Look for ways to increase income or optimize recurring expenses",
	}
	totalInsights = []string{
		"• Track this monthly to identify spending patterns",
		"• Set budget alerts for categories where you want to reduce spending",
	}
)
