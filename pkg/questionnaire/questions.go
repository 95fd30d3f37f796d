package questionnaire

// Question IDs of the default questionnaire. They double as the AnswerSet
// field names.
const (
	QuestionLoanType       = "loan_type"
	QuestionLoanAmount     = "loan_amount"
	QuestionBorrowerType   = "borrower_type"
	QuestionIndustryType   = "industry_type"
	QuestionCollateralType = "collateral_type"
)

// DefaultQuestions returns a fresh copy of the standard questionnaire.
func DefaultQuestions() []Question {
	return []Question{
		{
			ID:       QuestionLoanType,
			Category: CategoryLoanType,
			Text:     "What type of loan are you processing?",
			Type:     TypeSelect,
			Required: true,
			Options: []Option{
				{Value: "term_loan", Text: "Term Loan"},
				{Value: "line_of_credit", Text: "Line of Credit"},
				{Value: "equipment_financing", Text: "Equipment Financing"},
				{Value: "real_estate", Text: "Commercial Real Estate"},
				{Value: "sba_loan", Text: "SBA Loan"},
				{Value: "construction", Text: "Construction Loan"},
			},
		},
		{
			ID:         QuestionLoanAmount,
			Category:   CategoryFinancialInfo,
			Text:       "What is the requested loan amount?",
			Type:       TypeCurrency,
			Required:   true,
			Validation: &Range{Min: 10000, Max: 50000000},
		},
		{
			ID:       QuestionBorrowerType,
			Category: CategoryBorrowerInfo,
			Text:     "What type of borrower is this?",
			Type:     TypeRadio,
			Required: true,
			Options: []Option{
				{Value: "corporation", Text: "Corporation"},
				{Value: "llc", Text: "Limited Liability Company (LLC)"},
				{Value: "partnership", Text: "Partnership"},
				{Value: "sole_proprietorship", Text: "Sole Proprietorship"},
				{Value: "non_profit", Text: "Non-Profit Organization"},
			},
		},
		{
			ID:       QuestionIndustryType,
			Category: CategoryBorrowerInfo,
			Text:     "What industry is the borrower in?",
			Type:     TypeSelect,
			Required: true,
			Options: []Option{
				{Value: "manufacturing", Text: "Manufacturing"},
				{Value: "retail", Text: "Retail Trade"},
				{Value: "services", Text: "Professional Services"},
				{Value: "healthcare", Text: "Healthcare"},
				{Value: "real_estate", Text: "Real Estate"},
				{Value: "agriculture", Text: "Agriculture"},
				{Value: "construction", Text: "Construction"},
				{Value: "other", Text: "Other"},
			},
		},
		{
			ID:       QuestionCollateralType,
			Category: CategoryCollateral,
			Text:     "What type of collateral will secure this loan?",
			Type:     TypeCheckbox,
			Required: true,
			Options: []Option{
				{Value: "real_estate", Text: "Real Estate"},
				{Value: "equipment", Text: "Equipment/Machinery"},
				{Value: "inventory", Text: "Inventory"},
				{Value: "accounts_receivable", Text: "Accounts Receivable"},
				{Value: "personal_guarantee", Text: "Personal Guarantee"},
				{Value: "cash_deposit", Text: "Cash Deposit/CD"},
				{Value: "unsecured", Text: "Unsecured"},
			},
		},
	}
}

// Find returns the question with the given ID and its position.
func Find(questions []Question, id string) (Question, int, bool) {
	for i, q := range questions {
		if q.ID == id {
			return q, i, true
		}
	}
	return Question{}, -1, false
}
