// Package rules is the policy rule evaluation engine. It maps a borrower's
// questionnaire answers to the documents and conditions a loan requires,
// validates the answers against loan-type limits, and estimates risk and
// processing time.
//
// # Evaluation
//
// Requirements are the union of five independently evaluated tables:
//
//  1. Loan type base requirements
//  2. The single amount bucket whose lower bound is the highest one not
//     exceeding the loan amount
//  3. Industry add-ons
//  4. Borrower type add-ons
//  5. Add-ons for every pledged collateral type
//
// Each code is mapped through the requirement dictionary (unknown codes are
// shown as-is) and the resulting texts are sorted ordinally.
//
// # Failure Policy
//
// The engine never returns an error for answer content. Unknown codes
// contribute nothing, malformed amounts count as zero, and any internal fault
// is recovered, logged and turned into an empty or default result (fail-open).
//
// # Basic Usage
//
//	cat, _ := catalog.Default()
//	eng, err := rules.NewEngine(cat, nil, logger, nil)
//	if err != nil {
//	    return err
//	}
//
//	answers := rules.AnswerSet{
//	    LoanType:   "term_loan",
//	    LoanAmount: rules.AmountOf(50000),
//	}
//	report := eng.Evaluate(answers)
//	fmt.Println(report.RiskLevel, report.EstimatedProcessingTime)
//
// An Engine holds only immutable state and is safe for concurrent use.
package rules
