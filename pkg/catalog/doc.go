// Package catalog holds the lending policy rule catalog: the five rule tables
// (loan types, amount buckets, industries, borrower types, collateral) and the
// requirement dictionary that maps requirement codes to display text.
//
// A Catalog is built once from a YAML document and never mutated afterwards,
// so a single instance can be shared by any number of goroutines.
//
// # Document Format
//
//	name: Commercial Lending Policy
//	version: "1.0.0"
//	loan_types:
//	  term_loan:
//	    base_requirements: [financial_statements, business_plan]
//	    min_amount: 10000
//	    max_amount: 10000000
//	amount_buckets:
//	  under_100k:
//	    lower_bound: 0
//	    requirements: []
//	industries:
//	  retail:
//	    requirements: [sales_reports]
//	borrower_types:
//	  llc:
//	    requirements: [operating_agreement]
//	collateral:
//	  unsecured:
//	    requirements: [strong_cash_flow]
//	requirements:
//	  financial_statements: "Current financial statements"
//
// # Lookups
//
// Every table lookup returns (rule, ok). Unknown codes are never an error;
// callers treat them as contributing nothing.
//
//	cat, err := catalog.Default()
//	if rule, ok := cat.LoanType("term_loan"); ok {
//	    fmt.Println(rule.BaseRequirements)
//	}
package catalog
