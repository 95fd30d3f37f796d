package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bcsb-lending/conditions-matrix/pkg/rules"
)

// Attribute keys. HTTP keys follow the OpenTelemetry semantic conventions;
// domain keys use the "lcm." namespace.
const (
	AttrHTTPMethod     = "http.request.method"
	AttrHTTPRoute      = "http.route"
	AttrHTTPStatusCode = "http.response.status_code"

	AttrRequestID = "lcm.request_id"
	AttrSession   = "lcm.session_id"

	AttrLoanType     = "lcm.loan_type"
	AttrBorrowerType = "lcm.borrower_type"
	AttrIndustry     = "lcm.industry"
	AttrCollateral   = "lcm.collateral"

	AttrAmountBucket = "lcm.amount_bucket"
	AttrRequirements = "lcm.requirement_count"
	AttrValid        = "lcm.valid"
	AttrRiskLevel    = "lcm.risk_level"
	AttrProcessing   = "lcm.processing_days"

	AttrErrorMessage = "error.message"
)

// SetHTTPAttributes records the request line and outcome of a server span.
func SetHTTPAttributes(span trace.Span, method, route string, status int) {
	span.SetAttributes(
		attribute.String(AttrHTTPMethod, method),
		attribute.String(AttrHTTPRoute, route),
		attribute.Int(AttrHTTPStatusCode, status),
	)
}

// SetAnswerAttributes records the categorical answers. The loan amount is
// left out; the bucket recorded by SetReportAttributes is enough to
// correlate.
func SetAnswerAttributes(span trace.Span, answers rules.AnswerSet) {
	span.SetAttributes(
		attribute.String(AttrLoanType, answers.LoanType),
		attribute.String(AttrBorrowerType, answers.BorrowerType),
		attribute.String(AttrIndustry, answers.IndustryType),
		attribute.StringSlice(AttrCollateral, []string(answers.CollateralType)),
	)
}

// SetReportAttributes records the outcome of an evaluation.
func SetReportAttributes(span trace.Span, report rules.Report) {
	span.SetAttributes(
		attribute.String(AttrAmountBucket, report.AmountBucket),
		attribute.Int(AttrRequirements, report.RequirementCount),
		attribute.Bool(AttrValid, report.Validation.IsValid),
		attribute.String(AttrRiskLevel, string(report.RiskLevel)),
		attribute.Int(AttrProcessing, report.EstimatedProcessingTime.Days()),
	)
}

// SetSession tags a span with the questionnaire session ID.
func SetSession(span trace.Span, id string) {
	span.SetAttributes(attribute.String(AttrSession, id))
}
