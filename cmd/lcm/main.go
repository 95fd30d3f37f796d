// Command lcm is the loan conditions matrix: it turns a commercial loan
// questionnaire into the list of documents and conditions a loan officer
// must collect, with a policy-limit check, a risk level and a processing
// time estimate.
//
// Usage:
//
//	# Walk through the questionnaire interactively
//	lcm run
//
//	# Evaluate a saved answer file
//	lcm evaluate --answers answers.yaml --format json
//
//	# Serve the HTTP API
//	lcm serve --config /etc/lcm/config.yaml
//
//	# Validate a custom catalog and re-check it on every save
//	lcm catalog lint --file catalog.yaml --watch
package main

func main() {
	Execute()
}
