// Package aggregate picks the final response from the handler outputs
// gathered for one request.
package aggregate

import (
	"github.com/telecom-assist-poc/server/internal/agent/model"
)

// FailureText is returned when no handler produced any output.
const FailureText = "Something went wrong while generating a response."

// Final returns the first inserted handler output, or FailureText when the
// list is empty. The router selects exactly one handler, so with the current
// graph this degenerates to "return the one value present"; first-inserted
// keeps the choice deterministic should a second output ever appear.
func Final(outputs []model.HandlerOutput) string {
	if len(outputs) == 0 {
		return FailureText
	}
	return outputs[0].Text
}
