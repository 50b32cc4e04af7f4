// CLAUDE:SUMMARY Sentinel errors for the distill pipeline.
package distill

import "errors"

// ErrInvalidInput is returned for programmer contract violations (nil source
// list, page numbers < 1). Data-quality problems never produce errors — they
// degrade to warnings on the Result.
var ErrInvalidInput = errors.New("distill: invalid input")
