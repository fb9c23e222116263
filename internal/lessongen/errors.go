package lessongen

import "errors"

// ErrGenerationExhausted means no acceptable lesson could be assembled within
// the attempt budget. Terminal for the request; per-attempt failures are
// absorbed by the retry loop and never surfaced individually.
var ErrGenerationExhausted = errors.New("lesson generation exhausted")
