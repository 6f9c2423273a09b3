package pipeline

import "fmt"

// SecurityHeaders are set on every HTTP response regardless of outcome.
var SecurityHeaders = map[string]string{
	"X-Content-Type-Options":  "nosniff",
	"X-Frame-Options":         "DENY",
	"X-XSS-Protection":        "1; mode=block",
	"Referrer-Policy":         "strict-origin-when-cross-origin",
}

// ErrBodyTooLarge is returned by CheckBodySize when the declared body size
// exceeds the configured ceiling.
type ErrBodyTooLarge struct {
	DeclaredMB float64
	MaxMB      float64
}

func (e *ErrBodyTooLarge) Error() string {
	return fmt.Sprintf("declared body size %.2fMB exceeds limit %.2fMB", e.DeclaredMB, e.MaxMB)
}

// CheckBodySize implements §4.F stage 2's size-limit half: a request
// declaring a body larger than maxMB is rejected before it reaches
// validation.
func CheckBodySize(declaredMB, maxMB float64) error {
	if maxMB > 0 && declaredMB > maxMB {
		return &ErrBodyTooLarge{DeclaredMB: declaredMB, MaxMB: maxMB}
	}
	return nil
}
