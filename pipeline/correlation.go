package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

type correlationKey struct{}

const maxCorrelationIDLen = 100

// ResolveCorrelationID implements §4.F stage 1: if supplied is absent,
// malformed, or too long, a fresh id is generated instead.
func ResolveCorrelationID(supplied string) string {
	if supplied == "" || len(supplied) > maxCorrelationIDLen || !isPrintableASCII(supplied) {
		return generateCorrelationID()
	}
	return supplied
}

func isPrintableASCII(s string) bool {
	for _, r := range s {
		if r < 0x20 || r > 0x7e {
			return false
		}
	}
	return true
}

func generateCorrelationID() string {
	var buf [8]byte
	_, _ = rand.Read(buf[:])
	return fmt.Sprintf("req_%d_%s", time.Now().UnixNano(), hex.EncodeToString(buf[:]))
}

// WithCorrelationID stamps id on ctx for the duration of the call.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationIDFromContext retrieves the id stamped by WithCorrelationID,
// or "" if none was stamped.
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
