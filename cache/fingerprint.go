package cache

import "errors"

// ContentType is a closed enumeration of the kinds of operational content
// this service caches. A fingerprint never crosses content-type tags, even
// if two identifiers happen to collide as strings.
type ContentType string

const (
	ContentRunbooks      ContentType = "runbooks"
	ContentProcedures    ContentType = "procedures"
	ContentDecisionTrees ContentType = "decision_trees"
	ContentKnowledgeBase ContentType = "knowledge_base"
	ContentWebResponse   ContentType = "web_response"
)

// ValidContentTypes enumerates every ContentType accepted by Validate, in
// the closed-enumeration order from the content-type table.
var ValidContentTypes = []ContentType{
	ContentRunbooks, ContentProcedures, ContentDecisionTrees,
	ContentKnowledgeBase, ContentWebResponse,
}

// ErrInvalidContentType is returned for a ContentType outside the closed
// enumeration.
var ErrInvalidContentType = errors.New("cache: invalid content type")

// Valid reports whether ct is one of the enumerated content types.
func (ct ContentType) Valid() bool {
	for _, v := range ValidContentTypes {
		if v == ct {
			return true
		}
	}
	return false
}

// Fingerprint is the cache key: a (content-type tag, canonical identifier)
// tuple. Identity is full-tuple equality — two fingerprints with the same
// identifier but different content types are unrelated entries.
type Fingerprint struct {
	ContentType ContentType
	Identifier  string
}

// Validate checks that f has a recognized content type and non-empty
// identifier.
func (f Fingerprint) Validate() error {
	if !f.ContentType.Valid() {
		return ErrInvalidContentType
	}
	if f.Identifier == "" {
		return errors.New("cache: empty identifier")
	}
	return nil
}

// localKey returns "<type>:<identifier>", the key used in the local tier.
func (f Fingerprint) localKey() string {
	return string(f.ContentType) + ":" + f.Identifier
}
