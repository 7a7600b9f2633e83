package item

import "strings"

// Bucket is one of the three triage categories an item is filed under.
type Bucket string

const (
	BucketControl    Bucket = "control"
	BucketInfluence  Bucket = "influence"
	BucketAcceptance Bucket = "acceptance"
)

// DefaultBucket is used when a stored bucket is missing or corrupt.
const DefaultBucket = BucketAcceptance

// Buckets lists every bucket in display order.
var Buckets = []Bucket{BucketControl, BucketInfluence, BucketAcceptance}

// Valid reports whether b is one of the three known buckets.
func (b Bucket) Valid() bool {
	switch b {
	case BucketControl, BucketInfluence, BucketAcceptance:
		return true
	}
	return false
}

// Title returns the bucket name as shown to users.
func (b Bucket) Title() string {
	switch b {
	case BucketControl:
		return "Control"
	case BucketInfluence:
		return "Influence"
	case BucketAcceptance:
		return "Acceptance"
	}
	return string(b)
}

// ParseBucket strictly parses user input. Unknown values are rejected.
func ParseBucket(raw string) (Bucket, bool) {
	b := Bucket(strings.ToLower(strings.TrimSpace(raw)))
	return b, b.Valid()
}

// DecodeBucket reads a stored value, falling back to DefaultBucket.
func DecodeBucket(raw string) Bucket {
	if b, ok := ParseBucket(raw); ok {
		return b
	}
	return DefaultBucket
}
