package store

import "fmt"

// Kind enumerates the record kinds the API persists.
type Kind int

const (
	KindCamps Kind = iota
	KindBookings
	KindFeedback
)

// Kinds lists every Kind.
var Kinds = []Kind{KindCamps, KindBookings, KindFeedback}

// CollectionName is the MongoDB collection backing the kind.
func (k Kind) CollectionName() string {
	switch k {
	case KindCamps:
		return "camps"
	case KindBookings:
		return "bookings"
	case KindFeedback:
		return "feedback"
	}
	panic(fmt.Sprintf("store: unknown kind %d", int(k)))
}

func (k Kind) String() string {
	return k.CollectionName()
}

// idPrefix is prepended to counter-based ids in the memory backend.
func (k Kind) idPrefix() string {
	switch k {
	case KindCamps:
		return "mock-"
	case KindBookings:
		return "book-mock-"
	case KindFeedback:
		return "feedback-mock-"
	}
	panic(fmt.Sprintf("store: unknown kind %d", int(k)))
}

// UniqueKeys lists field sets that may not repeat across records.
// A user holds at most one booking per camp.
func (k Kind) UniqueKeys() [][]string {
	switch k {
	case KindBookings:
		return [][]string{{"campId", "userId"}}
	case KindCamps, KindFeedback:
		return nil
	}
	panic(fmt.Sprintf("store: unknown kind %d", int(k)))
}
