package domain

// Tag distinguishes application-owned calendar events from user events.
// A small, reserved set of identifiers is considered application-owned; any
// other tag value (including the zero value) belongs to the user and is
// never touched by the pipeline.
type Tag string

// ApplicationTag is the single reserved identifier this application uses
// when creating calendar events. It is distinct from the colour/label
// identifiers a user is assumed to pick for their own events.
const ApplicationTag Tag = "scheduler-managed"

// reservedTags is the small set of identifiers considered application-owned.
// ApplicationTag is currently its only member.
var reservedTags = map[Tag]struct{}{
	ApplicationTag: {},
}

// IsApplicationOwned reports whether a tag marks an event as created by this
// application, as opposed to a user-owned event.
func IsApplicationOwned(t Tag) bool {
	_, ok := reservedTags[t]
	return ok
}
