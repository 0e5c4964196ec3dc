package enums

// MessageKind separates user chat messages from server-generated notices.
type MessageKind string

const (
	MessageKindUser   MessageKind = "user"
	MessageKindSystem MessageKind = "system"
)

var validMessageKinds = []MessageKind{
	MessageKindUser,
	MessageKindSystem,
}

// String returns the literal string for the kind.
func (m MessageKind) String() string {
	return string(m)
}

// IsValid reports whether the kind is known.
func (m MessageKind) IsValid() bool {
	for _, candidate := range validMessageKinds {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMessageKind converts raw wire input into a MessageKind. Unknown
// values default to user so a new backend message type still renders.
func ParseMessageKind(value string) MessageKind {
	for _, candidate := range validMessageKinds {
		if string(candidate) == value {
			return candidate
		}
	}
	return MessageKindUser
}
