package common

// MessageKey is an immutable (code, key) pair used to fill the result code and message of a response.
type MessageKey struct {
	name string
	code int
	key  string
}

// Registry entries. SUCCESS and INTERNAL_SERVER_ERROR share code 100.
var (
	MessageKeySuccess             = MessageKey{name: "SUCCESS", code: 100, key: "success"}
	MessageKeyInternalServerError = MessageKey{name: "INTERNAL_SERVER_ERROR", code: 100, key: "internal_server_error"}
)

var messageKeys = []MessageKey{
	MessageKeySuccess,
	MessageKeyInternalServerError,
}

func (m MessageKey) Code() int { return m.code }

func (m MessageKey) Key() string { return m.key }

// Name returns the symbolic name of the entry, e.g. "SUCCESS".
func (m MessageKey) Name() string { return m.name }

func (m MessageKey) String() string { return m.name }

// MessageKeys returns every registered message key in declaration order.
func MessageKeys() []MessageKey {
	out := make([]MessageKey, len(messageKeys))
	copy(out, messageKeys)
	return out
}

// LookupMessageKey resolves a message key by its symbolic name.
func LookupMessageKey(name string) (MessageKey, bool) {
	for _, m := range messageKeys {
		if m.name == name {
			return m, true
		}
	}
	return MessageKey{}, false
}
