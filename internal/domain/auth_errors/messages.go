package auth_errors

// DefaultMessage is shown for any failure whose kind has no entry in messages.
const DefaultMessage = "An unexpected error occurred. Please try again."

// messages maps provider failure kinds to the fixed text shown on the login
// screen. Kinds not listed here fall back to DefaultMessage.
var messages = map[Kind]string{
	KindUserNotFound:      "No account found with this email. Please register first.",
	KindWrongPassword:     "Invalid email or password. Please try again.",
	KindInvalidCredential: "Invalid email or password. Please try again.",
	KindEmailInUse:        "This email is already in use. Please login instead.",
	KindInvalidEmail:      "Invalid email format.",
	KindWeakPassword:      "Password should be at least 6 characters.",
}

// MessageFor returns the user-facing message for kind.
func MessageFor(kind Kind) string {
	if msg, ok := messages[kind]; ok {
		return msg
	}
	return DefaultMessage
}

// Message returns the user-facing message for err.
func Message(err error) string {
	return MessageFor(KindOf(err))
}
