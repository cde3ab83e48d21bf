package banner

// Banner kinds
const (
	KindSuccess = "success"
	KindError   = "error"
)

// Banner is a transient user-visible message: the outcome of the last
// action, shown until it is replaced or auto-hidden.
type Banner struct {
	Kind    string
	Message string
	Visible bool
}

// Success builds a visible success banner.
func Success(message string) Banner {
	return Banner{Kind: KindSuccess, Message: message, Visible: true}
}

// Error builds a visible error banner.
func Error(message string) Banner {
	return Banner{Kind: KindError, Message: message, Visible: true}
}

// IsError returns true for error banners.
// INVARIANT: Banner fields are not mutated
func (b Banner) IsError() bool {
	return b.Kind == KindError
}
