package globals

// Context keys
type ContextKey string

const (
	ProfileKey     ContextKey = "profile"
	CredentialsKey ContextKey = "credentials"
	RequestIDKey   ContextKey = "requestId"
	LoggerKey      ContextKey = "logger"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"
