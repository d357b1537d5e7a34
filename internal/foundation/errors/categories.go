package errors

// ErrorCategory routes an error to an exit code and a user-facing message.
type ErrorCategory string

const (
	// User input: site.yml, flags, block templates.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Build pipeline.
	CategoryContent    ErrorCategory = "content"
	CategoryRender     ErrorCategory = "render"
	CategoryExport     ErrorCategory = "export"
	CategoryBuild      ErrorCategory = "build"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Collaborators outside the content tree.
	CategoryNotify ErrorCategory = "notify"
	CategoryGit    ErrorCategory = "git"

	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity decides the log level an error is reported at.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
)

// Fields carries structured key/value details such as the offending path.
type Fields map[string]any

// Get returns the value stored under key.
func (f Fields) Get(key string) (any, bool) {
	v, ok := f[key]
	return v, ok
}

// GetString returns the value under key when it is a string.
func (f Fields) GetString(key string) (string, bool) {
	s, ok := f[key].(string)
	return s, ok
}
