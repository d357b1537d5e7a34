// Package errors provides the classified errors used across sitebuilder.
// Each error carries a category (config, content, render, export, ...), a
// severity and optional fields; CLIErrorAdapter turns them into exit codes
// and messages.
//
//	err := errors.WrapError(cause, errors.CategoryContent, "parse content file").
//		Warning().
//		WithContext("path", path).
//		Build()
package errors
