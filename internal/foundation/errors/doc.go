// Package errors provides the classified error primitives used across w3docs.
//
// Every defect the site build can hit (a malformed symbol reference, an alias
// missing from the registry, a repeated navigation key, a separator carrying a
// link target) is a build-time configuration problem. The types here attach a
// category, severity and structured context to those failures so the CLI and the
// preview server can present them consistently.
//
// Key features:
//   - ErrorCategory: broad classification (config, reference, navigation, render, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - RetryStrategy: whether repeating the operation can help
//   - ClassifiedError: structured error with category, severity, and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - HTTP and CLI adapters for error presentation
//
// Example usage:
//
//	err := errors.ReferenceError("unknown package alias").
//		WithCause(registry.ErrUnknownPackage).
//		WithContext("alias", alias).
//		Build()
package errors
