// errors.go: structured error handling for Xanthos cache operations
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error codes
// for all cache operations.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package xanthos

import (
	goerrors "errors"
	"fmt"
	"time"

	"github.com/agilira/go-errors"
)

// Error codes for Xanthos cache operations.
const (
	// Configuration errors (1xxx)
	ErrCodeInvalidMaximumWeight errors.ErrorCode = "XANTHOS_INVALID_MAXIMUM_WEIGHT"
	ErrCodeInvalidTTL           errors.ErrorCode = "XANTHOS_INVALID_TTL"

	// Operation errors (2xxx)
	ErrCodeWriterFailed   errors.ErrorCode = "XANTHOS_WRITER_FAILED"
	ErrCodeInvariant      errors.ErrorCode = "XANTHOS_INVARIANT_VIOLATION"
	ErrCodeClosed         errors.ErrorCode = "XANTHOS_CLOSED"

	// Loader errors (3xxx)
	ErrCodeLoaderFailed    errors.ErrorCode = "XANTHOS_LOADER_FAILED"
	ErrCodeLoaderPanicked  errors.ErrorCode = "XANTHOS_LOADER_PANICKED"
	ErrCodeNoLoader        errors.ErrorCode = "XANTHOS_NO_LOADER"

	// Internal errors (5xxx)
	ErrCodeInternal errors.ErrorCode = "XANTHOS_INTERNAL_ERROR"
)

// NewErrInvalidMaximumWeight reports a negative MaximumWeight, the one
// Config field with no sensible default (spec: negative capacity is an
// argument error, never silently clamped).
func NewErrInvalidMaximumWeight(weight int64) error {
	return errors.NewWithContext(ErrCodeInvalidMaximumWeight, "maximum weight must be >= 0", map[string]interface{}{
		"provided_weight": weight,
	})
}

// NewErrInvalidTTL reports a negative expiration or refresh duration.
func NewErrInvalidTTL(durations map[string]time.Duration) error {
	ctx := make(map[string]interface{}, len(durations))
	for k, v := range durations {
		ctx[k] = v
	}
	return errors.NewWithContext(ErrCodeInvalidTTL, "expiration and refresh durations must be >= 0", ctx)
}

// NewErrWriterFailed wraps a CacheWriter.Write/Delete failure. Per spec
// §7, this aborts the originating Put/Invalidate and leaves the cache
// state unchanged.
func NewErrWriterFailed(op string, cause error) error {
	return errors.Wrap(cause, ErrCodeWriterFailed, "cache writer rejected the operation").
		WithContext("operation", op).
		AsRetryable()
}

// NewErrLoaderFailed wraps a Loader failure for the originating Get call.
func NewErrLoaderFailed(cause error) error {
	return errors.Wrap(cause, ErrCodeLoaderFailed, "loader failed").AsRetryable()
}

// NewErrLoaderPanicked reports a recovered panic inside a Loader.
func NewErrLoaderPanicked(panicValue interface{}) error {
	return errors.NewWithContext(ErrCodeLoaderPanicked, "loader panicked", map[string]interface{}{
		"panic_value": fmt.Sprintf("%v", panicValue),
	}).WithSeverity("critical")
}

// NewErrNoLoader reports a Get call with neither a Config.Loader nor a
// per-call mappingFunction.
func NewErrNoLoader() error {
	return errors.New(ErrCodeNoLoader, "no loader configured: Get requires a mappingFunction or Config.Loader")
}

// NewErrInvariant builds an internal-invariant-violation error (queue
// inconsistency, sketch index overflow). The cache itself never returns
// it: no operation checks these invariants, and the cache has no invalid
// state.
func NewErrInvariant(detail string) error {
	return errors.NewWithField(ErrCodeInvariant, "internal invariant violated", "detail", detail).
		WithSeverity("critical")
}

// NewErrClosed reports an operation attempted after Close.
func NewErrClosed() error {
	return errors.New(ErrCodeClosed, "cache is closed")
}

// IsLoaderError reports whether err originated from a Loader.
func IsLoaderError(err error) bool {
	return errors.HasCode(err, ErrCodeLoaderFailed) || errors.HasCode(err, ErrCodeLoaderPanicked)
}

// IsWriterError reports whether err originated from a CacheWriter.
func IsWriterError(err error) bool {
	return errors.HasCode(err, ErrCodeWriterFailed)
}

// IsRetryable reports whether err can be retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the error code from err, or "" if err does not
// carry one.
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}
