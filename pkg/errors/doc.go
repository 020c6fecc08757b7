// Package errors provides structured error types for programmatic error
// handling across scanwatch.
//
// Storage failures surface as ErrCodeUnavailable and stop the scheduler;
// configuration problems surface as ErrCodeInvalidRequest.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeUnavailable,
//	    "failed to insert snapshot",
//	    cause,
//	    map[string]any{
//	        "snapshot_type": "scope",
//	        "db_path": path,
//	    },
//	)
//
//	if errors.IsCode(err, errors.ErrCodeUnavailable) {
//	    // stop the loop
//	}
package errors
