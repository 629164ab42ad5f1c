package pipeline

import (
	"fmt"
)

// SourceUnreadableError indicates that the input video could not be opened
// or decoded. Fatal: the pipeline invocation aborts without retry.
type SourceUnreadableError struct {
	Path string
	Err  error
}

func (e *SourceUnreadableError) Error() string {
	return fmt.Sprintf("source unreadable: %s: %v", e.Path, e.Err)
}

func (e *SourceUnreadableError) Unwrap() error {
	return e.Err
}

// CacheCorruptError indicates that a cache directory exists but is empty or
// contains entries that cannot be ordered. Fatal and surfaced to the caller;
// the cache is never silently deleted or re-decoded.
type CacheCorruptError struct {
	Dir    string
	Reason string
}

func (e *CacheCorruptError) Error() string {
	return fmt.Sprintf("frame cache corrupt: %s: %s", e.Dir, e.Reason)
}
