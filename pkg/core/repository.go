package core

import "context"

// Writer persists a finished archive. Adhering to this interface keeps the
// builder independent of the physical format (file, network, etc).
type Writer interface {
	// Write stores the archive, replacing any previous copy.
	Write(ctx context.Context, archive *Archive) error
}

// Reader loads an archive, typically one the new archive depends on.
type Reader interface {
	// Read returns the archive.
	Read(ctx context.Context) (*Archive, error)
}
