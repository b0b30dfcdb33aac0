// Package helper builds well-formed type definitions and instances for an
// archive, filling in the defaults the archive format expects.
//
// A Helper does not enforce cross-object invariants; that is the job of the
// registry the results are added to. It does consult the registry to resolve
// supertypes, attribute types and the unique properties of entity types.
package helper

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/omarchive/pkg/core"
	"github.com/aretw0/omarchive/pkg/guidmap"
)

// Registry is the part of the archive builder the helper reads from.
type Registry interface {
	TypeDefByName(name string) core.TypeDef
	AttributeTypeDefByName(name string) core.AttributeTypeDef
	PatchForType(typeName string) (*core.TypeDefPatch, error)
	TypeDefPatches(typeName string) []*core.TypeDefPatch
}

// Config is the archive context stamped onto everything the helper builds.
type Config struct {
	ArchiveGUID  string
	ArchiveName  string
	Originator   string
	License      string
	CreationTime time.Time // Defaults to now.
	Version      int64     // Defaults to 1.
	VersionName  string    // Defaults to "1.0".

	// GUIDs makes generated GUIDs stable across runs. When nil every call
	// to GUID returns a fresh identifier.
	GUIDs *guidmap.Map

	// RootName is the metadata collection name recorded on instances.
	// Defaults to ArchiveName.
	RootName string

	Logger *slog.Logger
}

// Helper builds definitions and instances for one archive.
type Helper struct {
	reg    Registry
	cfg    Config
	logger *slog.Logger
}

// New creates a Helper reading from reg.
func New(reg Registry, cfg Config) *Helper {
	if cfg.CreationTime.IsZero() {
		cfg.CreationTime = time.Now().UTC()
	}
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if cfg.VersionName == "" {
		cfg.VersionName = "1.0"
	}
	if cfg.RootName == "" {
		cfg.RootName = cfg.ArchiveName
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Helper{reg: reg, cfg: cfg, logger: logger}
}

// GUID returns the identifier for a logical id, stable across runs when the
// helper has an identifier map.
func (h *Helper) GUID(id string) string {
	if h.cfg.GUIDs == nil {
		return uuid.NewString()
	}
	return h.cfg.GUIDs.GUID(id)
}

func (h *Helper) creationTime() *time.Time {
	t := h.cfg.CreationTime
	return &t
}
