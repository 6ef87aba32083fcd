package manifest

import "errors"

var (
	ErrDuplicateUpdate       = errors.New("an update with this variant, arch, and version already exists")
	ErrInvalidBound          = errors.New("wave bound is outside the fleet seed range")
	ErrWaveOrderingViolation = errors.New("wave start times must not decrease with increasing bounds")
	ErrMissingStartTime      = errors.New("a wave start time is required")
	ErrNotFound              = errors.New("no update matches the given variant, arch, and version")
	ErrNoMigrationPath       = errors.New("no migration path connects the given datastore versions")
	ErrSchemaVersion         = errors.New("manifest schema version is not supported by this tool")
)
