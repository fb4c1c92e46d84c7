package talentdex

import (
	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery        = domain.ErrInvalidQuery
	ErrInvalidKind         = domain.ErrInvalidKind
	ErrRosterUnavailable   = domain.ErrRosterUnavailable
	ErrCityNotFound        = domain.ErrCityNotFound
	ErrGeocoderUnavailable = domain.ErrGeocoderUnavailable
	// ErrKeyNotFound must be returned by CacheStore.Get for a missing key.
	ErrKeyNotFound = db.ErrKeyNotFound
)
