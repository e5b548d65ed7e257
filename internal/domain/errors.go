package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable is returned when the snapshot or forecast source cannot be read.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrUnresolvedGeocode is returned when a region name cannot be geocoded.
	ErrUnresolvedGeocode = errors.New("unresolved geocode")

	// ErrNoSpikeSignal is returned when a region has no alert-worthy spike.
	ErrNoSpikeSignal = errors.New("no spike signal for region")
)

// DataIntegrityError rejects a single impossible snapshot record.
type DataIntegrityError struct {
	SKU    string
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity: sku %q: %s", e.SKU, e.Reason)
}

// Rejected converts the error into its response shape.
func (e *DataIntegrityError) Rejected() RejectedRecord {
	return RejectedRecord{SKU: e.SKU, Reason: e.Reason}
}

// Unavailable wraps err so that errors.Is(err, ErrDataUnavailable) holds.
func Unavailable(source string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDataUnavailable, source, err)
}
