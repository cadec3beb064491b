package main

import (
	"context"
	"errors"

	"gitlab.com/tecnomovil/imei-docfinder/lib/fetcher"
	"gitlab.com/tecnomovil/imei-docfinder/lib/mapping"
)

const imeiLength = 15

var (
	errEmptyIMEI   = errors.New("no IMEI provided")
	errInvalidIMEI = errors.New("an IMEI is exactly 15 digits, numbers only")
	errNoDocument  = errors.New("no document associated with this IMEI")
)

// snapshotProvider is satisfied by *mapping.CachedLoader.
type snapshotProvider interface {
	Snapshot(ctx context.Context) (mapping.Snapshot, error)
}

type controller struct {
	snapshots snapshotProvider
	documents fetcher.Client
}

// validateIMEI rejects malformed input before any data source or network
// call is made.
func validateIMEI(imei string) error {
	if imei == "" {
		return errEmptyIMEI
	}
	if len(imei) != imeiLength {
		return errInvalidIMEI
	}
	for _, r := range imei {
		if r < '0' || r > '9' {
			return errInvalidIMEI
		}
	}
	return nil
}

// LookupURL resolves a validated IMEI to its document url through the cached
// snapshot. A miss is errNoDocument; anything else is a loader failure.
func (c controller) LookupURL(ctx context.Context, imei string) (string, error) {
	snapshot, err := c.snapshots.Snapshot(ctx)
	if err != nil {
		return "", err
	}

	url, ok := snapshot.Lookup(imei)
	if !ok {
		return "", errNoDocument
	}

	return url, nil
}

func (c controller) FetchDocument(ctx context.Context, url string) ([]byte, error) {
	return c.documents.Fetch(ctx, url)
}
