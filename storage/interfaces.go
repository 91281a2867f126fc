package storage

import "usedcar-analyzer/models"

// ListingWriter is the interface any clean-table backend must satisfy.
type ListingWriter interface {
	WriteListings(listings []models.NormalizedListing) error
	Close() error
}
