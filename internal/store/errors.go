package store

import "errors"

// Store errors.
var (
	// ErrNotFound indicates no entity with the requested id exists.
	ErrNotFound = errors.New("store: entity not found")

	// ErrLayerNotFound indicates no layer with the requested name exists.
	ErrLayerNotFound = errors.New("store: layer not found")

	// ErrLayerExists indicates a layer with that name already exists.
	ErrLayerExists = errors.New("store: layer already exists")

	// ErrLayerProtected indicates the layer cannot be deleted.
	ErrLayerProtected = errors.New("store: layer cannot be deleted")

	// ErrBlockExists indicates a block with that name already exists.
	ErrBlockExists = errors.New("store: block already exists")

	// ErrBlockNotFound indicates no block with the requested name exists.
	ErrBlockNotFound = errors.New("store: block not found")
)
