package compositor

import "errors"

// Graph and job errors.
var (
	// ErrUnknownNodeKind is returned for a node kind missing from the node table.
	ErrUnknownNodeKind = errors.New("compositor: unknown node kind")

	// ErrUnknownNode is returned when a link names a node that does not exist.
	ErrUnknownNode = errors.New("compositor: unknown node")

	// ErrUnknownSocket is returned when a link names a socket the node lacks.
	ErrUnknownSocket = errors.New("compositor: unknown socket")

	// ErrDuplicateNode is returned when two nodes share a name.
	ErrDuplicateNode = errors.New("compositor: duplicate node name")

	// ErrDuplicateLink is returned when an input socket has more than one link.
	ErrDuplicateLink = errors.New("compositor: input socket linked twice")

	// ErrCycle is returned when the graph contains a cycle.
	ErrCycle = errors.New("compositor: graph contains a cycle")

	// ErrDanglingSocket is returned when an operation input cannot be resolved.
	ErrDanglingSocket = errors.New("compositor: dangling socket")

	// ErrInvalidDimensions is returned for non-positive job sizes.
	ErrInvalidDimensions = errors.New("compositor: invalid dimensions")

	// ErrInvalidProperty is returned when a node property has the wrong type
	// or an unsupported value.
	ErrInvalidProperty = errors.New("compositor: invalid node property")

	// ErrNoOutput is returned when a job has no output operation.
	ErrNoOutput = errors.New("compositor: job has no output")

	// ErrImageNotFound is returned by image sources for unknown images.
	ErrImageNotFound = errors.New("compositor: image not found")

	// ErrNotInitialized is the panic value of an Executor used after
	// DeinitExecution.
	ErrNotInitialized = errors.New("compositor: executor used outside its init/deinit window")
)
