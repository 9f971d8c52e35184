package pipeline

import (
	"errors"
	"fmt"
)

// ErrUnknownNode reports a protocol naming a plugin the registry does not
// know.
var ErrUnknownNode = errors.New("unknown pipeline node")

// ErrNoProtocols reports that neither the case nor a protocol file supplied
// any protocols to run.
var ErrNoProtocols = errors.New("no protocols to run")

// ErrProtocolSource reports protocols supplied both in the case and
// through a file.
var ErrProtocolSource = errors.New("protocols provided both in case and file, pick one")

// DataError reports case data that does not satisfy a node's requirements,
// raised at check time.
type DataError struct {
	Node   string
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("node %s: bad case data: %s", e.Node, e.Reason)
}

// OptionsError reports invalid options handed to a node builder.
type OptionsError struct {
	Node   string
	Reason string
}

func (e *OptionsError) Error() string {
	return fmt.Sprintf("node %s: bad options: %s", e.Node, e.Reason)
}
