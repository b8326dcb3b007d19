package firestore

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned by Get when the document does not exist.
	ErrNotFound = errors.New("firestore: document not found")
	// ErrEmptyUpdate rejects an Update without fields; without a mask the
	// store would replace the whole document.
	ErrEmptyUpdate = errors.New("firestore: update has no fields")
	// ErrUnencodable rejects a non-nil value the field encoder cannot write.
	ErrUnencodable = errors.New("firestore: value cannot be encoded")
)

// Op names used in errors and metrics labels.
const (
	OpRunQuery = "runQuery"
	OpGet      = "get"
	OpPatch    = "patch"
	OpSet      = "set"
	OpCreate   = "create"
	OpDelete   = "delete"
)

// StatusError reports a non-success HTTP response from the document API.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("firestore %s: HTTP %d", e.Op, e.StatusCode)
}

// Is lets errors.Is(err, ErrNotFound) match a 404.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
