package props

import (
	goerrors "errors"

	"github.com/pkg/errors"
)

var (
	ErrNoFields       = goerrors.New("propsync: schema has no fields")
	ErrTooManyFields  = goerrors.New("propsync: schema exceeds MaxFields")
	ErrUnknownKind    = goerrors.New("propsync: unknown field kind")
	ErrSchemaMismatch = goerrors.New("propsync: values do not match the schema")
)

func fieldError(i int, k Kind, err error) error {
	return errors.Wrapf(err, "field %d (%s)", i, k)
}
