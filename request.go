package bufferedlogger

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Parameter is a named request parameter.
type Parameter struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Param is shorthand for Parameter{Name: name, Value: value}.
func Param(name string, value any) Parameter {
	return Parameter{Name: name, Value: value}
}

// Request identifies the request a BufferedLogger reports on. It is
// immutable once built.
type Request struct {
	token      string
	parameters []Parameter
}

// NewRequest builds a request with the given token and parameters. The
// parameters are copied.
func NewRequest(token string, params ...Parameter) Request {
	return Request{
		token:      token,
		parameters: append(make([]Parameter, 0, len(params)), params...),
	}
}

// NewGeneratedRequest builds a request with a random UUID token.
func NewGeneratedRequest(params ...Parameter) Request {
	return NewRequest(uuid.NewString(), params...)
}

// Token returns the request token.
func (r Request) Token() string {
	return r.token
}

// Parameters returns a copy of the request parameters in declaration order.
func (r Request) Parameters() []Parameter {
	return append(make([]Parameter, 0, len(r.parameters)), r.parameters...)
}

type requestRecord struct {
	Token      string      `json:"token"`
	Parameters []Parameter `json:"parameters"`
}

func (r Request) MarshalJSON() ([]byte, error) {
	return json.Marshal(requestRecord{Token: r.token, Parameters: r.Parameters()})
}
