package pysubscript

import (
	"github.com/vilterp/pysubscript/pkg/diag"
	"github.com/vilterp/pysubscript/pkg/pyversion"
)

// CheckRequest asks the server to check one file. PythonVersion
// overrides the server's configured target for this request only.
type CheckRequest struct {
	ID            int                `json:"id"`
	Filename      string             `json:"filename"`
	Source        string             `json:"source"`
	PythonVersion *pyversion.Version `json:"pythonVersion,omitempty"`
}

// requestHeader is the part of a CheckRequest read when the rest of it
// doesn't decode.
type requestHeader struct {
	ID int `json:"id"`
}

// CheckResponse carries either diagnostics or an error. A request that
// can't be decoded is answered under its ID when that much is readable,
// and under ID 0 otherwise.
type CheckResponse struct {
	ID          int               `json:"id"`
	Target      pyversion.Version `json:"targetVersion"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	Error       *string           `json:"error,omitempty"`
}
