package pysubscript

import "fmt"

type parseError struct {
	Filename string
	error    error
}

func (e *parseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.error.Error())
}

func (e *parseError) Cause() error {
	return e.error
}

type invalidConfig struct {
	Path   string
	Field  string
	Reason string
}

func (e *invalidConfig) Error() string {
	return fmt.Sprintf("invalid config %s: %s: %s", e.Path, e.Field, e.Reason)
}

type serverError struct {
	RequestID int
	Message   string
}

func (e *serverError) Error() string {
	return fmt.Sprintf("request %d: %s", e.RequestID, e.Message)
}
