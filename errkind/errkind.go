/*
Copyright 2025 Trident Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package errkind defines the shared error-kind vocabulary of spec.md §7,
// so that resid/grammar, resid/param, and the root resid package can all
// raise and recognize the same kinds without resid/grammar or resid/param
// importing the root package (which itself depends on them).
package errkind

// Kind enumerates the error kinds of spec.md §7.
type Kind string

const (
	InputShape       Kind = "InputShape"
	DecodeFailed     Kind = "DecodeFailed"
	GrammarRejected  Kind = "GrammarRejected"
	GrammarAmbiguous Kind = "GrammarAmbiguous"
	NotAbsolute      Kind = "NotAbsolute"
	WrongKind        Kind = "WrongKind"
	BindingInvalid   Kind = "BindingInvalid"
	IndiceUnknown    Kind = "IndiceUnknown"
)

// Error is the structured error type every package in this module raises.
// It plays the role trident's kindError plays for a single package, widened
// with a Kind so the root package's public resid.Error can classify it
// without string matching.
type Error struct {
	Kind    Kind
	Message string
	Char    rune
	Details string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	switch {
	case e.Char != 0:
		msg = msg + " '" + string(e.Char) + "'"
	case e.Details != "":
		msg = msg + " '" + e.Details + "'"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error of the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an *Error of the given kind, wrapping err.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithChar attaches a specific offending rune for a more readable message.
func (e *Error) WithChar(r rune) *Error {
	e.Char = r
	return e
}

// WithDetails attaches a free-form detail string.
func (e *Error) WithDetails(d string) *Error {
	e.Details = d
	return e
}
