// Copyright © 2022 Alibaba Group Holding Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errdefs defines the error kinds a layer publish run can fail with.
// Components return *Error values; callers decide what is fatal by matching on
// the kind with KindOf or the Is helpers.
package errdefs

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConfiguration
	KindUpload
	KindPublish
	KindCleanup
	KindRefresh
	KindListing
)

var kindNames = map[Kind]string{
	KindUnknown:       "unknown",
	KindNotFound:      "not found",
	KindConfiguration: "configuration",
	KindUpload:        "upload",
	KindPublish:       "publish",
	KindCleanup:       "cleanup",
	KindRefresh:       "refresh",
	KindListing:       "listing",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Error is the error value returned across component boundaries.
type Error struct {
	Kind Kind
	// Op describes what was being attempted, e.g. "publish layer libs".
	Op string
	// Detail holds diagnostics such as the serialized remote response.
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error", e.Kind)
	if e.Op != "" {
		msg = fmt.Sprintf("failed to %s", e.Op)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a bare *Error of the same kind, which lets the
// sentinels below be used with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Err == nil
}

var (
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrUpload        = &Error{Kind: KindUpload}
	ErrPublish       = &Error{Kind: KindPublish}
	ErrCleanup       = &Error{Kind: KindCleanup}
	ErrRefresh       = &Error{Kind: KindRefresh}
	ErrListing       = &Error{Kind: KindListing}
)

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func NewWithDetail(kind Kind, op, detail string, err error) *Error {
	return &Error{Kind: kind, Op: op, Detail: detail, Err: err}
}

func NotFound(path string, err error) *Error {
	return New(KindNotFound, fmt.Sprintf("find archive %s", path), err)
}

func Configuration(format string, args ...interface{}) *Error {
	return New(KindConfiguration, "validate configuration", fmt.Errorf(format, args...))
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// DetailOf returns the diagnostics attached to the first *Error in err's chain.
func DetailOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return ""
}

func IsNotFound(err error) bool      { return errors.Is(err, ErrNotFound) }
func IsConfiguration(err error) bool { return errors.Is(err, ErrConfiguration) }
func IsUpload(err error) bool        { return errors.Is(err, ErrUpload) }
func IsPublish(err error) bool       { return errors.Is(err, ErrPublish) }
func IsCleanup(err error) bool       { return errors.Is(err, ErrCleanup) }
func IsRefresh(err error) bool       { return errors.Is(err, ErrRefresh) }
func IsListing(err error) bool       { return errors.Is(err, ErrListing) }

// IsFatal reports whether err must abort a publish run. Cleanup and listing
// failures are reported but never abort.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	switch KindOf(err) {
	case KindCleanup, KindListing:
		return false
	default:
		return true
	}
}
