// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package getopt

import "fmt"

// Message templates. They are passed through the owning set's localizer when
// the error is raised, so translations keep the same verbs.
const (
	msgMissingValue      = "Missing required value for option '%s'."
	msgTooManyValues     = "Error: Found %d option values when expecting %d for option '%s'."
	msgUnregisteredInBun = "Cannot use unregistered option '%s' in bundle '%s'."
	msgConversion        = "Could not convert string `%s' for option `%s': %v"
	msgUnknownCommand    = "%s: Unknown command: %s"
	msgUseHelp           = "%[1]s: Use `%[1]s help` for usage."
	msgNoCommand         = "Use `%s help` for usage."
)

// OptionError is implemented by errors raised while parsing that concern a
// single option. OptionName returns the name as it was spelled on the command
// line (including the flag marker).
type OptionError interface {
	error
	OptionName() string
}

// EmptyNameError is returned when a prototype, or one of its aliases, has no
// name.
type EmptyNameError struct {
	Prototype string
}

func (e *EmptyNameError) Error() string {
	return fmt.Sprintf("empty option name in prototype %q", e.Prototype)
}

// ConflictingTypeError is returned when the aliases of a prototype disagree on
// whether the value is required ('=') or optional (':').
type ConflictingTypeError struct {
	Prototype string
}

func (e *ConflictingTypeError) Error() string {
	return fmt.Sprintf("conflicting option types in prototype %q: '=' vs. ':'", e.Prototype)
}

// MalformedSeparatorError is returned for unbalanced or nested braces in a
// separator spec.
type MalformedSeparatorError struct {
	Prototype string
	Alias     string
}

func (e *MalformedSeparatorError) Error() string {
	return fmt.Sprintf("ill-formed separator in %q of prototype %q", e.Alias, e.Prototype)
}

// SeparatorOnSingleValueError is returned when a separator spec is given for
// an option that takes at most one value.
type SeparatorOnSingleValueError struct {
	Prototype string
	MaxValues int
}

func (e *SeparatorOnSingleValueError) Error() string {
	return fmt.Sprintf("cannot provide key/value separators for options taking %d value(s): %q", e.MaxValues, e.Prototype)
}

// ValueCountError is returned when the declared value count does not fit the
// prototype's value type.
type ValueCountError struct {
	Prototype string
	MaxValues int
	Reason    string
}

func (e *ValueCountError) Error() string {
	return fmt.Sprintf("invalid value count %d for prototype %q: %s", e.MaxValues, e.Prototype, e.Reason)
}

// DuplicateOptionError is returned when an alias is already registered.
type DuplicateOptionError struct {
	Name string
}

func (e *DuplicateOptionError) Error() string {
	return fmt.Sprintf("option %q is already registered", e.Name)
}

// MissingRequiredValueError is returned when an option that requires a value
// is completed without one.
type MissingRequiredValueError struct {
	Option string
	format string
}

func (e *MissingRequiredValueError) Error() string {
	return fmt.Sprintf(orDefault(e.format, msgMissingValue), e.Option)
}

func (e *MissingRequiredValueError) OptionName() string { return e.Option }

// TooManyValuesError is returned when more values accumulate for an option
// than it declared.
type TooManyValuesError struct {
	Option string
	Count  int
	Max    int
	format string
}

func (e *TooManyValuesError) Error() string {
	return fmt.Sprintf(orDefault(e.format, msgTooManyValues), e.Count, e.Max, e.Option)
}

func (e *TooManyValuesError) OptionName() string { return e.Option }

// UnregisteredBundledOptionError is returned when a bundle such as -abc
// contains a character that is not a registered option, past its first
// character.
type UnregisteredBundledOptionError struct {
	Option string
	Bundle string
	format string
}

func (e *UnregisteredBundledOptionError) Error() string {
	return fmt.Sprintf(orDefault(e.format, msgUnregisteredInBun), e.Option, e.Bundle)
}

func (e *UnregisteredBundledOptionError) OptionName() string { return e.Option }

// TypeConversionError is returned when a typed option's converter rejects its
// value.
type TypeConversionError struct {
	Option string
	Value  string
	Err    error
	format string
}

func (e *TypeConversionError) Error() string {
	return fmt.Sprintf(orDefault(e.format, msgConversion), e.Value, e.Option, e.Err)
}

func (e *TypeConversionError) Unwrap() error {
	return e.Err
}

func (e *TypeConversionError) OptionName() string { return e.Option }

// DuplicateCommandError is returned when a command name is already taken in a
// suite.
type DuplicateCommandError struct {
	Suite string
	Name  string
}

func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("%s: command %q is already registered", e.Suite, e.Name)
}

// CommandOwnerError is returned when a command that belongs to one suite is
// added to another.
type CommandOwnerError struct {
	Name string
}

func (e *CommandOwnerError) Error() string {
	return fmt.Sprintf("command %q already belongs to another command set", e.Name)
}

func orDefault(format, def string) string {
	if format == "" {
		return def
	}
	return format
}
