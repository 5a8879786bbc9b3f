// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package convert provides value converters for typed options.
//
// Every converter has the shape func(string) (T, error), so it can be passed
// directly as a getopt.Converter.
package convert

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

// Int parses a signed integer. Base prefixes such as 0x and 0o are accepted.
func Int(s string) (int, error) {
	v, err := strconv.ParseInt(s, 0, strconv.IntSize)
	return int(v), err
}

// Uint parses an unsigned integer. Base prefixes are accepted.
func Uint(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 0, strconv.IntSize)
	return uint(v), err
}

func Float(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// Bool parses a boolean. Besides the forms strconv.ParseBool accepts, yes/no
// and on/off are recognized, in any case.
func Bool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	return strconv.ParseBool(s)
}

func Duration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}

// URL parses an absolute URL.
func URL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("URL %q is not absolute", s)
	}
	return u, nil
}

// Port parses a TCP or UDP port number.
func Port(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("port must be between 0 and 65535, got %q", s)
		}
		return 0, fmt.Errorf("invalid port value %q", s)
	}
	return uint16(v), nil
}

// PortRange returns a converter for ports between the bounds of rangeStr,
// which has the form "min-max".
func PortRange(rangeStr string) (func(string) (uint16, error), error) {
	lo, hi, err := parsePortRange(rangeStr)
	if err != nil {
		return nil, err
	}
	return func(s string) (uint16, error) {
		v, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return 0, fmt.Errorf("port must be between %s, got %q", rangeStr, s)
			}
			return 0, fmt.Errorf("invalid port value %q", s)
		}
		p := uint16(v)
		if p < lo || p > hi {
			return 0, fmt.Errorf("port must be between %s, got %d", rangeStr, p)
		}
		return p, nil
	}, nil
}

// parsePortRange parses a port range string like "1-65535" or "8000-9000".
func parsePortRange(rangeStr string) (lo, hi uint16, err error) {
	parts := strings.Split(rangeStr, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid port range format %q (expected \"min-max\")", rangeStr)
	}
	minVal, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid min port in range %q: %w", rangeStr, err)
	}
	maxVal, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid max port in range %q: %w", rangeStr, err)
	}
	if minVal > maxVal {
		return 0, 0, fmt.Errorf("invalid port range %q: min (%d) > max (%d)", rangeStr, minVal, maxVal)
	}
	return uint16(minVal), uint16(maxVal), nil
}

// SemVer parses a semantic version. A leading "v" and missing minor or patch
// components are tolerated.
func SemVer(s string) (*semver.Version, error) {
	return semver.NewVersion(s)
}

// Constraint parses a semantic version constraint such as ">= 1.2, < 2".
func Constraint(s string) (*semver.Constraints, error) {
	return semver.NewConstraint(s)
}

func UUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// Enum returns a converter accepting exactly one of values. Matching ignores
// case; the converter returns the value as listed.
func Enum(values ...string) func(string) (string, error) {
	return func(s string) (string, error) {
		for _, v := range values {
			if strings.EqualFold(s, v) {
				return v, nil
			}
		}
		return "", fmt.Errorf("%q is not one of %s", s, strings.Join(values, ", "))
	}
}

// normalizers render a converted value in canonical form.
var normalizers = map[string]func(string) (string, error){
	"int":        format(Int, strconv.Itoa),
	"uint":       format(Uint, func(v uint) string { return strconv.FormatUint(uint64(v), 10) }),
	"float":      format(Float, func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }),
	"bool":       format(Bool, strconv.FormatBool),
	"duration":   format(Duration, time.Duration.String),
	"url":        format(URL, (*url.URL).String),
	"port":       format(Port, func(v uint16) string { return strconv.FormatUint(uint64(v), 10) }),
	"semver":     format(SemVer, (*semver.Version).String),
	"constraint": format(Constraint, (*semver.Constraints).String),
	"uuid":       format(UUID, uuid.UUID.String),
	"string":     func(s string) (string, error) { return s, nil },
}

func format[T any](conv func(string) (T, error), str func(T) string) func(string) (string, error) {
	return func(s string) (string, error) {
		v, err := conv(s)
		if err != nil {
			return "", err
		}
		return str(v), nil
	}
}

// Lookup returns a converter that parses a value of the named type and
// renders it back in canonical form, e.g. "0x10" as int is "16". Type names
// ignore case.
func Lookup(name string) (func(string) (string, error), bool) {
	fn, ok := normalizers[strings.ToLower(name)]
	return fn, ok
}

// Names returns the type names Lookup knows, sorted.
func Names() []string {
	names := make([]string, 0, len(normalizers))
	for n := range normalizers {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
