// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package getopt

// Converter turns a raw option value into a T.
type Converter[T any] func(string) (T, error)

// AddTyped registers an option whose value is converted with conv before fn
// is called. A missing value yields the zero T without calling conv.
func AddTyped[T any](s *OptionSet, prototype, description string, conv Converter[T], fn func(T)) error {
	o, err := NewOption(prototype, description, 1, false, func(c *Context) error {
		v, err := convertValue(c, 0, conv)
		if err != nil {
			return err
		}
		fn(v)
		return nil
	})
	if err != nil {
		return err
	}
	return s.AddOption(o)
}

// AddTypedPair registers a key/value option whose parts are converted with
// kc and vc.
func AddTypedPair[K, V any](s *OptionSet, prototype, description string, kc Converter[K], vc Converter[V], fn func(K, V)) error {
	o, err := NewOption(prototype, description, 2, false, func(c *Context) error {
		k, err := convertValue(c, 0, kc)
		if err != nil {
			return err
		}
		v, err := convertValue(c, 1, vc)
		if err != nil {
			return err
		}
		fn(k, v)
		return nil
	})
	if err != nil {
		return err
	}
	return s.AddOption(o)
}

func convertValue[T any](c *Context, i int, conv Converter[T]) (T, error) {
	var zero T
	raw, err := c.Value(i)
	if err != nil || raw == nil {
		return zero, err
	}
	v, err := conv(*raw)
	if err != nil {
		return zero, &TypeConversionError{
			Option: c.name,
			Value:  *raw,
			Err:    err,
			format: c.set.localize(msgConversion),
		}
	}
	return v, nil
}
