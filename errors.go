package sile

import (
	"github.com/simonhull/sile/internal/types"
)

// IOError is an alias to types.IOError.
type IOError = types.IOError

// UnknownFormatError is an alias to types.UnknownFormatError.
type UnknownFormatError = types.UnknownFormatError

// MissingAttributeError is an alias to types.MissingAttributeError.
type MissingAttributeError = types.MissingAttributeError

// UnknownAttributeError is an alias to types.UnknownAttributeError.
type UnknownAttributeError = types.UnknownAttributeError

// MalformedAttributeError is an alias to types.MalformedAttributeError.
type MalformedAttributeError = types.MalformedAttributeError

// MalformedRowError is an alias to types.MalformedRowError.
type MalformedRowError = types.MalformedRowError

// SectionNotFoundError is an alias to types.SectionNotFoundError.
type SectionNotFoundError = types.SectionNotFoundError

// UnsupportedReadError is an alias to types.UnsupportedReadError.
type UnsupportedReadError = types.UnsupportedReadError

// ConfigError is an alias to types.ConfigError.
type ConfigError = types.ConfigError

// Warning is an alias to types.Warning.
type Warning = types.Warning
