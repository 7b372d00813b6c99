package rdiff

import "github.com/sirupsen/logrus"

// DefaultBlockSize is used when DifferOptions.BlockSize is left at zero.
const DefaultBlockSize = 4096

// DifferOptions bundles the tunables for a Differ: the block size used to
// segment both the digest and the rebuilt digest a diff pass produces, and
// the logger that receives one Debug-level summary line per diff pass.
type DifferOptions struct {
	BlockSize int
	Logger    *logrus.Logger
}

func (o DifferOptions) withDefaults() DifferOptions {
	if o.BlockSize <= 0 {
		o.BlockSize = DefaultBlockSize
	}
	if o.Logger == nil {
		o.Logger = logger
	}
	return o
}
