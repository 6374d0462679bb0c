//go:build noxz
// +build noxz

package reads

import (
	"io"

	"github.com/grailbio/lrge"
)

// xzNewReader is stubbed out under -tags noxz: detecting an xz stream then
// becomes a spec.md UnsupportedCompression error rather than a successful
// decode.
func xzNewReader(io.Reader) (io.Reader, error) {
	return nil, lrge.Errorf(lrge.UnsupportedCompression, "xz support disabled at build time")
}
