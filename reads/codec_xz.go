//go:build !noxz
// +build !noxz

package reads

import (
	"io"

	"github.com/grailbio/lrge"
	"github.com/ulikunitz/xz"
)

// xzNewReader decodes an xz stream. Build with -tags noxz to drop the
// github.com/ulikunitz/xz dependency from the binary.
func xzNewReader(r io.Reader) (io.Reader, error) {
	zr, err := xz.NewReader(r)
	if err != nil {
		return nil, lrge.Wrap(lrge.Io, err, "open xz stream")
	}
	return zr, nil
}
