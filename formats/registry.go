// SPDX-License-Identifier: EPL-2.0

// Package formats wires the bundled decoders into an audio.Registry keyed by
// file extension.
package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ik5/audlooper/audio"
	"github.com/ik5/audlooper/formats/aiff"
	"github.com/ik5/audlooper/formats/mp3"
	"github.com/ik5/audlooper/formats/vorbis"
	"github.com/ik5/audlooper/formats/wav"
)

var ErrUnknownFormat = errors.New("no decoder for file extension")

// Default returns a registry with every bundled decoder.
func Default() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("wave", wav.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	return r
}

// fileSource closes the underlying file together with the decoded source.
type fileSource struct {
	audio.Source
	f *os.File
}

func (s *fileSource) Frames() int { return audio.FramesOf(s.Source) }

func (s *fileSource) Close() error {
	return errors.Join(s.Source.Close(), s.f.Close())
}

// Open decodes the file at path with the decoder registered in r for its
// extension. Closing the returned source closes the file.
func Open(r *audio.Registry, path string) (audio.Source, error) {
	dec, ok := r.ForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &fileSource{Source: src, f: f}, nil
}
