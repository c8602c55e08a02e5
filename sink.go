package lightpass

import (
	"fmt"
	"strings"

	"github.com/gekko3d/lightpass/rt/core"
	"github.com/gekko3d/lightpass/rt/encode"
)

// Sink receives every rendered frame.
type Sink interface {
	WriteFrame(f *Frame) error
	Close() error
}

// FileSink writes each frame to Pattern. A pattern containing a verb such as
// %d or %04d is formatted with the frame index; otherwise every frame
// overwrites the same file.
type FileSink struct {
	Pattern string
	Format  encode.Format
	Written []string
}

func (s *FileSink) Path(index int) string {
	if strings.Contains(s.Pattern, "%") {
		return fmt.Sprintf(s.Pattern, index)
	}
	return s.Pattern
}

func (s *FileSink) WriteFrame(f *Frame) error {
	path := s.Path(f.Index)
	if err := encode.WriteFile(path, f.Image, s.Format); err != nil {
		return err
	}
	s.Written = append(s.Written, path)
	return nil
}

func (s *FileSink) Close() error { return nil }

// GIFSink collects frames and writes one animated GIF on Close.
type GIFSink struct {
	Path   string
	Delay  int
	frames []*core.Image
}

func (s *GIFSink) WriteFrame(f *Frame) error {
	s.frames = append(s.frames, f.Image.Clone())
	return nil
}

func (s *GIFSink) Frames() int { return len(s.frames) }

func (s *GIFSink) Close() error {
	if len(s.frames) == 0 {
		return nil
	}
	return encode.WriteGIFFile(s.Path, s.frames, s.Delay)
}

// OutputModule picks a sink from the output path and format.
type OutputModule struct {
	Path     string
	Format   string
	GIFDelay int
}

func (m OutputModule) Install(app *App, cmd *Commands) {
	var (
		f   encode.Format
		err error
	)
	if m.Format != "" {
		f, err = encode.ParseFormat(m.Format)
	} else {
		f, err = encode.FormatFromPath(m.Path)
	}
	if err != nil {
		cmd.Fail(err)
		return
	}

	if f == encode.FormatGIF {
		cmd.AddSink(&GIFSink{Path: m.Path, Delay: m.GIFDelay})
	} else {
		cmd.AddSink(&FileSink{Pattern: m.Path, Format: f})
	}
	app.Logger().Debugf("Output %s as %s", m.Path, f)
}
