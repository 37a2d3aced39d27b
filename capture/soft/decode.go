package soft

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gopxl/beep/wav"
)

// Recording summarises a decoded motion-JPEG stream
type Recording struct {
	Manifest      Manifest
	Frames        int
	AudioSegments int
	AudioSamples  int
	Duration      time.Duration
	FirstFrame    image.Image
}

// Decode reads a complete recording, checking that frames arrive in order
func Decode(r io.Reader) (*Recording, error) {
	mr := multipart.NewReader(r, Boundary)
	rec := &Recording{}
	seenManifest := false

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read part: %w", err)
		}

		if off := part.Header.Get(headerOffset); off != "" {
			ms, err := strconv.ParseInt(off, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("bad offset %q: %w", off, err)
			}
			rec.Duration = max(rec.Duration, time.Duration(ms)*time.Millisecond)
		}

		switch ct := part.Header.Get("Content-Type"); ct {
		case "application/json":
			if err := json.NewDecoder(part).Decode(&rec.Manifest); err != nil {
				return nil, fmt.Errorf("manifest: %w", err)
			}
			seenManifest = true

		case "image/jpeg":
			n, err := strconv.Atoi(part.Header.Get(headerFrame))
			if err != nil || n != rec.Frames {
				return nil, fmt.Errorf("frame %d out of order (header %q)", rec.Frames, part.Header.Get(headerFrame))
			}
			if rec.FirstFrame == nil {
				img, err := jpeg.Decode(part)
				if err != nil {
					return nil, fmt.Errorf("frame %d: %w", n, err)
				}
				rec.FirstFrame = img
			}
			rec.Frames++

		case "audio/wav":
			data, err := io.ReadAll(part)
			if err != nil {
				return nil, fmt.Errorf("audio segment: %w", err)
			}
			s, _, err := wav.Decode(bytes.NewReader(data))
			if err != nil {
				return nil, fmt.Errorf("audio segment %d: %w", rec.AudioSegments, err)
			}
			rec.AudioSamples += s.Len()
			s.Close()
			rec.AudioSegments++

		default:
			return nil, fmt.Errorf("unexpected part type %q", ct)
		}
	}

	if !seenManifest {
		return nil, errors.New("recording has no manifest")
	}
	return rec, nil
}
