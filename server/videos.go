package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/gogpu/screencast"
	"github.com/gogpu/screencast/drawing"
	"github.com/gogpu/screencast/format"
	"github.com/gogpu/screencast/internal/framecache"
	"github.com/gogpu/screencast/player"
	"github.com/gogpu/screencast/recorder"
	"github.com/gogpu/screencast/store"
	"github.com/gogpu/screencast/video"
)

var contentTypes = map[string]string{
	"svg":     "image/svg+xml",
	"msgpack": "application/vnd.msgpack",
}

func contentType(ext string) string {
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

type uploadResponse struct {
	recorder.UploadResult
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	reject := func(status int, msg string, err error) {
		screencast.Logger().Warn("server: upload rejected", "reason", msg, "err", err)
		render.Status(r, status)
		render.JSON(w, r, uploadResponse{Error: msg})
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			reject(http.StatusRequestEntityTooLarge, "recording too large", err)
			return
		}
		reject(http.StatusBadRequest, "invalid form", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	ext := store.CleanExtension(r.FormValue("extension"))
	f, err := format.ForExtension(ext)
	if err != nil {
		reject(http.StatusBadRequest, "unsupported extension", err)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		reject(http.StatusBadRequest, "missing file", err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		reject(http.StatusBadRequest, "unreadable file", err)
		return
	}
	if _, err := f.LoadVideo(bytes.NewReader(data)); err != nil {
		reject(http.StatusBadRequest, "corrupted recording", err)
		return
	}

	rec, err := s.store.Create(r.Context(), ext, data)
	if err != nil {
		fail(w, r, http.StatusInternalServerError, "cannot store recording", err)
		return
	}
	screencast.Logger().Info("server: recording stored", "id", rec.ID, "extension", ext, "bytes", rec.Size)
	render.JSON(w, r, uploadResponse{
		UploadResult: recorder.UploadResult{Success: true, Redirect: "/api/videos/" + rec.ID},
		ID:           rec.ID,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		fail(w, r, http.StatusInternalServerError, "cannot list recordings", err)
		return
	}
	if recs == nil {
		recs = []store.Recording{}
	}
	render.JSON(w, r, recs)
}

// getRecording answers the request itself when the recording is missing.
func (s *Server) getRecording(w http.ResponseWriter, r *http.Request) (store.Recording, bool) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrInvalidID):
		fail(w, r, http.StatusNotFound, "recording not found", err)
		return rec, false
	case err != nil:
		fail(w, r, http.StatusInternalServerError, "cannot read recording", err)
		return rec, false
	}
	return rec, true
}

func (s *Server) loadVideo(w http.ResponseWriter, r *http.Request) (store.Recording, *video.Video, bool) {
	rec, ok := s.getRecording(w, r)
	if !ok {
		return rec, nil, false
	}
	v, err := decode(rec)
	if err != nil {
		fail(w, r, http.StatusUnprocessableEntity, "recording cannot be decoded", err)
		return rec, nil, false
	}
	return rec, v, true
}

func decode(rec store.Recording) (*video.Video, error) {
	f, err := format.ForExtension(rec.Extension)
	if err != nil {
		return nil, err
	}
	return f.LoadVideo(bytes.NewReader(rec.Data))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.getRecording(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", contentType(rec.Extension))
	w.Header().Set("Content-Length", strconv.Itoa(len(rec.Data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "recorded-animation."+rec.Extension))
	if _, err := w.Write(rec.Data); err != nil {
		screencast.Logger().Debug("server: download interrupted", "id", rec.ID, "err", err)
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	err := s.store.Delete(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrInvalidID):
		fail(w, r, http.StatusNotFound, "recording not found", err)
	case err != nil:
		fail(w, r, http.StatusInternalServerError, "cannot delete recording", err)
	default:
		s.frames.Forget(chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	}
}

// Info describes a stored recording.
type Info struct {
	store.Recording
	Length      float64             `json:"length"`
	Duration    string              `json:"duration"`
	Width       float64             `json:"width"`
	Height      float64             `json:"height"`
	AudioTracks []video.AudioSource `json:"audioTracks"`
	Chunks      int                 `json:"chunks"`
	Commands    int                 `json:"commands"`
}

// Describe summarizes v stored as rec.
func Describe(rec store.Recording, v *video.Video) Info {
	m := v.Metadata()
	tracks := m.AudioTracks
	if tracks == nil {
		tracks = []video.AudioSource{}
	}
	return Info{
		Recording:   rec,
		Length:      m.Length,
		Duration:    screencast.FormatMilliseconds(m.Length),
		Width:       m.Width,
		Height:      m.Height,
		AudioTracks: tracks,
		Chunks:      v.Len(),
		Commands:    v.Commands(),
	}
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	rec, v, ok := s.loadVideo(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, Describe(rec, v))
}

func (s *Server) handleFrame(backend, mediaType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		key := framecache.Key{ID: chi.URLParam(r, "id"), Params: backend + "?" + q.Encode()}
		if data, ok := s.frames.Get(key); ok {
			writeFrame(w, mediaType, data)
			return
		}
		_, v, ok := s.loadVideo(w, r)
		if !ok {
			return
		}
		m := v.Metadata()
		at, err := queryFloat(q, "t", m.Length)
		if err != nil {
			fail(w, r, http.StatusBadRequest, "invalid time", err)
			return
		}
		width, height := FrameSize(m)
		if width, err = queryInt(q, "w", width); err != nil {
			fail(w, r, http.StatusBadRequest, "invalid width", err)
			return
		}
		if height, err = queryInt(q, "h", height); err != nil {
			fail(w, r, http.StatusBadRequest, "invalid height", err)
			return
		}
		if width < 1 || height < 1 || width > maxFrameSize || height > maxFrameSize {
			fail(w, r, http.StatusBadRequest, "frame size out of range", nil)
			return
		}

		var buf bytes.Buffer
		if err := RenderFrame(&buf, backend, v, at, width, height, q.Has("label")); err != nil {
			fail(w, r, http.StatusInternalServerError, "cannot render frame", err)
			return
		}
		s.frames.Set(key, buf.Bytes())
		writeFrame(w, mediaType, buf.Bytes())
	}
}

func writeFrame(w http.ResponseWriter, mediaType string, data []byte) {
	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		screencast.Logger().Debug("server: frame interrupted", "err", err)
	}
}

// FrameSize returns the recorded canvas size of m, or the default output
// size for videos without one.
func FrameSize(m video.Metadata) (width, height int) {
	if m.Width < 1 || m.Height < 1 {
		return 800, 600
	}
	return int(m.Width), int(m.Height)
}

type labeler interface {
	DrawLabel(text string, color screencast.Color)
}

// RenderFrame draws the moment at (milliseconds) of v with the named
// drawing backend and writes the result to w. With label set, backends
// that can print text show the time in a corner.
func RenderFrame(w io.Writer, backend string, v *video.Video, at float64, width, height int, label bool) error {
	b, err := drawing.NewBackend(backend, width, height)
	if err != nil {
		return err
	}
	wb, ok := b.(drawing.WriterBackend)
	if !ok {
		return fmt.Errorf("server: backend %q cannot write its output", backend)
	}
	player.RenderAt(b, v, at)
	if lb, ok := b.(labeler); ok && label {
		lb.DrawLabel(screencast.FormatMilliseconds(at), screencast.DefaultForeground)
	}
	_, err = wb.WriteTo(w)
	return err
}

func queryFloat(q url.Values, key string, def float64) (float64, error) {
	if !q.Has(key) {
		return def, nil
	}
	f, err := strconv.ParseFloat(q.Get(key), 64)
	if err == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
		err = fmt.Errorf("%s is not finite", key)
	}
	return f, err
}

func queryInt(q url.Values, key string, def int) (int, error) {
	if !q.Has(key) {
		return def, nil
	}
	return strconv.Atoi(q.Get(key))
}
