// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract reduces a JSON file of records to the list of their ids.
//
// The file is read whole, each record's id member is projected out in
// order, and the same file is truncated and rewritten with the ids as an
// indented JSON array. The rewrite is in place: an interrupted or failed
// write can leave the file empty or partial.
package extract

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/idextract/pkg/types"
)

// Recorder receives one Run per ExtractAndReplace call, successful or not.
type Recorder interface {
	Record(ctx context.Context, run types.Run) error
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the diagnostic logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// WithField sets the member projected out of each record.
func WithField(field string) Option {
	return func(e *Extractor) {
		e.field = field
	}
}

// WithIndent sets the number of spaces per nesting level in the output.
func WithIndent(n int) Option {
	return func(e *Extractor) {
		e.indent = n
	}
}

// WithRecorder journals every ExtractAndReplace outcome.
func WithRecorder(r Recorder) Option {
	return func(e *Extractor) {
		e.recorder = r
	}
}

// Extractor projects records onto a single field and rewrites files with
// the result.
type Extractor struct {
	field    string
	indent   int
	logger   *zap.Logger
	recorder Recorder
	now      func() time.Time
}

// New returns an Extractor projecting the "id" field with 2-space output
// unless options say otherwise.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		field:  types.DefaultIDField,
		indent: types.DefaultIndent,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Field returns the member the extractor projects.
func (e *Extractor) Field() string {
	return e.field
}

// withField returns a copy of e projecting field instead. An empty field
// keeps the current one.
func (e *Extractor) withField(field string) *Extractor {
	if field == "" || field == e.field {
		return e
	}
	c := *e
	c.field = field
	return &c
}

// Result describes a completed ExtractAndReplace call.
type Result struct {
	Path        string
	Field       string
	Records     int
	InputSHA256 string
}

// Extract reads path and returns the projected ids without modifying the
// file.
func (e *Extractor) Extract(ctx context.Context, path string) (types.IDList, error) {
	ids, _, err := e.load(ctx, path)
	return ids, err
}

// ExtractAndReplace reads the records in path, projects each one onto the
// configured field, and overwrites path with the resulting id array. The
// file is not touched unless reading, parsing, and projection all succeed.
func (e *Extractor) ExtractAndReplace(ctx context.Context, path string) (Result, error) {
	started := e.now()
	res, err := e.extractAndReplace(ctx, path)
	e.record(ctx, started, res, err)
	return res, err
}

func (e *Extractor) extractAndReplace(ctx context.Context, path string) (Result, error) {
	res := Result{Path: path, Field: e.field}

	ids, sum, err := e.load(ctx, path)
	res.InputSHA256 = sum
	if err != nil {
		return res, err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, ids, e.indent); err != nil {
		return res, err
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	if err := writeFile(path, buf.Bytes()); err != nil {
		return res, resourceError(path, err)
	}

	res.Records = len(ids)
	e.logger.Info("replaced file with ids",
		zap.String("path", path),
		zap.String("field", e.field),
		zap.Int("records", res.Records))
	return res, nil
}

// load reads, parses, and projects path, returning the ids and the hex
// SHA-256 of the bytes read.
func (e *Extractor) load(ctx context.Context, path string) (types.IDList, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	data, err := readFile(path)
	if err != nil {
		return nil, "", resourceError(path, err)
	}
	digest := sha256.Sum256(data)
	sum := hex.EncodeToString(digest[:])
	e.logger.Debug("read source",
		zap.String("path", path),
		zap.Int("bytes", len(data)),
		zap.String("sha256", sum))

	doc, err := Parse(data)
	if err != nil {
		return nil, sum, withPath(err, path)
	}

	ids, err := Project(doc, e.field)
	if err != nil {
		e.logger.Debug("projection failed", zap.String("path", path), zap.Error(err))
		return nil, sum, withPath(err, path)
	}
	return ids, sum, nil
}

func (e *Extractor) record(ctx context.Context, started time.Time, res Result, err error) {
	if e.recorder == nil {
		return
	}

	run := types.Run{
		Path:        res.Path,
		Field:       res.Field,
		Status:      types.RunSucceeded,
		Records:     res.Records,
		InputSHA256: res.InputSHA256,
		StartedAt:   started,
		FinishedAt:  e.now(),
	}
	if err != nil {
		run.Status = types.RunFailed
		run.Error = err.Error()
		if k, ok := KindOf(err); ok {
			run.ErrorKind = string(k)
		}
	}

	// A cancelled context must not prevent the journal entry.
	if rerr := e.recorder.Record(context.WithoutCancel(ctx), run); rerr != nil {
		e.logger.Warn("recording run failed", zap.String("path", res.Path), zap.Error(rerr))
	}
}

// Parse checks that data is a single well-formed JSON document and returns
// it unchanged. Malformed input yields a KindParse error.
func Parse(data []byte) (json.RawMessage, error) {
	var doc json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, parseError(err)
	}
	return doc, nil
}

// Project returns the value of field from every element of doc, in order.
// doc must be an array of objects and every object must have field;
// otherwise Project fails with a KindDataShape error and returns no ids.
func Project(doc json.RawMessage, field string) (types.IDList, error) {
	if leadingByte(doc) != '[' {
		return nil, shapeError(noIndex, ErrNotArray)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(doc, &elems); err != nil {
		return nil, shapeError(noIndex, fmt.Errorf("%w: %v", ErrNotArray, err))
	}

	ids := make(types.IDList, 0, len(elems))
	for i, raw := range elems {
		if leadingByte(raw) != '{' {
			return nil, shapeError(i, ErrNotObject)
		}
		var rec types.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, shapeError(i, fmt.Errorf("%w: %v", ErrNotObject, err))
		}
		id, ok := rec.ID(field)
		if !ok {
			return nil, shapeError(i, fmt.Errorf("%w %q", ErrMissingField, field))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Encode writes ids to w as a JSON array with indent spaces per level and
// no trailing newline. Id values are emitted as read and HTML characters
// are left unescaped. An indent of zero writes the compact form.
func Encode(w io.Writer, ids types.IDList, indent int) error {
	if ids == nil {
		ids = types.IDList{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(ids); err != nil {
		return fmt.Errorf("encoding ids: %w", err)
	}

	_, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return err
}

// readFile holds the file open only for the duration of the read.
func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// writeFile truncates path and writes data. The close error is returned so
// a failed flush is not silently lost.
func writeFile(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// leadingByte returns the first non-whitespace byte of raw, or 0.
func leadingByte(raw []byte) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
