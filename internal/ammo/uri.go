package ammo

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"
)

// uriHeaderCutset trims bracket header lines: "[Host: example.org]" keeps
// "Host: example.org".
const uriHeaderCutset = "\r\n[]\t "

// URIReader reads one URI per line and renders each into a GET request.
// Bracket-delimited lines add to a persistent header set instead of being
// emitted; headers accumulate for the lifetime of the reader and are never
// reset on restart, so a header defined anywhere in the file applies to all
// later requests.
type URIReader struct {
	fileSource
	headers HeaderSet
	httpVer string
	marker  Marker
}

// NewURIReader creates a plain URI-list reader seeded with the configured
// headers.
func NewURIReader(path string, opt Options) *URIReader {
	opt = opt.normalize()
	opt.Logger.Info("loading ammo", zap.String("file", path), zap.String("format", string(FormatURI)))
	return &URIReader{
		fileSource: newFileSource(path, opt),
		headers:    NewHeaderSet(opt.Headers),
		httpVer:    opt.HTTPVersion,
		marker:     opt.Marker,
	}
}

// Next returns the next URI rendered as a GET request with the current
// accumulated header set.
func (r *URIReader) Next(ctx context.Context) (Record, error) {
	if err := r.ready(ctx); err != nil {
		return Record{}, err
	}
	for {
		line, err := r.readLine()
		if err == io.EOF {
			if err := r.restart(); err != nil {
				return Record{}, r.fail(err)
			}
			continue
		}
		if err != nil {
			return Record{}, r.fail(err)
		}
		r.board.SetFilePosition(r.pos)
		if strings.HasPrefix(line, "[") {
			r.headers.Add(strings.Trim(line, uriHeaderCutset))
			continue
		}
		uri := strings.TrimRight(line, "\r\n")
		if uri == "" {
			continue
		}
		req := NewHTTPAmmo(uri, r.headers.Lines(), "GET", r.httpVer, nil)
		r.progressed = true
		return Record{Payload: req.Render(), Marker: r.marker(uri)}, nil
	}
}
