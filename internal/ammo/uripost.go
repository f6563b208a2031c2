package ammo

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// URIPostReader combines the chunked protocol with the bracket-header
// convention: chunk headers have the form "<byte-length> <uri> [marker]",
// bracket-delimited lines between chunks accumulate into a persistent
// header set, and each chunk body becomes the body of a rendered POST
// request.
type URIPostReader struct {
	fileSource
	headers HeaderSet
	httpVer string
	marker  Marker
}

// NewURIPostReader creates a URI+POST reader seeded with the configured
// headers.
func NewURIPostReader(path string, opt Options) *URIPostReader {
	opt = opt.normalize()
	opt.Logger.Info("loading ammo", zap.String("file", path), zap.String("format", string(FormatURIPost)))
	return &URIPostReader{
		fileSource: newFileSource(path, opt),
		headers:    NewHeaderSet(opt.Headers),
		httpVer:    opt.HTTPVersion,
		marker:     opt.Marker,
	}
}

// Next returns the next chunk rendered as a POST request.
func (r *URIPostReader) Next(ctx context.Context) (Record, error) {
	if err := r.ready(ctx); err != nil {
		return Record{}, err
	}
	for {
		line, err := r.readLine()
		if err == io.EOF {
			r.log.Debug("reached the end of ammo file, starting over", zap.String("file", r.path))
			if err := r.restart(); err != nil {
				return Record{}, r.fail(err)
			}
			continue
		}
		if err != nil {
			return Record{}, r.fail(err)
		}
		if strings.HasPrefix(line, "[") {
			r.headers.Add(strings.Trim(line, uriHeaderCutset))
			continue
		}
		header := strings.TrimRight(line, "\r\n")
		if header == "" {
			continue
		}
		size, uri, marker, err := parsePostHeader(header)
		if err != nil {
			return Record{}, r.fail(&FormatError{Path: r.path, Offset: r.pos, Header: header, Err: err})
		}
		if size == 0 {
			r.log.Debug("zero-sized chunk in ammo file, starting over",
				zap.String("file", r.path), zap.Int64("position", r.pos))
			if err := r.restart(); err != nil {
				return Record{}, r.fail(err)
			}
			continue
		}
		body := make([]byte, size)
		n, rerr := io.ReadFull(r.rd, body)
		r.pos += int64(n)
		if rerr != nil {
			return Record{}, r.fail(&FormatError{
				Path:   r.path,
				Offset: r.pos,
				Header: header,
				Err:    fmt.Errorf("unexpected end of file: read %d bytes instead of %d", n, size),
			})
		}
		if marker == "" {
			marker = r.marker(uri)
		}
		req := NewHTTPAmmo(uri, r.headers.Lines(), "POST", r.httpVer, body)
		r.progressed = true
		r.board.SetFilePosition(r.pos)
		return Record{Payload: req.Render(), Marker: marker}, nil
	}
}

// parsePostHeader splits "<byte-length> <uri> [marker]". Both the length
// and the URI are required.
func parsePostHeader(header string) (int64, string, string, error) {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return 0, "", "", fmt.Errorf("chunk header is missing the byte length")
	}
	size, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, "", "", fmt.Errorf("bad chunk size: %w", err)
	}
	if size < 0 {
		return 0, "", "", fmt.Errorf("negative chunk size %d", size)
	}
	if size > 0 && len(fields) < 2 {
		return 0, "", "", fmt.Errorf("chunk header is missing the request URI")
	}
	uri := ""
	if len(fields) > 1 {
		uri = fields[1]
	}
	marker := ""
	if len(fields) > 2 {
		marker = fields[2]
	}
	return size, uri, marker, nil
}
