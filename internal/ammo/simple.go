package ammo

import (
	"context"

	"beltfeed/internal/status"
)

// SimpleGenerator repeats one pre-built request forever. Each yield counts
// as a full loop, since a single sample is the whole source.
type SimpleGenerator struct {
	payload []byte
	board   *status.Board
}

// NewSimpleGenerator wraps a single rendered request.
func NewSimpleGenerator(sample HTTPAmmo, board *status.Board) *SimpleGenerator {
	if board == nil {
		board = status.NewBoard()
	}
	return &SimpleGenerator{payload: sample.Render(), board: board}
}

// Next returns the sample and counts one loop.
func (g *SimpleGenerator) Next(ctx context.Context) (Record, error) {
	select {
	case <-ctx.Done():
		return Record{}, ctx.Err()
	default:
	}
	g.board.IncLoopCount()
	return Record{Payload: g.payload}, nil
}

// Close is a no-op; the generator holds no resources.
func (g *SimpleGenerator) Close() error { return nil }

// URIListGenerator cycles forever through GET requests built up front from
// an ordered URI list. After each yield the loop count is republished as
// the ratio of records yielded to list length; the ratio is approximate by
// design and not rounded.
type URIListGenerator struct {
	records []Record
	index   int64
	board   *status.Board
}

// NewURIListGenerator pre-renders one request per URI.
func NewURIListGenerator(uris, headers []string, httpVer string, marker Marker, board *status.Board) *URIListGenerator {
	if board == nil {
		board = status.NewBoard()
	}
	if marker == nil {
		marker = NoMarker
	}
	records := make([]Record, 0, len(uris))
	for _, uri := range uris {
		req := NewHTTPAmmo(uri, headers, "GET", httpVer, nil)
		records = append(records, Record{Payload: req.Render(), Marker: marker(uri)})
	}
	return &URIListGenerator{records: records, board: board}
}

// Next returns the next request in cycle order.
func (g *URIListGenerator) Next(ctx context.Context) (Record, error) {
	select {
	case <-ctx.Done():
		return Record{}, ctx.Err()
	default:
	}
	if len(g.records) == 0 {
		return Record{}, ErrExhausted
	}
	rec := g.records[g.index%int64(len(g.records))]
	g.index++
	g.board.SetLoopRatio(g.index, int64(len(g.records)))
	return rec, nil
}

// Close is a no-op; the generator holds no resources.
func (g *URIListGenerator) Close() error { return nil }

// Len returns the number of distinct requests in the cycle.
func (g *URIListGenerator) Len() int { return len(g.records) }
