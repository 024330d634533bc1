// Package ranger implements an io.ReaderAt over HTTP range requests, the
// usual way to hand seekgzip.Reader a remote gzip object without
// downloading it first: seekgzip only ever asks for small byte spans
// (a checkpoint's worth of decoding, at most), so turning each ReadAt into
// one ranged GET keeps random access into a multi-gigabyte remote object
// cheap.
package ranger

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// TODO: Consider probing with single byte size ranges for redirects (and a way to disable it).

// Reader is an io.ReaderAt backed by HTTP Range requests against uri. It
// follows redirects by rewriting uri in place, so later calls skip the
// redirect hop.
type Reader struct {
	ctx context.Context
	rt  http.RoundTripper
	uri string
}

// New returns a Reader issuing range requests against uri using rt (pass
// http.DefaultTransport, or a test server's client transport).
func New(ctx context.Context, uri string, rt http.RoundTripper) *Reader {
	return &Reader{
		ctx: ctx,
		rt:  rt,
		uri: uri,
	}
}

// ReadAt issues a single Range: bytes=off-off+len(p)-1 request and fills p
// from the response body. A redirect response re-resolves uri and reissues
// the request against the new location, following each further redirect
// the same way.
func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	req, err := http.NewRequestWithContext(r.ctx, "GET", r.uri, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", off, off+int64(len(p))-1))

	res, err := r.rt.RoundTrip(req)
	if err != nil {
		return 0, err
	}

	// TODO: Consider just keeping this open if the response doesn't support range.
	// It can still be faster to discard the compressed parts and only decompress the portion we need.
	defer res.Body.Close()

	if res.StatusCode == http.StatusPartialContent {
		return io.ReadFull(res.Body, p)
	}

	redir := res.Header.Get("Location")
	if redir == "" || res.StatusCode/100 != 3 {
		return 0, fmt.Errorf("%q does not support range requests, saw status: %d", r.uri, res.StatusCode)
	}

	res.Body.Close()

	u, err := url.Parse(redir)
	if err != nil {
		return 0, err
	}

	r.uri = req.URL.ResolveReference(u).String()
	return r.ReadAt(p, off)
}

// Size issues a HEAD request and returns the remote object's
// Content-Length, the compressed size seekgzip.Build needs before it can
// open an io.SectionReader over this Reader.
func (r *Reader) Size() (int64, error) {
	req, err := http.NewRequestWithContext(r.ctx, "HEAD", r.uri, nil)
	if err != nil {
		return 0, err
	}

	res, err := r.rt.RoundTrip(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return 0, fmt.Errorf("%q: HEAD returned status %d", r.uri, res.StatusCode)
	}

	cl := res.Header.Get("Content-Length")
	if cl == "" {
		return 0, fmt.Errorf("%q: HEAD response has no Content-Length", r.uri)
	}
	size, err := strconv.ParseInt(cl, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q: invalid Content-Length %q: %w", r.uri, cl, err)
	}
	return size, nil
}
