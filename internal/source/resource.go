package source

import "context"

// Resource is a history resource location whose bytes are fetched at most
// once per load and shared by every stage that parses it.
type Resource struct {
	Location string

	fetch   FetchFunc
	fetched bool
	data    []byte
	err     error
}

func NewResource(location string, fetch FetchFunc) *Resource {
	return &Resource{Location: location, fetch: fetch}
}

func (r *Resource) Bytes(ctx context.Context) ([]byte, error) {
	if !r.fetched {
		r.fetched = true
		if r.fetch == nil {
			r.err = ErrResourceUnavailable
		} else {
			r.data, r.err = r.fetch(ctx, r.Location)
		}
	}
	return r.data, r.err
}
