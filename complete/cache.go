package complete

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"

	"github.com/teranos/rankd/errors"
	"github.com/teranos/rankd/proposal"
)

// DefaultCacheSize is the number of responses kept for resolve.
const DefaultCacheSize = 100

// Response is a fully assembled completion response. It is immutable once
// stored in a ResponseCache.
type Response struct {
	ID      int64
	Context proposal.Context
	// Proposals are the retained candidates in rank order; Items[i] was
	// assembled from Proposals[pid] where pid is the item's data entry.
	Proposals    []proposal.Candidate
	Items        []Item
	ItemDefaults *ItemDefaults
	IsIncomplete bool
	// CommonData is shared by every item of the response.
	CommonData map[string]string
}

// List returns the client-facing view of the response.
func (r *Response) List() *List {
	return &List{
		IsIncomplete: r.IsIncomplete,
		ItemDefaults: r.ItemDefaults,
		Items:        r.Items,
	}
}

// ResponseCache keeps recent responses by id so resolve requests can recover
// the candidate behind an item.
type ResponseCache struct {
	entries *lru.Cache
	lastID  atomic.Int64
}

// NewResponseCache creates a cache holding up to size responses.
func NewResponseCache(size int) (*ResponseCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create response cache")
	}
	return &ResponseCache{entries: entries}, nil
}

// NextID reserves a response id. Ids are unique per cache.
func (c *ResponseCache) NextID() int64 {
	return c.lastID.Add(1)
}

// Store publishes a finished response.
func (c *ResponseCache) Store(r *Response) {
	c.entries.Add(r.ID, r)
}

// Get returns the response with the given id.
func (c *ResponseCache) Get(id int64) (*Response, bool) {
	v, ok := c.entries.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Response), true
}

// Resolve returns the candidate at rank index of response id.
func (c *ResponseCache) Resolve(id int64, index int) (*Response, proposal.Candidate, error) {
	r, ok := c.Get(id)
	if !ok {
		return nil, proposal.Candidate{}, errors.Wrapf(errors.ErrNotFound, "response %d", id)
	}
	if index < 0 || index >= len(r.Proposals) {
		return nil, proposal.Candidate{}, errors.Wrapf(errors.ErrNotFound, "proposal %d of response %d", index, id)
	}
	return r, r.Proposals[index], nil
}

func (c *ResponseCache) Len() int {
	return c.entries.Len()
}
