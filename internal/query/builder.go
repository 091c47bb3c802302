package query

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rebelice/datalist/internal/models"
)

// Request parameter names
const (
	ParamPage    = "page"
	ParamPerPage = "perpage"
	ParamOffset  = "offset"
	ParamSearch  = "search"
	ParamSort    = "sort"
	ParamFilters = "filters"
)

// Features selects which parameters a widget sends
type Features struct {
	Pagination     bool
	InfiniteScroll bool
	Search         bool
	Sort           bool
	Filters        bool
}

// Input is everything a request is derived from
type Input struct {
	BaseURL  string
	Features Features
	State    models.ViewState
	Filters  []models.FilterParam
	// Offset is the number of items already shown, used with infinite scroll
	Offset int
}

// Param is one query parameter
type Param struct {
	Key   string
	Value string
}

// Request is a base URL plus ordered query parameters
type Request struct {
	BaseURL string
	Params  []Param
}

// Build derives the request for in. It has no side effects.
func Build(in Input) (Request, error) {
	req := Request{BaseURL: in.BaseURL}
	f := in.Features

	if f.Pagination {
		req.Set(ParamPage, strconv.Itoa(in.State.Page))
		req.Set(ParamPerPage, strconv.Itoa(in.State.PerPage))
	}
	if f.InfiniteScroll {
		req.Set(ParamOffset, strconv.Itoa(in.Offset))
	}
	if f.Search && in.State.SearchTerm != "" {
		req.Set(ParamSearch, in.State.SearchTerm)
	}
	if f.Sort && !in.State.Sort.IsZero() {
		data, err := json.Marshal(in.State.Sort)
		if err != nil {
			return Request{}, fmt.Errorf("failed to encode sort: %w", err)
		}
		req.Set(ParamSort, string(data))
	}
	if f.Filters && len(in.Filters) > 0 {
		wire := make([]models.FilterParam, len(in.Filters))
		for i, p := range in.Filters {
			wire[i] = models.FilterParam{Filter: p.Filter, Operator: p.Operator, Value: p.Value}
		}
		data, err := json.Marshal(wire)
		if err != nil {
			return Request{}, fmt.Errorf("failed to encode filters: %w", err)
		}
		req.Set(ParamFilters, string(data))
	}
	return req, nil
}

// Set sets a parameter, replacing an earlier value in place
func (r *Request) Set(key, value string) {
	for i, p := range r.Params {
		if p.Key == key {
			r.Params[i].Value = value
			return
		}
	}
	r.Params = append(r.Params, Param{Key: key, Value: value})
}

// Get returns the value of a parameter
func (r Request) Get(key string) (string, bool) {
	for _, p := range r.Params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// URL merges the parameters into the base URL. Parameters already present in
// the base URL are kept unless overridden; the request's own parameters follow
// them in order.
func (r Request) URL() (string, error) {
	u, err := url.Parse(r.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", r.BaseURL, err)
	}

	existing := u.Query()
	for _, p := range r.Params {
		existing.Del(p.Key)
	}

	var b strings.Builder
	b.WriteString(existing.Encode())
	for _, p := range r.Params {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	u.RawQuery = b.String()
	return u.String(), nil
}

// Decode parses the parameters of an incoming request, the inverse of Build.
// The server side uses it to read the wire protocol.
func Decode(values url.Values) (Decoded, error) {
	d := Decoded{Search: values.Get(ParamSearch)}

	var err error
	if d.Page, err = intParam(values, ParamPage, 1); err != nil {
		return Decoded{}, err
	}
	if d.PerPage, err = intParam(values, ParamPerPage, 0); err != nil {
		return Decoded{}, err
	}
	if d.Offset, err = intParam(values, ParamOffset, 0); err != nil {
		return Decoded{}, err
	}
	if d.Page < 1 {
		return Decoded{}, fmt.Errorf("invalid %s: %d", ParamPage, d.Page)
	}

	if raw := values.Get(ParamSort); raw != "" {
		if err := json.Unmarshal([]byte(raw), &d.Sort); err != nil {
			return Decoded{}, fmt.Errorf("invalid %s: %w", ParamSort, err)
		}
	}
	if raw := values.Get(ParamFilters); raw != "" {
		if err := json.Unmarshal([]byte(raw), &d.Filters); err != nil {
			return Decoded{}, fmt.Errorf("invalid %s: %w", ParamFilters, err)
		}
	}
	return d, nil
}

// Decoded is the parsed form of an incoming request
type Decoded struct {
	Page    int
	PerPage int
	Offset  int
	Search  string
	Sort    models.SortSpec
	Filters []models.FilterParam
}

func intParam(values url.Values, key string, def int) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
