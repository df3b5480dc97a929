package mock

import (
	"bytes"
	"io/ioutil"
	"net/http"
	"sync"
)

// HTTPDoer mocks http.Client. It can also serve as http.Client's transport.
type HTTPDoer struct {
	Statuses []int
	Bodies   [][]byte
	Headers  []http.Header

	DoFunc    func(*http.Request) (*http.Response, error)
	Responses []*http.Response
	Requests  []*http.Request

	i int
	m sync.Mutex
}

// Do fakes executing http request.
func (d *HTTPDoer) Do(r *http.Request) (*http.Response, error) {
	d.m.Lock()
	defer d.m.Unlock()
	defer func() {
		d.i++
	}()

	d.Requests = append(d.Requests, r)
	if d.DoFunc != nil {
		return d.DoFunc(r)
	}

	status := http.StatusOK
	if len(d.Statuses) > 0 {
		status = d.Statuses[d.i%len(d.Statuses)]
	}
	var data []byte
	if len(d.Bodies) > 0 {
		data = d.Bodies[d.i%len(d.Bodies)]
	}
	buf := bytes.NewBuffer(data)
	body := ioutil.NopCloser(buf)

	header := http.Header{}
	if len(d.Headers) > 0 {
		header = d.Headers[d.i%len(d.Headers)].Clone()
	}

	response := &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       body,
		Header:     header,
		Request:    r,
	}
	d.Responses = append(d.Responses, response)

	return response, nil
}

// RoundTrip implements http.RoundTripper.
func (d *HTTPDoer) RoundTrip(r *http.Request) (*http.Response, error) {
	return d.Do(r)
}

// Calls returns number of executed requests.
func (d *HTTPDoer) Calls() int {
	d.m.Lock()
	defer d.m.Unlock()

	return d.i
}
