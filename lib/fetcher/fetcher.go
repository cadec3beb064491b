/*
 * Copyright 2024 TecnoMovil
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package fetcher retrieves the referenced document over plain http. No
// retries, no content-type checks - the reference url is trusted as-is and
// any credentials must already be embedded in it.
package fetcher

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"gitlab.com/tecnomovil/imei-docfinder/lib"
)

// Error covers both transport failures (Err set) and http responses with
// status >= 400 (StatusCode set).
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetching %s: status %d", e.URL, e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Client interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// New returns a Client with the given request timeout. A zero timeout means
// no limit.
func New(timeout time.Duration) Client {
	return &client{httpClient: &http.Client{Timeout: timeout}}
}

type client struct {
	httpClient lib.HttpClient
}

func (c *client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{URL: url, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &Error{URL: url, StatusCode: resp.StatusCode}
	}

	b, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: url, Err: err}
	}

	return b, nil
}
