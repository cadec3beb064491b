package fetcher

import (
	"context"
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type mockHttpClient struct {
	mock.Mock
}

func (m *mockHttpClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

type fetcherSuite struct {
	suite.Suite
}

func TestFetcherSuite(t *testing.T) {
	suite.Run(t, new(fetcherSuite))
}

func (s *fetcherSuite) TestFetch() {
	pdf := "%PDF-1.4 some bytes"
	mockClient := &mockHttpClient{}
	mockClient.On("Do", mock.AnythingOfType("*http.Request")).Return(&http.Response{
		StatusCode: http.StatusOK,
		Body:       ioutil.NopCloser(strings.NewReader(pdf)),
	}, nil)

	b, err := (&client{httpClient: mockClient}).Fetch(context.Background(), "https://example.com/doc.pdf")
	s.NoError(err)
	s.Equal([]byte(pdf), b)
	mockClient.AssertExpectations(s.T())
}

func (s *fetcherSuite) TestFetchErrorStatus() {
	mockClient := &mockHttpClient{}
	mockClient.On("Do", mock.AnythingOfType("*http.Request")).Return(&http.Response{
		StatusCode: http.StatusNotFound,
		Body:       ioutil.NopCloser(strings.NewReader("not here")),
	}, nil)

	b, err := (&client{httpClient: mockClient}).Fetch(context.Background(), "https://example.com/doc.pdf")
	s.Nil(b)

	var fetchErr *Error
	s.True(errors.As(err, &fetchErr))
	s.Equal(http.StatusNotFound, fetchErr.StatusCode)
	s.Equal("https://example.com/doc.pdf", fetchErr.URL)
	s.EqualError(err, "fetching https://example.com/doc.pdf: status 404")
}

func (s *fetcherSuite) TestFetchTransportError() {
	mockClient := &mockHttpClient{}
	mockClient.On("Do", mock.AnythingOfType("*http.Request")).Return(nil, errors.New("connection reset"))

	b, err := (&client{httpClient: mockClient}).Fetch(context.Background(), "https://example.com/doc.pdf")
	s.Nil(b)

	var fetchErr *Error
	s.True(errors.As(err, &fetchErr))
	s.EqualError(err, "fetching https://example.com/doc.pdf: connection reset")
}

func (s *fetcherSuite) TestFetchAgainstServer() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodGet, r.Method)
		w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	b, err := New(0).Fetch(context.Background(), server.URL+"/doc.pdf")
	s.NoError(err)
	s.Equal([]byte("%PDF-1.4"), b)
}
