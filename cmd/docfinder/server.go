package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type HttpError struct {
	code int
	error
}

func (e HttpError) Error() string {
	return e.error.Error()
}

func NewHttpError(code int, err error) HttpError {
	return HttpError{
		code:  code,
		error: err,
	}
}

func handleError(c *gin.Context, err error) {
	var httpError HttpError
	if errors.As(err, &httpError) {
		c.JSON(httpError.code, gin.H{"error": httpError.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

type server struct {
	controller    controller
	maxEmbedBytes int64
}

func (s server) RegisterRoutes(r *gin.Engine) {
	r.GET("/", s.SearchForm)
	r.POST("/search", s.Search)
	r.GET("/imei/:imei/document", s.DownloadDocument)
}

func (s server) SearchForm(c *gin.Context) {
	c.HTML(http.StatusOK, "index.tmpl", &page{})
}

// Search runs one interaction end to end: validate, look up, fetch, present.
// Every outcome renders the same page; only the banners and the document
// section differ. Nothing is persisted between requests beyond the snapshot
// cache.
func (s server) Search(c *gin.Context) {
	imei := strings.TrimSpace(c.PostForm("imei"))
	p := &page{IMEI: imei}

	if err := validateIMEI(imei); err != nil {
		if errors.Is(err, errEmptyIMEI) {
			p.notify(noticeWarning, "Please enter an IMEI.")
		} else {
			p.notify(noticeWarning, "The IMEI must be exactly 15 digits and contain only numbers.")
		}
		c.HTML(http.StatusOK, "index.tmpl", p)
		return
	}

	url, err := s.controller.LookupURL(c.Request.Context(), imei)
	if errors.Is(err, errNoDocument) {
		p.notify(noticeError, "No document found for IMEI '%s'.", imei)
		c.HTML(http.StatusOK, "index.tmpl", p)
		return
	} else if err != nil {
		p.notify(noticeError, "Could not load the document register: %v", err)
		c.HTML(http.StatusOK, "index.tmpl", p)
		return
	}

	p.notify(noticeSuccess, "IMEI '%s' found. Retrieving the document...", imei)

	doc, err := s.controller.FetchDocument(c.Request.Context(), url)
	if err != nil {
		p.notify(noticeError, "%v", err)
		p.notify(noticeWarning, "No document available to show or download.")
		c.HTML(http.StatusOK, "index.tmpl", p)
		return
	}

	present(p, doc, s.maxEmbedBytes)
	c.HTML(http.StatusOK, "index.tmpl", p)
}

// DownloadDocument re-runs the lookup and fetch for the download action.
// Documents are never stored locally, so "download" means fetch again and
// stream through.
func (s server) DownloadDocument(c *gin.Context) {
	imei := c.Param("imei")
	if err := validateIMEI(imei); err != nil {
		handleError(c, NewHttpError(http.StatusBadRequest, err))
		return
	}

	url, err := s.controller.LookupURL(c.Request.Context(), imei)
	if errors.Is(err, errNoDocument) {
		handleError(c, NewHttpError(http.StatusNotFound, err))
		return
	} else if err != nil {
		handleError(c, NewHttpError(http.StatusBadGateway, err))
		return
	}

	doc, err := s.controller.FetchDocument(c.Request.Context(), url)
	if err != nil {
		handleError(c, NewHttpError(http.StatusBadGateway, err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", downloadFilename))
	c.Data(http.StatusOK, "application/pdf", doc)
}
