package main

import (
	"encoding/base64"
	"fmt"
	"html/template"
)

const downloadFilename = "documento_imei.pdf"

type noticeLevel string

const (
	noticeSuccess noticeLevel = "success"
	noticeWarning noticeLevel = "warning"
	noticeError   noticeLevel = "error"
)

type notice struct {
	Level   noticeLevel
	Message string
}

// page is the data behind index.tmpl. Document is nil unless a document was
// actually retrieved.
type page struct {
	IMEI     string
	Notices  []notice
	Document *documentView
}

func (p *page) notify(level noticeLevel, format string, args ...interface{}) {
	p.Notices = append(p.Notices, notice{Level: level, Message: fmt.Sprintf(format, args...)})
}

type documentView struct {
	// EmbedSrc is a data: uri; html/template would strip it from a plain
	// string, hence template.URL. Empty when embedding was skipped.
	EmbedSrc     template.URL
	DownloadHref string
}

// present builds the document section of the result page. The download
// action is always offered; the inline viewer is only embedded up to
// maxEmbedBytes, above that a non-fatal warning is shown instead.
func present(p *page, doc []byte, maxEmbedBytes int64) {
	view := &documentView{
		DownloadHref: fmt.Sprintf("/imei/%s/document", p.IMEI),
	}

	if maxEmbedBytes > 0 && int64(len(doc)) > maxEmbedBytes {
		p.notify(noticeWarning, "The document is too large to preview on this page (you can still download it).")
	} else {
		view.EmbedSrc = template.URL("data:application/pdf;base64," + base64.StdEncoding.EncodeToString(doc))
	}

	p.Document = view
}
