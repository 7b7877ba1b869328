package datauri

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
)

const (
	fallbackMIME = "image/jpeg"
	svgMIME      = "image/svg+xml"
)

// Encode renders binary image data as a data: URL. It returns nil for empty input
// so callers can serialize a JSON null.
func Encode(b []byte) *string {
	if len(b) == 0 {
		return nil
	}
	mime := http.DetectContentType(b)
	if !strings.HasPrefix(mime, "image/") {
		mime = fallbackMIME
	}
	s := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b)
	return &s
}

// EncodeSVG renders an SVG document as a percent-encoded data: URL. Content that
// is not a complete <svg> element is base64 encoded instead.
func EncodeSVG(b []byte) *string {
	if len(b) == 0 {
		return nil
	}
	var s string
	if bytes.Contains(b, []byte("<svg")) && bytes.Contains(b, []byte("</svg>")) {
		s = "data:" + svgMIME + ";charset=utf-8," + strings.ReplaceAll(url.QueryEscape(string(b)), "+", "%20")
	} else {
		s = "data:" + svgMIME + ";base64," + base64.StdEncoding.EncodeToString(b)
	}
	return &s
}
