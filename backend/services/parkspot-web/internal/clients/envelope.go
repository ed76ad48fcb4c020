package clients

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"parkspot/backend/services/parkspot-web/internal/models"
)

// Code is a response code as the backend sends it: a number (200), a numeric string ("201") or a
// textual status ("SUCCESS"). Textual success maps to 200, any other text to 0.
type Code int

// UnmarshalJSON implements json.Unmarshaler.
func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}
	if data[0] != '"' {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		v, err := n.Int64()
		if err != nil {
			return err
		}
		*c = Code(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		*c = Code(v)
		return nil
	}
	switch strings.ToUpper(s) {
	case "SUCCESS", "OK", "CREATED":
		*c = http.StatusOK
	default:
		*c = 0
	}
	return nil
}

// Envelope is the normalized result of every enveloped endpoint. Downstream code branches on OK only.
type Envelope[T any] struct {
	Code    Code
	Message string
	Body    T
	Page    PageMeta
}

// PageMeta is the pagination block of paged responses.
type PageMeta struct {
	CurrentPage   int   `json:"currentPage"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
}

// OK is the canonical success test.
func (e Envelope[T]) OK() bool {
	return e.Code == http.StatusOK || e.Code == http.StatusCreated
}

// Err returns nil for successful envelopes and *AppError otherwise.
func (e Envelope[T]) Err(endpoint string) error {
	if e.OK() {
		return nil
	}
	return &AppError{Endpoint: endpoint, Code: int(e.Code), Message: e.Message}
}

// pageOf converts a paged envelope into models.Page.
func pageOf[T any](e Envelope[[]T]) models.Page[T] {
	return models.Page[T]{
		Items:         e.Body,
		CurrentPage:   e.Page.CurrentPage,
		TotalPages:    e.Page.TotalPages,
		TotalElements: e.Page.TotalElements,
	}
}

type rawEnvelope struct {
	ResponseCode    *Code           `json:"responseCode"`
	Status          *Code           `json:"status"`
	ResponseMessage string          `json:"responseMessage"`
	Message         string          `json:"message"`
	Body            json.RawMessage `json:"body"`
	Data            json.RawMessage `json:"data"`
	PageMeta
}

// UnmarshalJSON accepts responseCode or status, responseMessage or message, body or data.
// Without a body the whole object is decoded into Body, which covers flat responses such as
// checkout sessions.
func (e *Envelope[T]) UnmarshalJSON(data []byte) error {
	var raw rawEnvelope
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.ResponseCode != nil:
		e.Code = *raw.ResponseCode
	case raw.Status != nil:
		e.Code = *raw.Status
	}

	e.Message = raw.ResponseMessage
	if e.Message == "" {
		e.Message = raw.Message
	}
	e.Page = raw.PageMeta

	payload := raw.Body
	if isEmptyJSON(payload) {
		payload = raw.Data
	}
	if !isEmptyJSON(payload) {
		return json.Unmarshal(payload, &e.Body)
	}

	_ = json.Unmarshal(data, &e.Body)
	return nil
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
