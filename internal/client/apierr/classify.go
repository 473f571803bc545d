package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

const unknownMessage = "unknown error"

// maxErrorBody bounds how much of a failed response is read.
const maxErrorBody = 1 << 20

// Payload is the error body schema of the remote service: a top-level
// detail, message or error string, field-level lists and non_field_errors.
type Payload struct {
	Detail         string
	Message        string
	Error          string
	NonFieldErrors []string
	Fields         map[string][]string
}

// UnmarshalJSON accepts field lists given either as a list of strings or as
// a single string. Values of any other shape are skipped.
func (p *Payload) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*p = Payload{}
	for k, v := range raw {
		switch k {
		case "detail":
			_ = json.Unmarshal(v, &p.Detail)
		case "message":
			_ = json.Unmarshal(v, &p.Message)
		case "error":
			_ = json.Unmarshal(v, &p.Error)
		case "non_field_errors":
			p.NonFieldErrors = stringList(v)
		default:
			if msgs := stringList(v); len(msgs) > 0 {
				if p.Fields == nil {
					p.Fields = make(map[string][]string)
				}
				p.Fields[k] = msgs
			}
		}
	}
	return nil
}

func stringList(v json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(v, &list); err == nil {
		return list
	}
	var one string
	if err := json.Unmarshal(v, &one); err == nil && one != "" {
		return []string{one}
	}
	return nil
}

// FieldErrors renders the field-level messages as "field: a, b" joined by
// "; ", fields in lexical order.
func (p Payload) FieldErrors() string {
	if len(p.Fields) == 0 {
		return ""
	}
	names := make([]string, 0, len(p.Fields))
	for name := range p.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(p.Fields[name], ", "))
	}
	return strings.Join(parts, "; ")
}

// Best returns the most specific message in p, or "".
func (p Payload) Best() string {
	switch {
	case p.Detail != "":
		return p.Detail
	case p.Message != "":
		return p.Message
	case p.Error != "":
		return p.Error
	case len(p.Fields) > 0:
		return p.FieldErrors()
	case len(p.NonFieldErrors) > 0:
		return strings.Join(p.NonFieldErrors, ", ")
	}
	return ""
}

// Classify normalizes raw into an ErrorRecord. A message carried by raw wins,
// then a detail field, then raw itself when it is a string.
func Classify(raw any, context string) ErrorRecord {
	rec := ErrorRecord{Message: unknownMessage}

	switch v := raw.(type) {
	case *Error:
		if v != nil {
			rec = v.Record
		}
	case error:
		if v != nil && v.Error() != "" {
			rec.Message = v.Error()
		}
	case Payload:
		if msg := v.Message; msg != "" {
			rec.Message = msg
		} else if v.Detail != "" {
			rec.Message = v.Detail
		}
	case *Payload:
		if v != nil {
			return Classify(*v, context)
		}
	case map[string]any:
		if msg, ok := v["message"].(string); ok && msg != "" {
			rec.Message = msg
		} else if detail, ok := v["detail"].(string); ok && detail != "" {
			rec.Message = detail
		}
		if code, ok := v["code"].(float64); ok {
			rec.Code = int(code)
		} else if code, ok := v["code"].(int); ok {
			rec.Code = code
		}
	case string:
		if v != "" {
			rec.Message = v
		}
	}

	if context != "" {
		rec.Details = "context: " + context
	}
	return rec
}

// ClassifyHTTP reads the error body of resp and classifies it. Code is
// always resp.StatusCode.
func ClassifyHTTP(resp *http.Response, context string) ErrorRecord {
	msg := "HTTP " + statusLine(resp)

	if resp.Body != nil {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err == nil && len(body) > 0 {
			var p Payload
			if json.Unmarshal(body, &p) == nil {
				if best := p.Best(); best != "" {
					msg = best
				}
			}
		}
	}

	rec := Classify(msg, context)
	rec.Code = resp.StatusCode
	return rec
}

func statusLine(resp *http.Response) string {
	text := http.StatusText(resp.StatusCode)
	if text == "" {
		_, text, _ = strings.Cut(resp.Status, " ")
	}
	return strings.TrimSpace(fmt.Sprintf("%d: %s", resp.StatusCode, text))
}

// IsNotFound reports whether err is an HTTP 404 from the remote service.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Record.Code == http.StatusNotFound
}
