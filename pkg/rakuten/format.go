package rakuten

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/clbanning/mxj/v2"
)

// Format is the wire format a caller expects an endpoint to answer with.
type Format int

const (
	formatUnset Format = iota
	FormatJSON
	FormatXML
	FormatCSV
	// FormatSniff guesses between XML and JSON from the body.
	//
	// Deprecated: kept for callers of the old content-sniffing adapter. XML preceded by a byte-order
	// mark is read as JSON, and HTML error pages and CSV bodies are routed to a parser that cannot
	// handle them. Declare the format instead.
	FormatSniff
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatXML:
		return "xml"
	case FormatCSV:
		return "csv"
	case FormatSniff:
		return "sniff"
	default:
		return "unset"
	}
}

// ParseFormat maps a format name onto a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "xml":
		return FormatXML, nil
	case "csv":
		return FormatCSV, nil
	case "sniff", "auto":
		return FormatSniff, nil
	default:
		return formatUnset, &ValidationError{Field: "format", Reason: fmt.Sprintf("unsupported value %q", name)}
	}
}

func (f Format) valid() bool {
	return f >= FormatJSON && f <= FormatSniff
}

// SniffFormat reports XML when the trimmed body starts with '<' and JSON otherwise.
//
// Deprecated: see FormatSniff.
func SniffFormat(body []byte) Format {
	text := bytes.TrimSpace(body)
	if bytes.HasPrefix(text, []byte("<")) && !bytes.HasPrefix(text, []byte("{")) {
		return FormatXML
	}
	return FormatJSON
}

// decodeBody parses body according to format. The returned value is a map[string]any or []any for
// structured formats and the untouched body text for CSV.
func decodeBody(format Format, body []byte) (any, error) {
	if format == FormatSniff {
		format = SniffFormat(body)
	}

	switch format {
	case FormatJSON:
		return decodeJSON(body)
	case FormatXML:
		return decodeXML(body)
	case FormatCSV:
		return string(body), nil
	default:
		return nil, &ValidationError{Field: "format", Reason: "is required"}
	}
}

func decodeJSON(body []byte) (any, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &DecodeError{Format: FormatJSON, Raw: string(body), Err: err}
	}
	return payload, nil
}

// decodeXML converts an XML document into nested maps. Tag names become keys, repeated sibling
// tags become []any, attributes become "-name" keys and text beside attributes is stored under "#text".
func decodeXML(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &DecodeError{Format: FormatXML, Raw: string(body), Err: errors.New("empty document")}
	}
	m, err := mxj.NewMapXml(body)
	if err != nil {
		return nil, &DecodeError{Format: FormatXML, Raw: string(body), Err: err}
	}
	return map[string]any(m), nil
}
