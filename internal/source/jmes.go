package source

import (
	"encoding/json"
	"reflect"

	"github.com/jmespath/go-jmespath"
	"github.com/pkg/errors"
)

// MessageExtractor pulls the log message out of JSON-enveloped lines, such as
// {"log": "...", "stream": "stdout"} from container log shippers.
type MessageExtractor struct {
	expr *jmespath.JMESPath
}

// NewMessageExtractor compiles a JMESPath expression.
func NewMessageExtractor(expr string) (*MessageExtractor, error) {
	jp, err := jmespath.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "compile jmespath %q", expr)
	}
	return &MessageExtractor{expr: jp}, nil
}

// Extract evaluates the expression against raw decoded as JSON, or against
// {"message": raw} when raw is not JSON. Array results use the first element
// and non-string results are re-encoded as JSON. When nothing is found the raw
// line is returned unchanged so it is reported downstream.
func (m *MessageExtractor) Extract(raw string) (string, error) {
	var input any
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		input = decoded
	} else {
		input = map[string]any{"message": raw}
	}

	res, err := m.expr.Search(input)
	if err != nil {
		return "", errors.Wrap(err, "jmespath search failed")
	}
	if rv := reflect.ValueOf(res); rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		if rv.Len() == 0 {
			return raw, nil
		}
		res = rv.Index(0).Interface()
	}
	switch v := res.(type) {
	case nil:
		return raw, nil
	case string:
		if v == "" {
			return raw, nil
		}
		return v, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", errors.Wrap(err, "marshal result failed")
		}
		return string(b), nil
	}
}
