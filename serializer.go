package bufferedlogger

import (
	"encoding/json"
	"fmt"
)

// Serializer turns the request record into the text written to the main
// destination.
type Serializer interface {
	Serialize(v any) (string, error)
}

// JSONSerializer serializes with encoding/json. Only values that define
// their JSON form explicitly end up in the output; for a BufferedLogger that
// is the request, the messages and the touched flag of each category.
type JSONSerializer struct {
	PrettyPrint bool
}

// Serialize implements Serializer.
func (s JSONSerializer) Serialize(v any) (string, error) {
	var (
		data []byte
		err  error
	)
	if s.PrettyPrint {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func serializeOrReport(s Serializer, v any) string {
	text, err := s.Serialize(v)
	if err != nil {
		data, _ := json.Marshal(map[string]string{
			"error": fmt.Sprintf("failed to marshal log entry: %v", err),
		})
		return string(data)
	}
	return text
}
