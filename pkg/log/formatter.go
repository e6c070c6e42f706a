package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// JSONFormatter renders entries as one JSON object per line.
type JSONFormatter struct {
	// TimestampFormat defaults to time.RFC3339Nano.
	TimestampFormat string
	// DisableCaller omits the caller field.
	DisableCaller bool
}

// Format implements Formatter.
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	tsFormat := f.TimestampFormat
	if tsFormat == "" {
		tsFormat = time.RFC3339Nano
	}
	out := make(map[string]interface{}, len(entry.Fields)+4)
	for k, v := range entry.Fields {
		out[k] = v
	}
	out["ts"] = entry.Timestamp.Format(tsFormat)
	out["level"] = entry.Level.String()
	out["msg"] = entry.Message
	if !f.DisableCaller && entry.Caller != "" {
		out["caller"] = entry.Caller
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// TextFormatter renders entries as `ts LEVEL msg key=value ...` lines with sorted keys.
type TextFormatter struct {
	TimestampFormat string
	ShowCaller      bool
}

// Format implements Formatter.
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	tsFormat := f.TimestampFormat
	if tsFormat == "" {
		tsFormat = "2006-01-02T15:04:05.000Z07:00"
	}
	var buf bytes.Buffer
	buf.WriteString(entry.Timestamp.Format(tsFormat))
	buf.WriteByte(' ')
	fmt.Fprintf(&buf, "%-5s", entry.Level.String())
	buf.WriteByte(' ')
	buf.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&buf, " %s=%v", k, entry.Fields[k])
	}
	if f.ShowCaller && entry.Caller != "" {
		buf.WriteString(" caller=")
		buf.WriteString(entry.Caller)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
