package trace

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/oarkflow/json"
)

// Format is how a StreamTracer or a ring dump renders events.
type Format uint8

const (
	FormatText Format = iota
	FormatNDJSON
)

// ParseFormat accepts text (the default) and ndjson, alias json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatText, fmt.Errorf("invalid trace format: %q (expected: text|ndjson)", s)
}

// FormatEvent renders ev as one newline-terminated record.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return eventJSON(ev)
	}
	return eventText(ev)
}

const (
	clockLayout = "15:04:05.000000"
	stampLayout = "2006-01-02T15:04:05.000000Z07:00"
)

var kindMarks = [...]string{KindSpanBegin: "→", KindSpanEnd: "←", KindPoint: "•"}

// eventText: "15:04:05.000000   → name (detail) {k=v, ...}"
func eventText(ev *Event) []byte {
	parts := []string{ev.Time.Format(clockLayout)}
	if ev.ParentID > 0 {
		parts[0] += "  "
	}
	if int(ev.Kind) < len(kindMarks) && kindMarks[ev.Kind] != "" {
		parts = append(parts, kindMarks[ev.Kind])
	}
	parts = append(parts, ev.Name)
	if ev.Detail != "" {
		parts = append(parts, "("+ev.Detail+")")
	}
	if len(ev.Extra) > 0 {
		pairs := make([]string, 0, len(ev.Extra))
		for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			pairs = append(pairs, k+"="+ev.Extra[k])
		}
		parts = append(parts, "{"+strings.Join(pairs, ", ")+"}")
	}
	return []byte(strings.Join(parts, " ") + "\n")
}

type eventRecord struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id"`
	ParentID uint64            `json:"parent_id,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func eventJSON(ev *Event) []byte {
	data, err := json.Marshal(eventRecord{
		Time:     ev.Time.Format(stampLayout),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	if err != nil {
		data = fmt.Appendf(nil, `{"seq":%d,"error":%q}`, ev.Seq, err.Error())
	}
	return append(data, '\n')
}
