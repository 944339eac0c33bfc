package label

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// NodeID is an opaque node identifier. Graph input may use strings or
// numbers. Numbers are kept in canonical form, the way a browser prints
// them, so `1.0`, `1` and YAML `0x1` all name the same node.
type NodeID struct {
	value   string
	numeric bool
}

// StringID returns a string node identifier.
func StringID(s string) NodeID { return NodeID{value: s} }

// IntID returns a numeric node identifier.
func IntID(n int64) NodeID { return NodeID{value: strconv.FormatInt(n, 10), numeric: true} }

// FloatID returns a numeric node identifier. NaN and infinities are not
// valid identifiers.
func FloatID(f float64) (NodeID, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NodeID{}, fmt.Errorf("node id: %v is not a finite number", f)
	}
	return NodeID{value: formatNumber(f), numeric: true}, nil
}

// formatNumber renders f like JavaScript's Number.prototype.toString.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}

// parseNumberID canonicalizes a decimal number literal.
func parseNumberID(lit string) (NodeID, error) {
	if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return IntID(n), nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return NodeID{}, fmt.Errorf("node id: want string or number, got %s", lit)
	}
	return FloatID(f)
}

// String returns the identifier rendered as text.
func (id NodeID) String() string { return id.value }

// IsNumeric reports whether the identifier was supplied as a number.
func (id NodeID) IsNumeric() bool { return id.numeric }

// IsZero reports whether the identifier is unset.
func (id NodeID) IsZero() bool { return id.value == "" && !id.numeric }

// MarshalJSON encodes the identifier in its original JSON type.
func (id NodeID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// UnmarshalJSON accepts a JSON string or number.
func (id *NodeID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("node id: null")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("node id: %w", err)
		}
		*id = StringID(s)
		return nil
	}
	v, err := parseNumberID(string(data))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// UnmarshalYAML accepts a scalar; integer and float tags become numeric ids.
func (id *NodeID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode || value.Tag == "!!null" {
		return fmt.Errorf("node id: line %d: want scalar", value.Line)
	}
	if value.Tag != "!!int" && value.Tag != "!!float" {
		*id = StringID(value.Value)
		return nil
	}

	var n any
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("node id: line %d: %w", value.Line, err)
	}
	var (
		v   NodeID
		err error
	)
	switch n := n.(type) {
	case int:
		v = IntID(int64(n))
	case int64:
		v = IntID(n)
	case uint64:
		v, err = FloatID(float64(n))
	case float64:
		v, err = FloatID(n)
	default:
		err = fmt.Errorf("node id: unsupported number %q", value.Value)
	}
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*id = v
	return nil
}

// RawNode is a node as supplied by the caller, before display derivation.
//
// Label is multi-line: the first line is a title (ignored, the id is the
// title) and any further lines are auxiliary stats shown under it.
// Color is any vis-network color value, usually a string or an object.
type RawNode struct {
	ID    NodeID  `json:"id" yaml:"id"`
	Label *string `json:"label,omitempty" yaml:"label,omitempty"`
	Color any     `json:"color,omitempty" yaml:"color,omitempty"`
}

// RawEdge is an opaque edge description handed to the engine untouched.
type RawEdge map[string]any

// From returns the textual id of the edge source.
func (e RawEdge) From() (string, bool) { return e.endpoint("from") }

// To returns the textual id of the edge target.
func (e RawEdge) To() (string, bool) { return e.endpoint("to") }

// endpoint renders an endpoint so that the number 7 and the string "7"
// name the same node, matching NodeID.String.
func (e RawEdge) endpoint(key string) (string, bool) {
	v, ok := e[key]
	if !ok || v == nil {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return formatNumber(x), true
	default:
		return fmt.Sprint(x), true
	}
}

// Color is a vis-network background/border color pair.
type Color struct {
	Background string `json:"background"`
	Border     string `json:"border"`
}

// DefaultColor is used for nodes without a color of their own.
var DefaultColor = Color{Background: "#27AE60", Border: "#66BB6A"}

// DisplayNode is the derived record backing a rendered node.
//
// Title, StatsLine, ShortLabel and LongLabel never change after [Prepare].
// Label always equals ShortLabel when IsShort is set and LongLabel
// otherwise; only [Toggle] moves it. The JSON form is a vis-network DataSet
// item; the underscored fields ride along for the page.
type DisplayNode struct {
	ID         NodeID `json:"id"`
	Label      string `json:"label"`
	Title      string `json:"title"`
	StatsLine  string `json:"-"`
	ShortLabel string `json:"_shortLabel"`
	LongLabel  string `json:"_longLabel"`
	IsShort    bool   `json:"_isShort"`
	Shape      string `json:"shape"`
	Color      any    `json:"color"`
}

// Update describes a display change pushed to store subscribers.
type Update struct {
	ID      NodeID `json:"id"`
	Label   string `json:"label"`
	IsShort bool   `json:"_isShort"`
}
