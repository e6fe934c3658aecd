// Package jsontree provides a read-only JSON tree and schema-agnostic queries over it.
//
// Upstream payloads drift between several envelope shapes, so callers never bind
// them to structs. Instead they parse into a Node and search for semantically
// named keys wherever they happen to be nested.
package jsontree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"strconv"
)

// Kind identifies the variant held by a Node.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Member is one key/value pair of an object, in document order.
type Member struct {
	Key   string
	Value *Node
}

// Node is a parsed JSON value. Nodes are immutable once Parse returns.
type Node struct {
	kind    Kind
	boolean bool
	text    string // string value, or the number literal
	items   []*Node
	members []Member
}

// MaxDepth is the deepest array/object nesting Parse accepts, the same bound
// encoding/json applies.
const MaxDepth = 10000

var (
	// ErrTrailingData is returned when input has content after the first JSON value.
	ErrTrailingData = errors.New("jsontree: trailing data after JSON value")
	// ErrTooDeep is returned when nesting exceeds MaxDepth.
	ErrTooDeep = errors.New("exceeded max nesting depth")
)

// Parse decodes data into a tree.
func Parse(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	n, err := decodeValue(dec, 0)
	if err != nil {
		return nil, fmt.Errorf("jsontree: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrTrailingData
	}
	return n, nil
}

// ParseString is Parse for string input.
func ParseString(s string) (*Node, error) {
	return Parse([]byte(s))
}

func decodeValue(dec *json.Decoder, depth int) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok, depth)
}

func decodeToken(dec *json.Decoder, tok json.Token, depth int) (*Node, error) {
	switch v := tok.(type) {
	case nil:
		return &Node{kind: Null}, nil
	case bool:
		return &Node{kind: Bool, boolean: v}, nil
	case json.Number:
		return &Node{kind: Number, text: v.String()}, nil
	case string:
		return &Node{kind: String, text: v}, nil
	case json.Delim:
		if depth >= MaxDepth {
			return nil, ErrTooDeep
		}
		switch v {
		case '[':
			return decodeArray(dec, depth+1)
		case '{':
			return decodeObject(dec, depth+1)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", v)
	default:
		return nil, fmt.Errorf("unexpected token %T", tok)
	}
}

func decodeArray(dec *json.Decoder, depth int) (*Node, error) {
	n := &Node{kind: Array}
	for dec.More() {
		item, err := decodeValue(dec, depth)
		if err != nil {
			return nil, err
		}
		n.items = append(n.items, item)
	}
	if _, err := dec.Token(); err != nil { // ']'
		return nil, err
	}
	return n, nil
}

func decodeObject(dec *json.Decoder, depth int) (*Node, error) {
	n := &Node{kind: Object}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %T, not string", tok)
		}
		value, err := decodeValue(dec, depth)
		if err != nil {
			return nil, err
		}
		n.members = append(n.members, Member{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil { // '}'
		return nil, err
	}
	return n, nil
}

// Kind reports the variant of n. A nil Node reports Null.
func (n *Node) Kind() Kind {
	if n == nil {
		return Null
	}
	return n.kind
}

// Property returns the value stored under name, or nil when n is not an
// object or has no such key. Lookup is an exact, case-sensitive match.
func (n *Node) Property(name string) *Node {
	if n == nil || n.kind != Object {
		return nil
	}
	for _, m := range n.members {
		if m.Key == name {
			return m.Value
		}
	}
	return nil
}

// Path follows a chain of Property lookups and returns nil as soon as one misses.
func (n *Node) Path(keys ...string) *Node {
	cur := n
	for _, k := range keys {
		cur = cur.Property(k)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Members returns the object members of n in document order, or nil.
func (n *Node) Members() []Member {
	if n == nil || n.kind != Object {
		return nil
	}
	return n.members
}

// Array returns the elements of n, or nil when n is not an array.
func (n *Node) Array() []*Node {
	if n == nil || n.kind != Array {
		return nil
	}
	return n.items
}

// Index returns the i-th array element, or nil when out of range or not an array.
func (n *Node) Index(i int) *Node {
	items := n.Array()
	if i < 0 || i >= len(items) {
		return nil
	}
	return items[i]
}

// AsString returns the string value of n.
func (n *Node) AsString() (string, bool) {
	if n == nil || n.kind != String {
		return "", false
	}
	return n.text, true
}

// StringOrEmpty returns the string value of n or "".
func (n *Node) StringOrEmpty() string {
	s, _ := n.AsString()
	return s
}

// AsBool returns the boolean value of n.
func (n *Node) AsBool() (bool, bool) {
	if n == nil || n.kind != Bool {
		return false, false
	}
	return n.boolean, true
}

// AsInt returns the numeric value of n as an int. Integral floats such as
// 120.0 are accepted; fractional values and overflow are not.
func (n *Node) AsInt() (int, bool) {
	if n == nil || n.kind != Number {
		return 0, false
	}
	if i, err := strconv.ParseInt(n.text, 10, 0); err == nil {
		return int(i), true
	}
	f, err := strconv.ParseFloat(n.text, 64)
	if err != nil || f != math.Trunc(f) || f > math.MaxInt || f < math.MinInt {
		return 0, false
	}
	return int(f), true
}

// Descendants yields, depth-first and pre-order, every value stored under the
// key name anywhere in the subtree rooted at n, n itself included. A matched
// value is searched further, so nested matches follow their ancestor.
func (n *Node) Descendants(name string) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if n == nil {
			return
		}
		stack := []*Node{n}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			switch cur.kind {
			case Object:
				if v := cur.Property(name); v != nil {
					if !yield(v) {
						return
					}
				}
				for i := len(cur.members) - 1; i >= 0; i-- {
					stack = append(stack, cur.members[i].Value)
				}
			case Array:
				for i := len(cur.items) - 1; i >= 0; i-- {
					stack = append(stack, cur.items[i])
				}
			}
		}
	}
}

// First returns the first node of seq, or nil when seq is empty.
func First(seq iter.Seq[*Node]) *Node {
	for n := range seq {
		return n
	}
	return nil
}
