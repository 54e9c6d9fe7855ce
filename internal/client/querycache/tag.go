package querycache

import (
	"encoding/json"
	"fmt"
)

// ListID is the pseudo-id of the tag that stands for "the collection of
// this type" rather than a single resource.
const ListID = "LIST"

// Tag is a (type, id) label attached to cached data.
type Tag struct {
	Type string
	ID   string
}

func (t Tag) String() string {
	return t.Type + ":" + t.ID
}

func ListTag(typ string) Tag {
	return Tag{Type: typ, ID: ListID}
}

func IDTag(typ string, id any) Tag {
	return Tag{Type: typ, ID: fmt.Sprint(id)}
}

// Key identifies one cached entry: an operation name plus the canonical
// signature of its argument.
type Key struct {
	Op   string
	Args string
}

// NewKey builds a key from op and the JSON encoding of arg. Map keys are
// sorted by encoding/json, so equal arguments produce equal keys.
func NewKey(op string, arg any) Key {
	if arg == nil {
		return Key{Op: op}
	}
	b, err := json.Marshal(arg)
	if err != nil {
		return Key{Op: op, Args: fmt.Sprintf("%#v", arg)}
	}
	return Key{Op: op, Args: string(b)}
}

func (k Key) String() string {
	if k.Args == "" {
		return k.Op
	}
	return k.Op + "?" + k.Args
}
