package world

import (
	"bytes"
)

// Entity is one key/value block from the entity text lump.
type Entity struct {
	properties map[string]string
	src        []byte
}

func NewEntity(block []byte) *Entity {
	e := &Entity{properties: make(map[string]string), src: block}
	// Each line holds a "key" "value" pair
	for _, line := range bytes.Split(block, []byte("\n")) {
		fields := splitQuoted(line)
		if len(fields) < 2 {
			continue
		}
		e.properties[fields[0]] = fields[1]
	}
	return e
}

// splitQuoted returns the quoted strings on a line, quotes stripped.
func splitQuoted(line []byte) []string {
	var out []string
	for {
		open := bytes.IndexByte(line, '"')
		if open == -1 {
			return out
		}
		line = line[open+1:]
		end := bytes.IndexByte(line, '"')
		if end == -1 {
			return out
		}
		out = append(out, string(line[:end]))
		line = line[end+1:]
	}
}

func (e *Entity) Property(name string) (string, bool) {
	v, ok := e.properties[name]
	return v, ok
}

func (e *Entity) Classname() string {
	v := e.properties["classname"]
	return v
}

func (e *Entity) PropertyNames() []string {
	names := make([]string, 0, len(e.properties))
	for k := range e.properties {
		names = append(names, k)
	}
	return names
}

// ParseEntities splits the raw entity text into brace-delimited blocks
// and parses each one. Braces inside quoted strings do not nest.
func ParseEntities(data []byte) []*Entity {
	var entities []*Entity
	depth := 0
	inQuote := false
	start := -1

	for i, b := range data {
		switch b {
		case '"':
			inQuote = !inQuote
		case '{':
			if inQuote {
				break
			}
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if inQuote {
				break
			}
			if depth == 0 {
				// Bad input
				return nil
			}
			depth--
			if depth == 0 {
				entities = append(entities, NewEntity(data[start:i+1]))
				start = -1
			}
		}
	}
	return entities
}
