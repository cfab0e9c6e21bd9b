package driver

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EncodeUpdateCommands renders commands as the engine's JSON command stream.
// The engine accepts repeated keys in one object ("add" per document,
// "delete" per target), which encoding/json cannot produce from a map, so
// the body is assembled element by element. Operation order is fixed: adds,
// deletes by ID, deletes by query, commit.
func EncodeUpdateCommands(cmds UpdateCommands) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true

	writeOp := func(key string, value any) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.WriteByte('"')
		buf.WriteString(key)
		buf.WriteString(`":`)
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		buf.Write(raw)
		return nil
	}

	for _, doc := range cmds.Adds {
		if err := writeOp("add", map[string]any{"doc": doc}); err != nil {
			return nil, err
		}
	}
	for _, id := range cmds.DeleteIDs {
		if err := writeOp("delete", map[string]string{"id": id}); err != nil {
			return nil, err
		}
	}
	for _, q := range cmds.DeleteQueries {
		if err := writeOp("delete", map[string]string{"query": q}); err != nil {
			return nil, err
		}
	}
	if cmds.Commit {
		if err := writeOp("commit", map[string]any{}); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
