package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// TestLogger は出力をJSON行としてメモリに保持するLoggerです。
// dataset や linear のテストで、学習ログのフィールドを検証するために使います。
type TestLogger struct {
	buf    *bytes.Buffer
	level  Level
	fields map[string]any
}

// NewTestLogger は level 以上のレコードを記録する TestLogger を返します。
func NewTestLogger(level Level) (*TestLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return &TestLogger{buf: buf, level: level, fields: map[string]any{}}, buf
}

func (t *TestLogger) Debug(msg string, fields ...any) { t.emit(LevelDebug, "DEBUG", msg, fields) }
func (t *TestLogger) Info(msg string, fields ...any)  { t.emit(LevelInfo, "INFO", msg, fields) }
func (t *TestLogger) Warn(msg string, fields ...any)  { t.emit(LevelWarn, "WARN", msg, fields) }

// Error は zerolog 実装と同じく先頭の error を "error" フィールドにします。
func (t *TestLogger) Error(msg string, fields ...any) {
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			fields = append([]any{"error", err}, fields[1:]...)
		}
	}
	t.emit(LevelError, "ERROR", msg, fields)
}

func (t *TestLogger) With(fields ...any) Logger {
	merged := make(map[string]any, len(t.fields)+len(fields)/2)
	for k, v := range t.fields {
		merged[k] = v
	}
	addPairs(merged, fields)
	return &TestLogger{buf: t.buf, level: t.level, fields: merged}
}

func (t *TestLogger) Enabled(_ context.Context, level Level) bool {
	return t.level <= level
}

func (t *TestLogger) emit(level Level, name, msg string, fields []any) {
	if t.level > level {
		return
	}
	entry := map[string]any{"level": name, "message": msg}
	for k, v := range t.fields {
		entry[k] = v
	}
	addPairs(entry, fields)
	line, _ := json.Marshal(entry)
	t.buf.Write(line)
	t.buf.WriteByte('\n')
}

// addPairs は key/value の組を m に追加する。余った末尾のキーは捨てる。
func addPairs(m map[string]any, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		v := fields[i+1]
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		m[fmt.Sprint(fields[i])] = v
	}
}

// Entries は記録済みのレコードを1行ずつデコードして返します。
func (t *TestLogger) Entries() ([]map[string]any, error) {
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(t.buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e map[string]any
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ContainsMessage はいずれかのレコードに message が含まれるかを返します。
func (t *TestLogger) ContainsMessage(message string) bool {
	return strings.Contains(t.buf.String(), message)
}

// ContainsField は key が value と一致するレコードがあるかを返します。
// JSONの数値は float64 として比較されます。
func (t *TestLogger) ContainsField(key string, value any) bool {
	entries, err := t.Entries()
	if err != nil {
		return false
	}
	for _, e := range entries {
		if v, ok := e[key]; ok && v == value {
			return true
		}
	}
	return false
}
