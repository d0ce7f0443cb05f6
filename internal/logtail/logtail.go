package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Entry is one line of the slog text log, split into its fields.
type Entry struct {
	Raw   string
	Time  string
	Level string
	Msg   string
	Attrs map[string]string
}

// Filter selects entries. Zero fields match everything.
type Filter struct {
	RequestID string
	Component string
	MinLevel  slog.Leveler
}

// Match reports whether e passes the filter.
func (f Filter) Match(e Entry) bool {
	if f.RequestID != "" && e.Attrs["request_id"] != f.RequestID {
		return false
	}
	if f.Component != "" && e.Attrs["component"] != f.Component {
		return false
	}
	if f.MinLevel == nil {
		return true
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(e.Level)); err != nil {
		return false
	}
	return lvl >= f.MinLevel.Level()
}

// Tail returns the entries among the last maxLines lines of path that match f.
func Tail(path string, maxLines int, f Filter) ([]Entry, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, line := range lines {
		if e := Parse(line); f.Match(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Read returns at most maxLines from the end of the file at path. A missing
// file yields no lines; maxLines <= 0 reads the whole file.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Parse splits a slog text handler line into key=value pairs. Lines that
// are not key=value come back with only Raw and Msg set.
func Parse(line string) Entry {
	e := Entry{Raw: line, Attrs: make(map[string]string)}
	rest := strings.TrimSpace(line)
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 || strings.ContainsAny(rest[:eq], " \t") {
			break
		}
		k := rest[:eq]
		rest = rest[eq+1:]

		var v string
		if strings.HasPrefix(rest, `"`) {
			quoted, err := strconv.QuotedPrefix(rest)
			if err != nil {
				break
			}
			v, _ = strconv.Unquote(quoted)
			rest = rest[len(quoted):]
		} else if sp := strings.IndexByte(rest, ' '); sp >= 0 {
			v, rest = rest[:sp], rest[sp:]
		} else {
			v, rest = rest, ""
		}
		rest = strings.TrimLeft(rest, " ")

		switch k {
		case slog.TimeKey:
			e.Time = v
		case slog.LevelKey:
			e.Level = v
		case slog.MessageKey:
			e.Msg = v
		default:
			e.Attrs[k] = v
		}
	}
	if e.Level == "" && e.Msg == "" {
		e.Msg = line
	}
	return e
}
