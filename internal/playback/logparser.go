// Package playback parses Kvaser-style CAN log files and replays them
// onto the bus, either at the recorded delta-timestamp cadence (scaled
// by a speed multiplier) or, when timestamps are not usable, at a fixed
// interval.
package playback

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/nmeactl/can-controller-node/internal/utils"
	"go.uber.org/zap"
)

// LoggedFrame is one parsed line of a Kvaser-style CAN log: bus tag,
// priority, reserved field, PGN, source/destination pair, data length,
// up to 8 data bytes, a float timestamp (seconds), and direction
// (R/T).
type LoggedFrame struct {
	Priority    uint8
	PGN         uint32
	Source      uint8
	Destination uint8
	CANID       uint32
	Data        []byte
	Timestamp   float64
	Direction   string
	RawLine     string
}

var whitespace = regexp.MustCompile(`\s+`)

// ParseLogFile reads every line of r, skipping a header line (if one of
// its fields looks like "winno"/"pgn"/"sa"/"da") and any comment
// (`#`-prefixed) or blank lines, returning every successfully parsed
// frame. A line that fails to parse is skipped rather than aborting the
// whole file, matching the original tool's tolerant per-line recovery;
// if logger is non-nil, the skipped line is logged at debug level with
// its control characters escaped so it prints on one line.
func ParseLogFile(r io.Reader, logger *zap.Logger) ([]LoggedFrame, error) {
	scanner := bufio.NewScanner(r)
	var frames []LoggedFrame
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if lineNum == 1 && looksLikeHeader(line) {
			continue
		}
		frame, ok := parseKvaserLine(line)
		if !ok {
			if line != "" && !strings.HasPrefix(line, "#") && logger != nil {
				logger.Debug("skipped unparseable log line", zap.String("line", utils.FormatSpaces([]byte(raw))))
			}
			continue
		}
		frames = append(frames, frame)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("playback: read log file: %w", err)
	}
	return frames, nil
}

func looksLikeHeader(line string) bool {
	lower := strings.ToLower(line)
	for _, keyword := range []string{"winno", "pgn", "sa", "da"} {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// parseKvaserLine parses one data line:
//
//	CAN 1 6 1F10D 91->*     8   00  00  D0  07  20  03  FF  FF   1840.937662 R
//
// columns: bus-tag, priority, reserved, pgn(hex), sa->da(hex, '*'
// broadcast), dlc, D0..D7 (hex, '-' means 0), timestamp, direction.
func parseKvaserLine(line string) (LoggedFrame, bool) {
	if line == "" || strings.HasPrefix(line, "#") {
		return LoggedFrame{}, false
	}
	parts := whitespace.Split(line, -1)
	if len(parts) < 12 {
		return LoggedFrame{}, false
	}

	priority, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		priority = 6
	}

	pgnClean := strings.TrimPrefix(strings.TrimPrefix(parts[3], "0x"), "0X")
	pgnValue, err := strconv.ParseUint(pgnClean, 16, 32)
	if err != nil {
		return LoggedFrame{}, false
	}

	sa, da := parseSourceDestination(parts[4])

	data := make([]byte, 8)
	for i := 0; i < 8 && 6+i < len(parts)-2; i++ {
		tok := parts[6+i]
		if tok == "-" || tok == "" {
			continue
		}
		v, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			continue
		}
		data[i] = byte(v)
	}

	timestamp, err := strconv.ParseFloat(parts[len(parts)-2], 64)
	if err != nil {
		return LoggedFrame{}, false
	}
	direction := parts[len(parts)-1]

	canID := (uint32(priority) << 26) | (uint32(pgnValue) << 8) | uint32(sa)

	return LoggedFrame{
		Priority:    uint8(priority),
		PGN:         uint32(pgnValue),
		Source:      sa,
		Destination: da,
		CANID:       canID,
		Data:        data,
		Timestamp:   timestamp,
		Direction:   direction,
		RawLine:     line,
	}, true
}

func parseSourceDestination(field string) (source uint8, destination uint8) {
	destination = 0xFF
	if idx := strings.Index(field, "->"); idx >= 0 {
		saPart := field[:idx]
		daPart := field[idx+2:]
		if v, err := strconv.ParseUint(saPart, 16, 8); err == nil {
			source = uint8(v)
		}
		if daPart == "*" {
			destination = 0xFF
		} else if v, err := strconv.ParseUint(daPart, 16, 8); err == nil {
			destination = uint8(v)
		}
		return source, destination
	}
	if v, err := strconv.ParseUint(field, 16, 8); err == nil {
		source = uint8(v)
	}
	return source, destination
}
