package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

const maxLineSize = 1024 * 1024

type Reader struct {
	source io.Reader
	logger *zerolog.Logger
}

func NewReader(source io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{
		source: source,
		logger: logger,
	}
}

// ReadAll streams the parsed lines. Blank lines are skipped, malformed lines
// are sent with Error set. The channel closes at EOF or when ctx is done.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	out := make(chan InputRecord)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r.source)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		lineNumber := 0
		for scanner.Scan() {
			lineNumber++

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			record := InputRecord{LineNumber: lineNumber}
			if err := json.Unmarshal([]byte(line), &record.Record); err != nil {
				record.Error = fmt.Errorf("line %d: invalid JSON: %w", lineNumber, err)
			} else if record.Record.ID == "" {
				record.Record.ID = fmt.Sprintf("line-%d", lineNumber)
			}

			select {
			case out <- record:
			case <-ctx.Done():
				r.logger.Warn().Int("line", lineNumber).Msg("reader cancelled")
				return
			}
		}

		if err := scanner.Err(); err != nil {
			r.logger.Error().Err(err).Int("line", lineNumber).Msg("failed to scan input")
			select {
			case out <- InputRecord{LineNumber: lineNumber + 1, Error: fmt.Errorf("read failed: %w", err)}:
			case <-ctx.Done():
			}
		}
	}()

	return out
}
