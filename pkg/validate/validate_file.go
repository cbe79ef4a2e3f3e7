package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/shop_checkout/internal/ports"
)

// InputFormat допустимые значения.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"
	FormatJSONL InputFormat = "jsonl"
)

// Summary — краткий итог проверки файла.
type Summary struct {
	Valid        int
	Invalid      int
	InvalidLines []int
}

func (s Summary) String() string {
	if len(s.InvalidLines) == 0 {
		return fmt.Sprintf("%d valid / %d invalid", s.Valid, s.Invalid)
	}
	return fmt.Sprintf("%d valid / %d invalid (lines %v)", s.Valid, s.Invalid, s.InvalidLines)
}

// detectFormat — формат по расширению; по умолчанию JSON.
func detectFormat(filePath string, format InputFormat) InputFormat {
	if format != FormatAuto {
		return format
	}
	if strings.EqualFold(filepath.Ext(filePath), ".jsonl") {
		return FormatJSONL
	}
	return FormatJSON
}

// ValidateFile — валидирует файл заявок (JSON или JSONL) и пишет валидные заявки в writer.
// Путь "-" означает stdin.
func ValidateFile(ctx context.Context, validator ports.OrderValidator, filePath string, format InputFormat, ow io.Writer) (Summary, error) {
	format = detectFormat(filePath, format)

	var in io.Reader = os.Stdin
	if filePath != "-" {
		file, err := os.Open(filePath)
		if err != nil {
			return Summary{}, fmt.Errorf("open file: %w", err)
		}
		defer file.Close()
		in = file
	}

	switch format {
	case FormatJSON:
		raw, err := io.ReadAll(in)
		if err != nil {
			return Summary{}, fmt.Errorf("read file: %w", err)
		}
		order, err := ValidateOrderFromJSON(ctx, validator, raw)
		if err != nil {
			return Summary{Invalid: 1}, err
		}
		canonical, _ := json.Marshal(order)
		if _, err := ow.Write(append(canonical, '\n')); err != nil {
			return Summary{}, fmt.Errorf("write json: %w", err)
		}
		return Summary{Valid: 1}, nil

	case FormatJSONL:
		result, err := ValidateJSONLStream(ctx, validator, in, ow)
		if err != nil {
			return Summary{}, err
		}
		return Summary{
			Valid:        result.ValidLinesCount,
			Invalid:      result.InvalidLinesCount,
			InvalidLines: result.InvalidLines,
		}, nil

	default:
		return Summary{}, fmt.Errorf("unsupported format: %s", format)
	}
}
