package validate

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/shop_checkout/internal/ports"
)

// JSONLResult — статистика валидации потока JSONL.
type JSONLResult struct {
	ValidLinesCount   int
	InvalidLinesCount int
	InvalidLines      []int // номера невалидных строк (с 1)
}

// ValidateJSONLStream — читает JSONL из reader'а, валидирует каждую заявку, валидные пишет в writer
// каноническим JSON одной строкой. Пустые строки пропускаются.
func ValidateJSONLStream(ctx context.Context, validator ports.OrderValidator, ir io.Reader, ow io.Writer) (JSONLResult, error) {
	var res JSONLResult

	scanner := bufio.NewScanner(ir)
	// запас на большие строки
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return res, err
		}

		lineBytes := bytes.TrimSpace(scanner.Bytes())
		if len(lineBytes) == 0 {
			continue
		}

		order, err := ValidateOrderFromJSON(ctx, validator, lineBytes)
		if err != nil {
			// не прерываем поток — запоминаем номер строки
			res.InvalidLinesCount++
			res.InvalidLines = append(res.InvalidLines, lineNo)
			continue
		}

		marshal, _ := json.Marshal(order)
		if _, err := ow.Write(append(marshal, '\n')); err != nil {
			return res, fmt.Errorf("write valid line: %w", err)
		}
		res.ValidLinesCount++
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}
	return res, nil
}
