package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Gunvolt24/shop_checkout/pkg/validate"
)

// Коды завершения.
const (
	exitOK       = 0 // все заявки прошли проверку
	exitRejected = 1 // есть отклонённые заявки
	exitUsage    = 2 // ошибка аргументов, чтения или записи
)

const usageText = `validate-orders — офлайн-проверка заявок на оформление заказа.

Заявка проверяется теми же правилами, что и на входе конвейера оформления:
непустые строки, положительное количество в пределах INTEGER (и суммарно по товару),
неотрицательные цены и итог в пределах NUMERIC(12,2). Клиент, каталог и остатки
не проверяются: для этого нужна база.

Usage:
  validate-orders [flags] [file ...]

Файл с расширением .jsonl читается построчно (одна заявка на строку),
любой другой — как одна заявка JSON. "-" или отсутствие файлов — stdin (JSONL).
Принятые заявки печатаются каноническим JSON по одной на строку.

Exit codes: 0 — все заявки приняты, 1 — есть отклонённые, 2 — ошибка запуска.

Flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run — разбор флагов и проверка всех входов; возвращает код завершения.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate-orders", flag.ContinueOnError)
	fs.SetOutput(stderr)
	formatStr := fs.String("format", string(validate.FormatAuto), "формат заявок: auto|json|jsonl (auto — по расширению файла)")
	outPath := fs.String("out", "-", `куда писать принятые заявки ("-" — stdout)`)
	quiet := fs.Bool("quiet", false, "не печатать принятые заявки, только итог")
	fs.Usage = func() {
		fmt.Fprint(stderr, usageText)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	format := validate.InputFormat(*formatStr)
	switch format {
	case validate.FormatAuto, validate.FormatJSON, validate.FormatJSONL:
	default:
		fmt.Fprintf(stderr, "unknown -format %q\n", *formatStr)
		return exitUsage
	}

	var accepted io.Writer = stdout
	switch {
	case *quiet:
		accepted = io.Discard
	case *outPath != "-":
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(stderr, "open -out: %v\n", err)
			return exitUsage
		}
		defer f.Close()
		accepted = f
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	orderValidator := validate.NewOrderValidator()
	code := exitOK
	var total validate.Summary
	for _, in := range inputs {
		fileFormat := format
		// stdin без явного формата — поток JSONL
		if in == "-" && fileFormat == validate.FormatAuto {
			fileFormat = validate.FormatJSONL
		}

		summary, err := validate.ValidateFile(ctx, orderValidator, in, fileFormat, accepted)
		total.Valid += summary.Valid
		total.Invalid += summary.Invalid
		switch {
		case err != nil && summary.Invalid > 0:
			// одиночная заявка JSON отклонена правилами
			fmt.Fprintf(stderr, "%s: rejected: %v\n", in, err)
		case err != nil:
			fmt.Fprintf(stderr, "%s: %v\n", in, err)
			return exitUsage
		default:
			fmt.Fprintf(stderr, "%s: %s\n", in, summary)
		}
		if summary.Invalid > 0 {
			code = exitRejected
		}
	}

	if len(inputs) > 1 {
		fmt.Fprintf(stderr, "total: %s\n", total)
	}
	return code
}
