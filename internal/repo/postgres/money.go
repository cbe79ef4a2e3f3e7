package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// numeric — decimal → NUMERIC без потери точности (через коэффициент и экспоненту).
func numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

// fromNumeric — NUMERIC → decimal. NULL и NaN считаются ошибкой данных.
func fromNumeric(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid || n.NaN || n.Int == nil {
		return decimal.Zero, fmt.Errorf("invalid numeric value")
	}
	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}
