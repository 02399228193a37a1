// Package formula evaluates the user-editable arithmetic formulas for
// gross pay, total deductions, and net pay. Expressions are parsed into
// a Go AST and restricted to the four arithmetic operators, parentheses,
// numeric literals, and the whitelisted variable names, so a stored
// formula can never call, index, or reach outside its value environment.
package formula

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindGrossPay        Kind = "grossPay"
	KindTotalDeductions Kind = "totalDeductions"
	KindNetPay          Kind = "netPay"
)

// Variable names shared between the calculator, the aggregator, and
// stored formulas. Missing entries read as zero.
const (
	VarBasicPay              = "basicPay"
	VarOvertime              = "overtime"
	VarHolidayBonus          = "holidayBonus"
	VarNightDifferentialPay  = "nightDifferentialPay"
	VarLateDeduction         = "lateDeduction"
	VarUndertimeDeduction    = "undertimeDeduction"
	VarSSS                   = "sss"
	VarPhilHealth            = "philHealth"
	VarPagIbig               = "pagIbig"
	VarCashAdvanceDeductions = "cashAdvanceDeductions"
	VarShorts                = "shorts"
	VarLoanDeductions        = "loanDeductions"
	VarOthers                = "others"
	VarGrossPay              = "grossPay"
	VarTotalDeductions       = "totalDeductions"
)

type Variables map[string]decimal.Decimal

func (v Variables) value(name string) decimal.Decimal {
	if d, ok := v[name]; ok {
		return d
	}
	return decimal.Zero
}

var kindVariables = map[Kind][]string{
	KindGrossPay: {
		VarBasicPay, VarOvertime, VarHolidayBonus, VarNightDifferentialPay,
		VarLateDeduction, VarUndertimeDeduction,
	},
	KindTotalDeductions: {
		VarSSS, VarPhilHealth, VarPagIbig, VarCashAdvanceDeductions,
		VarShorts, VarLoanDeductions, VarOthers,
		VarLateDeduction, VarUndertimeDeduction,
	},
	KindNetPay: {
		VarBasicPay, VarOvertime, VarHolidayBonus, VarNightDifferentialPay,
		VarLateDeduction, VarUndertimeDeduction,
		VarSSS, VarPhilHealth, VarPagIbig, VarCashAdvanceDeductions,
		VarShorts, VarLoanDeductions, VarOthers,
		VarGrossPay, VarTotalDeductions,
	},
}

func allowedFor(kind Kind) map[string]struct{} {
	names := kindVariables[kind]
	allowed := make(map[string]struct{}, len(names))
	for _, n := range names {
		allowed[n] = struct{}{}
	}
	return allowed
}

// AllowedVariables lists the identifiers a formula of the given kind may
// reference, in a stable order.
func AllowedVariables(kind Kind) []string {
	names := kindVariables[kind]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// CheckSyntax verifies that a formula parses and references only the
// variables available to its kind. Settings run this before persisting
// a formula string.
func CheckSyntax(kind Kind, userFormula string) error {
	_, err := compile(kind, userFormula)
	return err
}

// Evaluate runs the user formula against vars and returns its value.
// Empty formula, parse failure, an out-of-whitelist identifier, or a
// runtime failure such as division by zero all fall back to the
// built-in formula for the kind. Same inputs always produce the same
// output.
func Evaluate(kind Kind, vars Variables, userFormula string) decimal.Decimal {
	if strings.TrimSpace(userFormula) != "" {
		if expr, err := compile(kind, userFormula); err == nil {
			if result, err := eval(expr, vars); err == nil {
				return result
			}
		}
	}
	return Fallback(kind, vars)
}

// Fallback is the built-in formula per kind. Late and undertime already
// reduce gross pay, so they stay out of the deduction sum.
func Fallback(kind Kind, vars Variables) decimal.Decimal {
	switch kind {
	case KindGrossPay:
		return vars.value(VarBasicPay).
			Add(vars.value(VarOvertime)).
			Add(vars.value(VarHolidayBonus)).
			Add(vars.value(VarNightDifferentialPay)).
			Sub(vars.value(VarLateDeduction)).
			Sub(vars.value(VarUndertimeDeduction))
	case KindTotalDeductions:
		return vars.value(VarSSS).
			Add(vars.value(VarPhilHealth)).
			Add(vars.value(VarPagIbig)).
			Add(vars.value(VarCashAdvanceDeductions)).
			Add(vars.value(VarShorts)).
			Add(vars.value(VarLoanDeductions)).
			Add(vars.value(VarOthers))
	case KindNetPay:
		return vars.value(VarGrossPay).Sub(vars.value(VarTotalDeductions))
	}
	return decimal.Zero
}

var errDivisionByZero = errors.New("division by zero")

func compile(kind Kind, src string) (ast.Expr, error) {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("parse formula: %w", err)
	}
	if err := validateNode(expr, allowedFor(kind)); err != nil {
		return nil, err
	}
	return expr, nil
}

func validateNode(node ast.Expr, allowed map[string]struct{}) error {
	switch n := node.(type) {
	case *ast.BasicLit:
		if n.Kind != token.INT && n.Kind != token.FLOAT {
			return fmt.Errorf("literal %s not allowed in formula", n.Value)
		}
		return nil
	case *ast.Ident:
		if _, ok := allowed[n.Name]; !ok {
			return fmt.Errorf("unknown formula variable %q", n.Name)
		}
		return nil
	case *ast.ParenExpr:
		return validateNode(n.X, allowed)
	case *ast.UnaryExpr:
		if n.Op != token.ADD && n.Op != token.SUB {
			return fmt.Errorf("operator %s not allowed in formula", n.Op)
		}
		return validateNode(n.X, allowed)
	case *ast.BinaryExpr:
		switch n.Op {
		case token.ADD, token.SUB, token.MUL, token.QUO:
		default:
			return fmt.Errorf("operator %s not allowed in formula", n.Op)
		}
		if err := validateNode(n.X, allowed); err != nil {
			return err
		}
		return validateNode(n.Y, allowed)
	default:
		return fmt.Errorf("%T not allowed in formula", node)
	}
}

func eval(node ast.Expr, vars Variables) (decimal.Decimal, error) {
	switch n := node.(type) {
	case *ast.BasicLit:
		return decimal.NewFromString(n.Value)
	case *ast.Ident:
		return vars.value(n.Name), nil
	case *ast.ParenExpr:
		return eval(n.X, vars)
	case *ast.UnaryExpr:
		x, err := eval(n.X, vars)
		if err != nil {
			return decimal.Zero, err
		}
		if n.Op == token.SUB {
			return x.Neg(), nil
		}
		return x, nil
	case *ast.BinaryExpr:
		x, err := eval(n.X, vars)
		if err != nil {
			return decimal.Zero, err
		}
		y, err := eval(n.Y, vars)
		if err != nil {
			return decimal.Zero, err
		}
		switch n.Op {
		case token.ADD:
			return x.Add(y), nil
		case token.SUB:
			return x.Sub(y), nil
		case token.MUL:
			return x.Mul(y), nil
		case token.QUO:
			if y.IsZero() {
				return decimal.Zero, errDivisionByZero
			}
			return x.DivRound(y, 8), nil
		}
	}
	return decimal.Zero, fmt.Errorf("%T not allowed in formula", node)
}
