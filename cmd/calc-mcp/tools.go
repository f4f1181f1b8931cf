package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/keypad"
)

// maxPrecision bounds the precision a client may request.
const maxPrecision = 4096

// historyURI is the resource holding calculation history.
const historyURI = "calc://history"

// tools implements the server's tools. All of them share one history.
type tools struct {
	ev       *calc.Evaluator
	hist     *keypad.History
	rightPow bool
}

func newTools(hist *keypad.History, rightPow bool) *tools {
	return &tools{
		ev:       calc.New(powopts(rightPow)...),
		hist:     hist,
		rightPow: rightPow,
	}
}

func powopts(rightPow bool) []calc.Option {
	if rightPow {
		return []calc.Option{calc.RightAssocPow()}
	}
	return nil
}

func (t *tools) register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("evaluate",
		mcp.WithDescription("Evaluate a calculator expression with + - * / ^, parentheses, "+
			"sin cos tan log ln sqrt fact, and postfix !"),
		mcp.WithString("expression",
			mcp.Required(),
			mcp.Description("Expression to evaluate, e.g. '2 + 3 * 4'"),
		),
		mcp.WithNumber("precision",
			mcp.Description("Bits of precision for exact evaluation; omit for float64"),
		),
	), t.evaluate)

	s.AddTool(mcp.NewTool("press_keys",
		mcp.WithDescription("Press calculator keys in order and return the display. "+
			"Keys are digits, '.', operators, '(', ')', function names, '√', '!', 'x²', '=', and 'C'"),
		mcp.WithArray("keys",
			mcp.Required(),
			mcp.WithStringItems(),
			mcp.Description("Key labels, e.g. ['2', '+', '3', '=']"),
		),
	), t.pressKeys)

	s.AddTool(mcp.NewTool("history",
		mcp.WithDescription("List past calculations, newest first"),
		mcp.WithBoolean("clear",
			mcp.Description("Clear the history after listing it"),
			mcp.DefaultBool(false),
		),
	), t.history)

	s.AddResource(mcp.NewResource(historyURI,
		"Calculation History",
		mcp.WithResourceDescription("Past calculations, newest first, one per line"),
		mcp.WithMIMEType("text/plain"),
	), t.historyResource)
}

func (t *tools) evaluate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	expr, ok := args["expression"].(string)
	if !ok {
		return mcp.NewToolResultError("expression is required"), nil
	}

	var prec uint
	if v, ok := args["precision"].(float64); ok {
		if v < 1 || v > maxPrecision || v != float64(uint(v)) {
			return mcp.NewToolResultError(fmt.Sprintf("precision must be an integer from 1 to %d", maxPrecision)), nil
		}
		prec = uint(v)
	}

	var x float64
	var text string
	if prec > 0 {
		ev := calc.New(append(powopts(t.rightPow), calc.Prec(prec))...)
		r, err := ev.EvalBig(expr)
		if err != nil {
			return t.fail(expr, err), nil
		}
		text = calc.FormatBig(r)
		x, _ = r.Float64()
	} else {
		r, err := t.ev.Eval(expr)
		if err != nil {
			return t.fail(expr, err), nil
		}
		text = calc.Format(r)
		x = r
	}
	if err := t.hist.Add(calc.Entry(expr, x)); err != nil {
		log.WithError(err).Warn("failed to save history")
	}
	log.WithField("expr", expr).WithField("result", text).Debug("evaluated")
	return mcp.NewToolResultText(text), nil
}

func (t *tools) fail(expr string, err error) *mcp.CallToolResult {
	log.WithError(err).WithField("expr", expr).Debug("evaluation failed")
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", keypad.ErrorDisplay, err))
}

func (t *tools) pressKeys(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	raw, ok := args["keys"].([]interface{})
	if !ok {
		return mcp.NewToolResultError("keys is required"), nil
	}
	s := keypad.NewSession(t.ev, t.hist)
	for i, k := range raw {
		label, ok := k.(string)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("key %d is not a string", i)), nil
		}
		if err := s.Press(label); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error pressing key %d: %v", i, err)), nil
		}
	}
	return mcp.NewToolResultText(s.Display()), nil
}

func (t *tools) history(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	content := t.listing()
	if clr, ok := args["clear"].(bool); ok && clr {
		if err := t.hist.Clear(); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error clearing history: %v", err)), nil
		}
	}
	return mcp.NewToolResultText(content), nil
}

func (t *tools) historyResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      historyURI,
			MIMEType: "text/plain",
			Text:     t.listing(),
		},
	}, nil
}

func (t *tools) listing() string {
	e := t.hist.Entries()
	if len(e) == 0 {
		return "No calculations yet."
	}
	return strings.Join(e, "\n")
}
